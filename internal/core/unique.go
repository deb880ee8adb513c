package core

// unique.go builds the first-occurrence index used for in-file duplicate
// detection and for the persisted-conflict lookup.

// UniquenessIndex maps the two uniqueness-constrained field values to the
// smallest row index at which they appear. Built in one ordered pass and
// read-only afterwards.
type UniquenessIndex struct {
	emails    map[string]int
	userNames map[string]int
}

// BuildUniquenessIndex scans the batch once, in row order. Emails are
// indexed only when non-empty; usernames always.
func BuildUniquenessIndex(users []CsvUser) *UniquenessIndex {
	idx := &UniquenessIndex{
		emails:    make(map[string]int),
		userNames: make(map[string]int),
	}
	for i, u := range users {
		if u.Email != "" {
			if _, ok := idx.emails[u.Email]; !ok {
				idx.emails[u.Email] = i
			}
		}
		if _, ok := idx.userNames[u.UserName]; !ok {
			idx.userNames[u.UserName] = i
		}
	}
	return idx
}

// FirstEmail returns the first row index holding the given email.
func (x *UniquenessIndex) FirstEmail(email string) (int, bool) {
	i, ok := x.emails[email]
	return i, ok
}

// FirstUserName returns the first row index holding the given username.
func (x *UniquenessIndex) FirstUserName(userName string) (int, bool) {
	i, ok := x.userNames[userName]
	return i, ok
}

// Emails returns every distinct non-empty email in the batch.
func (x *UniquenessIndex) Emails() []string {
	out := make([]string, 0, len(x.emails))
	for v := range x.emails {
		out = append(out, v)
	}
	return out
}

// UserNames returns every distinct username in the batch.
func (x *UniquenessIndex) UserNames() []string {
	out := make([]string, 0, len(x.userNames))
	for v := range x.userNames {
		out = append(out, v)
	}
	return out
}
