package core

// conflicts.go implements the persisted-conflict check: one bounded store
// query for batch values that already exist, continuing the same error
// budget the schema phase left behind.

import "context"

// CheckPersistedConflicts queries the store for persisted users colliding
// with the batch's indexed emails or usernames (at most budget capacity
// rows) and charges each conflicting row against the remaining budget, in
// ascending index order.
//
// The bounded query is a deliberate precision/cost trade-off: if storage
// holds more matches than the limit, conflicts on later rows can go
// unreported here. The unique constraint at insert time remains the source
// of truth for anything this check misses.
func CheckPersistedConflicts(ctx context.Context, store UserStore, users []CsvUser, idx *UniquenessIndex, budget *ErrorBudget, limit int) error {
	if budget.Exhausted() {
		return nil
	}

	existing, err := store.FindExisting(ctx, idx.Emails(), idx.UserNames(), limit)
	if err != nil {
		return err
	}

	takenEmails := make(map[string]bool)
	takenUserNames := make(map[string]bool)
	for _, e := range existing {
		if e.Email != "" {
			takenEmails[e.Email] = true
		}
		takenUserNames[e.UserName] = true
	}

	for i := 0; i < len(users) && !budget.Exhausted(); i++ {
		u := users[i]
		line := lineFor(i)
		found := false

		if u.Email != "" && takenEmails[u.Email] {
			budget.Append(i, RowError{
				Field:   "email",
				Value:   u.Email,
				Message: "The email already exists",
				Line:    line,
			})
			found = true
		}
		if u.UserName != "" && takenUserNames[u.UserName] {
			budget.Append(i, RowError{
				Field:   "userName",
				Value:   u.UserName,
				Message: "The userName already exists",
				Line:    line,
			})
			found = true
		}

		// One charge per row, not per field.
		if found {
			budget.Charge()
		}
	}
	return nil
}
