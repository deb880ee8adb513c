package core

import "testing"

func TestBuildUniquenessIndex(t *testing.T) {
	users := []CsvUser{
		{UserName: "alice", Email: "alice@example.com"},
		{UserName: "bob", Email: ""},
		{UserName: "alice", Email: "alice@example.com"}, // repeats row 0
		{UserName: "carol", Email: "carol@example.com"},
	}

	idx := BuildUniquenessIndex(users)

	t.Run("first occurrence wins", func(t *testing.T) {
		if i, ok := idx.FirstUserName("alice"); !ok || i != 0 {
			t.Errorf("FirstUserName(alice) = %d,%v; want 0,true", i, ok)
		}
		if i, ok := idx.FirstEmail("alice@example.com"); !ok || i != 0 {
			t.Errorf("FirstEmail = %d,%v; want 0,true", i, ok)
		}
	})

	t.Run("empty emails are not indexed", func(t *testing.T) {
		if _, ok := idx.FirstEmail(""); ok {
			t.Error("empty email must not be indexed")
		}
		if len(idx.Emails()) != 2 {
			t.Errorf("Emails() = %v, want 2 values", idx.Emails())
		}
	})

	t.Run("usernames always indexed", func(t *testing.T) {
		if len(idx.UserNames()) != 3 {
			t.Errorf("UserNames() = %v, want 3 values", idx.UserNames())
		}
	})

	t.Run("unknown values miss", func(t *testing.T) {
		if _, ok := idx.FirstUserName("dave"); ok {
			t.Error("dave should not be indexed")
		}
	})
}
