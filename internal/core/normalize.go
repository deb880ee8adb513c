package core

// normalize.go canonicalizes ambiguous enum-like values before validation.

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var genderCaser = cases.Title(language.English)

// NormalizeRows rewrites gender values of at least 4 characters to title
// case ("male" -> "Male", "FEMALE" -> "Female") in place. Shorter values
// pass through untouched and are left for schema validation to reject.
func NormalizeRows(users []CsvUser) {
	for i := range users {
		if len(users[i].Gender) >= 4 {
			users[i].Gender = genderCaser.String(users[i].Gender)
		}
	}
}
