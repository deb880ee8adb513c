package core

// schema.go implements the composable validation-rule set used to validate
// CSV rows. A schema is an ordered list of field rules; merging a caller
// extension overrides rules by field name and appends unknown ones, so a
// per-client schema can tighten the base rules or forbid a field outright.

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// RuleKind is the value type a field rule checks.
type RuleKind int

const (
	RuleText RuleKind = iota
	RuleEmail
	RuleEnum
	RuleDate
)

// FieldRule defines the validation rules for a single CSV field.
type FieldRule struct {
	Field      string   // CSV column name
	Kind       RuleKind // value type
	Required   bool     // empty value is an error
	Forbidden  bool     // non-empty value is an error
	MinLen     int      // minimum length for non-empty text (0 = no minimum)
	MaxLen     int      // maximum length (0 = no maximum)
	EnumValues []string // allowed values for RuleEnum, matched exactly
}

// Schema is an ordered list of field rules.
type Schema struct {
	rules []FieldRule
}

// NewSchema builds a schema from rules, preserving order.
func NewSchema(rules ...FieldRule) Schema {
	return Schema{rules: rules}
}

// Rules returns the rules in order.
func (s Schema) Rules() []FieldRule {
	return s.rules
}

// Merge returns a schema where rules from ext replace same-named rules of s
// and any new rules are appended in ext order. Neither schema is modified.
func (s Schema) Merge(ext Schema) Schema {
	merged := make([]FieldRule, len(s.rules))
	copy(merged, s.rules)

	for _, er := range ext.rules {
		replaced := false
		for i, r := range merged {
			if strings.EqualFold(r.Field, er.Field) {
				merged[i] = er
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, er)
		}
	}
	return Schema{rules: merged}
}

// ValidateUser checks one row against every rule and returns all violations
// with the given 2-based line number.
func (s Schema) ValidateUser(u CsvUser, line int) []RowError {
	var errs []RowError

	for _, rule := range s.rules {
		value := fieldValue(u, rule.Field)

		if rule.Forbidden {
			if value != "" {
				errs = append(errs, RowError{
					Field:   rule.Field,
					Value:   value,
					Message: "field is not allowed",
					Line:    line,
				})
			}
			continue
		}

		if value == "" {
			if rule.Required {
				errs = append(errs, RowError{
					Field:   rule.Field,
					Message: "required field is empty",
					Line:    line,
				})
			}
			continue
		}

		if msg := validateValue(value, rule); msg != "" {
			errs = append(errs, RowError{
				Field:   rule.Field,
				Value:   value,
				Message: msg,
				Line:    line,
			})
		}
	}

	return errs
}

// validateValue checks a non-empty value against a rule and returns an
// error message, or "" when the value is valid.
func validateValue(value string, rule FieldRule) string {
	if rule.MinLen > 0 && len(value) < rule.MinLen {
		return fmt.Sprintf("must be at least %d characters", rule.MinLen)
	}
	if rule.MaxLen > 0 && len(value) > rule.MaxLen {
		return fmt.Sprintf("must be at most %d characters", rule.MaxLen)
	}

	switch rule.Kind {
	case RuleEmail:
		if _, err := mail.ParseAddress(value); err != nil {
			return "invalid email address"
		}
	case RuleEnum:
		for _, ev := range rule.EnumValues {
			if ev == value {
				return ""
			}
		}
		return fmt.Sprintf("value must be one of: %s", strings.Join(rule.EnumValues, ", "))
	case RuleDate:
		if !parseableDate(value) {
			return "invalid date format (use YYYY-MM-DD or similar)"
		}
	}
	return ""
}

// dateLayouts are the accepted date-of-birth formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
}

// ParseDate parses a date-of-birth value using the accepted layouts. The
// store uses it at insert time; validated rows are guaranteed to parse.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseableDate(value string) bool {
	_, ok := ParseDate(value)
	return ok
}

// fieldValue returns a CsvUser field by its CSV column name. Unknown names
// resolve to "" so forbidden rules on columns outside CsvUser are inert
// (header validation rejects those columns before rows are evaluated).
func fieldValue(u CsvUser, field string) string {
	switch field {
	case "userName":
		return u.UserName
	case "password":
		return u.Password
	case "fullName":
		return u.FullName
	case "gender":
		return u.Gender
	case "dateOfBirth":
		return u.DateOfBirth
	case "email":
		return u.Email
	default:
		return ""
	}
}

// BaseSchema builds the base user schema from a registration config. The
// canonical rules for the known fields are kept, with the Required flag
// taken from the config's field descriptors when present.
func BaseSchema(cfg RegistrationConfig) Schema {
	rules := []FieldRule{
		{Field: "userName", Kind: RuleText, Required: true, MinLen: 3, MaxLen: 64},
		{Field: "password", Kind: RuleText, Required: true, MinLen: 8, MaxLen: 128},
		{Field: "fullName", Kind: RuleText, Required: true, MaxLen: 256},
		{Field: "gender", Kind: RuleEnum, Required: true, EnumValues: []string{GenderMale, GenderFemale}},
		{Field: "dateOfBirth", Kind: RuleDate, Required: true},
		{Field: "email", Kind: RuleEmail, Required: false},
	}

	// Descriptors can only tighten the base rules: a config may require an
	// otherwise-optional field (email), never relax a required one.
	for i, rule := range rules {
		for _, fd := range cfg.Fields {
			if strings.EqualFold(fd.FieldName, rule.Field) && fd.Required {
				rules[i].Required = true
				break
			}
		}
	}
	return Schema{rules: rules}
}
