package core

// validate.go implements the first two pipeline stages: header validation
// against the allowed field set and the budget-bounded row scan.

// ValidateHeaders checks every CSV column name against the allowed field
// set derived from the registration config. Any unknown column aborts the
// whole request with an *InvalidHeaderError before row validation begins.
func ValidateHeaders(headers []string, cfg RegistrationConfig) error {
	allowed := make(map[string]bool, len(cfg.Fields))
	names := make([]string, 0, len(cfg.Fields))
	for _, fd := range cfg.Fields {
		allowed[fd.FieldName] = true
		names = append(names, fd.FieldName)
	}

	for _, h := range headers {
		if !allowed[h] {
			return &InvalidHeaderError{Header: h, Allowed: names}
		}
	}
	return nil
}

// ValidateRows validates each row against the composed schema and flags
// in-file duplicates, in ascending index order, stopping as soon as the
// budget is exhausted. Rows past the stopping point are never evaluated.
func ValidateRows(users []CsvUser, idx *UniquenessIndex, schema Schema, budget *ErrorBudget) {
	for i := 0; i < len(users) && !budget.Exhausted(); i++ {
		u := users[i]
		line := lineFor(i)

		errs := schema.ValidateUser(u, line)

		if u.Email != "" {
			if first, ok := idx.FirstEmail(u.Email); ok && first != i {
				errs = append(errs, RowError{
					Field:   "email",
					Value:   u.Email,
					Message: "The email should be unique in the file",
					Line:    line,
				})
			}
		}
		if first, ok := idx.FirstUserName(u.UserName); ok && first != i {
			errs = append(errs, RowError{
				Field:   "userName",
				Value:   u.UserName,
				Message: "The userName should be unique in the file",
				Line:    line,
			})
		}

		if len(errs) > 0 {
			budget.Append(i, errs...)
			budget.Charge()
		}
	}
}
