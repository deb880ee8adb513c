package web

// csv.go is the raw-text-to-record boundary: it turns an uploaded CSV body
// into the header list and CsvUser rows the core pipeline consumes. Header
// membership, schema rules, and uniqueness are all checked downstream; this
// file only decodes.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/candidatehub/userimport/internal/core"
)

// decodeUsers parses CSV bytes into headers and rows. Cells are trimmed;
// rows shorter than the header are padded with empty values so ragged lines
// surface as validation errors, not decode failures.
func decodeUsers(data []byte) ([]string, []core.CsvUser, error) {
	r := csv.NewReader(bytes.NewReader(sanitizeUTF8(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	headerRow, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse CSV header: %w", err)
	}

	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = cleanCell(h)
	}

	var users []core.CsvUser
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse CSV line %d: %w", line, err)
		}
		if isEmptyRow(record) {
			continue
		}
		users = append(users, rowToUser(headers, record))
	}
	return headers, users, nil
}

// rowToUser maps cells to CsvUser fields by header position. Columns the
// struct does not know are ignored here; header validation rejects them
// before any row is evaluated.
func rowToUser(headers, record []string) core.CsvUser {
	var u core.CsvUser
	for i, h := range headers {
		var value string
		if i < len(record) {
			value = cleanCell(record[i])
		}
		switch h {
		case "userName":
			u.UserName = value
		case "password":
			u.Password = value
		case "fullName":
			u.FullName = value
		case "gender":
			u.Gender = value
		case "dateOfBirth":
			u.DateOfBirth = value
		case "email":
			u.Email = value
		}
	}
	return u
}

// cleanCell trims whitespace and a UTF-8 BOM.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

func isEmptyRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune so
// the CSV reader never chokes on mixed encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.Bytes()
}
