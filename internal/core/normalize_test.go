package core

import "testing"

func TestNormalizeRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase male", input: "male", want: "Male"},
		{name: "uppercase female", input: "FEMALE", want: "Female"},
		{name: "mixed case", input: "fEmAlE", want: "Female"},
		{name: "already canonical", input: "Male", want: "Male"},
		{name: "short value untouched", input: "m", want: "m"},
		{name: "three chars untouched", input: "FEM", want: "FEM"},
		{name: "empty untouched", input: "", want: ""},
		{name: "garbage still title-cased", input: "unknown", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := []CsvUser{{Gender: tt.input}}
			NormalizeRows(users)
			if users[0].Gender != tt.want {
				t.Errorf("gender = %q, want %q", users[0].Gender, tt.want)
			}
		})
	}
}

func TestNormalizeRowsOnlyTouchesGender(t *testing.T) {
	users := []CsvUser{{UserName: "alice", FullName: "alice smith", Gender: "male"}}
	NormalizeRows(users)

	if users[0].UserName != "alice" || users[0].FullName != "alice smith" {
		t.Errorf("normalization must be confined to gender: %+v", users[0])
	}
}
