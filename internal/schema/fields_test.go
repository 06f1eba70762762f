package schema

import "testing"

func TestHeaderFor(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		want   string
		wantOk bool
	}{
		{name: "ark", field: FieldArk, want: "Item Ark", wantOk: true},
		{name: "subject", field: FieldSubject, want: "Subject", wantOk: true},
		{name: "rights statement", field: FieldRightsStatement, want: "Rights.copyrightStatus", wantOk: true},
		{name: "outside dictionary", field: "no_such_field", want: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HeaderFor(tt.field)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("HeaderFor(%q) = %q, %v, want %q, %v", tt.field, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestAllowedHeadersIncludeStructuralColumns(t *testing.T) {
	allowed := make(map[string]bool)
	for _, h := range AllowedHeaders() {
		allowed[h] = true
	}

	for _, h := range []string{"File Name", "Parent ARK", "Project Name", "Object Type", "Item Ark", "Title", "Subject"} {
		if !allowed[h] {
			t.Errorf("AllowedHeaders() missing %q", h)
		}
	}
}

func TestRequiredHeadersAreAllowed(t *testing.T) {
	allowed := make(map[string]bool)
	for _, h := range AllowedHeaders() {
		allowed[h] = true
	}
	for _, h := range RequiredHeaders() {
		if !allowed[h] {
			t.Errorf("required header %q not in allowed set", h)
		}
	}
}

func TestFieldDictionaryHasNoDuplicates(t *testing.T) {
	names := make(map[string]bool)
	headers := make(map[string]bool)
	for _, f := range Fields {
		if names[f.Name] {
			t.Errorf("duplicate canonical field %q", f.Name)
		}
		if headers[f.Header] {
			t.Errorf("duplicate source header %q", f.Header)
		}
		names[f.Name] = true
		headers[f.Header] = true
	}
}
