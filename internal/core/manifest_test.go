package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseManifestLineNumbers(t *testing.T) {
	csv := "Item Ark,Title\n" +
		"ark:/21198/zz001,First\n" +
		",\n" +
		"ark:/21198/zz002,Third\n"

	m, err := parseManifest(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseManifest() error = %v", err)
	}

	if len(m.Rows) != 2 {
		t.Fatalf("expected 2 rows (blank row dropped), got %d", len(m.Rows))
	}
	// Spreadsheet numbering: header is line 1, blank line 3 still counts.
	if m.Rows[0].Line != 2 {
		t.Errorf("first row line = %d, want 2", m.Rows[0].Line)
	}
	if m.Rows[1].Line != 4 {
		t.Errorf("second row line = %d, want 4", m.Rows[1].Line)
	}
	if got := m.Rows[1].Value("Title"); got != "Third" {
		t.Errorf("Title = %q, want %q", got, "Third")
	}
}

func TestParseManifestBOMAndRaggedRows(t *testing.T) {
	csv := "\xEF\xBB\xBFItem Ark,Title,Subject\n" +
		"ark:/21198/zz001,Only two cells\n"

	m, err := parseManifest(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseManifest() error = %v", err)
	}

	if m.Headers[0] != "Item Ark" {
		t.Errorf("BOM not stripped from first header: %q", m.Headers[0])
	}
	if got := m.Rows[0].Value("Subject"); got != "" {
		t.Errorf("short row Subject = %q, want empty", got)
	}
}

func TestParseManifestEmpty(t *testing.T) {
	if _, err := parseManifest(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty stream")
	}
}

func TestSplitValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "photograph", []string{"photograph"}},
		{"multi", "one|~|two|~|three", []string{"one", "two", "three"}},
		{"trims and drops empties", " one |~| |~|two", []string{"one", "two"}},
		{"blank", "", []string{}},
		{"delimiter only", "|~|", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitValues(tt.raw)
			if got == nil {
				t.Fatal("splitValues returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitValues(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`="Item Ark"`, "Item Ark"},
		{"=Title", "Title"},
		{`  "quoted"  `, "quoted"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := cleanCell(tt.raw); got != tt.want {
			t.Errorf("cleanCell(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
