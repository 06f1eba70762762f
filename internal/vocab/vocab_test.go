package vocab

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	rights := `terms:
  - id: "http://vocabs.library.ucla.edu/rights/copyrighted"
    label: "copyrighted"
  - id: "http://vocabs.library.ucla.edu/rights/pd"
    label: "public domain"
`
	if err := os.WriteFile(filepath.Join(dir, "rights_statements.yml"), []byte(rights), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	id, ok := a.Lookup("rights_statements", "copyrighted")
	if !ok || id != "http://vocabs.library.ucla.edu/rights/copyrighted" {
		t.Errorf("Lookup = %q, %v; want copyrighted term id, true", id, ok)
	}

	if _, ok := a.Lookup("rights_statements", "Copyrighted"); ok {
		t.Error("Lookup should be exact-match, got a hit for different case")
	}

	labels := a.Labels("rights_statements")
	want := []string{"copyrighted", "public domain"}
	if len(labels) != len(want) {
		t.Fatalf("Labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("Labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestLabelsUnknownSubauthority(t *testing.T) {
	a := NewStatic(map[string][]Term{})
	if got := a.Labels("nope"); got != nil {
		t.Errorf("Labels for unknown subauthority = %v, want nil", got)
	}
}

func TestLoadDirBadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("terms: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir should fail on malformed YAML")
	}
}
