// Package vocab provides controlled-vocabulary lookups backed by local
// authority files.
//
// Each subauthority is a YAML file listing its terms:
//
//	terms:
//	  - id: "http://vocabs.library.ucla.edu/rights/copyrighted"
//	    label: "copyrighted"
//
// Lookups are exact-match on the label. The validator uses the value set to
// flag unknown labels; the mapper substitutes the term ID on a hit and
// passes the raw label through on a miss.
package vocab

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Term is one entry in a controlled vocabulary.
type Term struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Authority resolves controlled-vocabulary terms for a subauthority.
type Authority interface {
	// Lookup returns the term ID for an exact label match.
	Lookup(subauthority, label string) (id string, ok bool)

	// Labels returns every valid label for a subauthority, in file order.
	// An unknown subauthority returns nil, meaning the field is not
	// controlled and any value passes.
	Labels(subauthority string) []string
}

// LocalAuthority loads subauthorities from YAML files in a directory.
// The subauthority name is the file name without extension.
type LocalAuthority struct {
	terms map[string][]Term
}

type authorityFile struct {
	Terms []Term `yaml:"terms"`
}

// LoadDir reads every *.yml file in dir into a LocalAuthority.
func LoadDir(dir string) (*LocalAuthority, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("glob authority dir: %w", err)
	}

	a := &LocalAuthority{terms: make(map[string][]Term, len(matches))}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read authority file %s: %w", path, err)
		}

		var f authorityFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse authority file %s: %w", path, err)
		}

		name := trimExt(filepath.Base(path))
		a.terms[name] = f.Terms
	}

	return a, nil
}

// NewStatic builds an authority from an in-memory term table.
// Used by tests and by callers that do not load files.
func NewStatic(terms map[string][]Term) *LocalAuthority {
	return &LocalAuthority{terms: terms}
}

// Lookup implements Authority.
func (a *LocalAuthority) Lookup(subauthority, label string) (string, bool) {
	for _, t := range a.terms[subauthority] {
		if t.Label == label {
			return t.ID, true
		}
	}
	return "", false
}

// Labels implements Authority.
func (a *LocalAuthority) Labels(subauthority string) []string {
	terms, ok := a.terms[subauthority]
	if !ok {
		return nil
	}
	labels := make([]string, len(terms))
	for i, t := range terms {
		labels[i] = t.Label
	}
	return labels
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
