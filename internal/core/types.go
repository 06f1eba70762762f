package core

import (
	"context"
)

// VisibilityOpen is the access level applied to every imported record.
const VisibilityOpen = "open"

// RawRow is one parsed manifest data row: header name -> raw cell value,
// plus the spreadsheet line number of the row (the header is line 1, so the
// first data row is line 2). Validation messages reference these line
// numbers. RawRow is scratch state; nothing holds one past a single pass.
type RawRow struct {
	Line   int
	Values map[string]string
}

// Value returns the raw cell under header, "" when the column is absent.
func (r RawRow) Value(header string) string {
	return r.Values[header]
}

// ManifestValidationResult is the outcome of one validation pass.
// Immutable once produced; the caller alone decides whether to proceed.
type ManifestValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	// RecordCount counts data rows only. It is defined even when errors
	// are present; RecordCountKnown is false only when the manifest could
	// not be parsed at all.
	RecordCount      int  `json:"recordCount"`
	RecordCountKnown bool `json:"recordCountKnown"`
}

// Valid reports whether the manifest may be imported.
// Warnings do not block; errors do.
func (r ManifestValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// FileReference points a record at a master file on the import share.
type FileReference struct {
	SourceName      string `json:"sourceName"`
	ResolvedLocator string `json:"resolvedLocator"`
	Existed         bool   `json:"existed"`
}

// CollectionLink associates a record with its parent collection.
// A record has at most one.
type CollectionLink struct {
	ParentArk    string `json:"parentArk"`
	CollectionID string `json:"collectionId"`
}

// CanonicalRecord is the store-agnostic representation of one item after
// mapping. Created once per accepted row and never mutated; the pipeline
// hands it to the record store and forgets it.
//
// Every attribute value is an ordered list, even for zero or one value:
// never a bare scalar, never nil for "no values".
type CanonicalRecord struct {
	Identifier     string              `json:"identifier"`
	Title          string              `json:"title"`
	Attributes     map[string][]string `json:"attributes"`
	FileReferences []FileReference     `json:"fileReferences"`
	CollectionLink *CollectionLink     `json:"collectionLink,omitempty"`
	Visibility     string              `json:"visibility"`
}

// RecordStore is the persistence contract the pipeline requires.
// FindOrCreateCollection must guarantee at-most-one creation per ark under
// concurrent calls; the pipeline adds no locking of its own there.
type RecordStore interface {
	CreateWork(ctx context.Context, rec CanonicalRecord) error
	FindOrCreateCollection(ctx context.Context, ark string) (string, error)
	FindWorkIDsByArk(ctx context.Context, ark string) ([]string, error)
	FindWorkIDsByLocalIdentifier(ctx context.Context, value string) ([]string, error)
	DeleteWork(ctx context.Context, id string) error
}

// DerivativeScheduler gates derivative-build jobs per identifier.
// Enqueue reports whether a new job was scheduled (false when one is
// already pending for the identifier).
type DerivativeScheduler interface {
	Enqueue(identifier string) bool
}

// ExistsFunc probes whether a file exists at path. Pluggable so tests and
// remote mounts can swap the probe; the default uses os.Stat.
type ExistsFunc func(path string) bool

// FailedRow records one row the importer or cleaner could not process.
type FailedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
