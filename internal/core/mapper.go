package core

// mapper.go transforms an accepted manifest row into a CanonicalRecord.
//
// The mapper assumes the row already passed validation and never fails on
// data quality: unknown controlled values pass through raw (the validator
// already flagged them), missing files degrade the record to metadata-only.
// The only error path is the record store, reached when a row names a
// parent collection.

import (
	"context"
	"regexp"
	"strings"

	"github.com/digilib-tools/arkingest/internal/ark"
	"github.com/digilib-tools/arkingest/internal/schema"
	"github.com/digilib-tools/arkingest/internal/vocab"
)

// subfieldMarker matches a MARC-style subfield code bracketed by spaces,
// e.g. " $z " inside "California $z Los Angeles".
var subfieldMarker = regexp.MustCompile(` \$[a-z] `)

// FieldMapper maps rows to canonical records.
type FieldMapper struct {
	authority vocab.Authority
	files     *FileResolver
	store     RecordStore
}

// NewFieldMapper builds a mapper. The store is used only to find-or-create
// parent collections.
func NewFieldMapper(authority vocab.Authority, files *FileResolver, store RecordStore) *FieldMapper {
	return &FieldMapper{
		authority: authority,
		files:     files,
		store:     store,
	}
}

// Map transforms one row. The returned record is complete and immutable;
// an error means the parent collection could not be resolved, not that the
// row data was bad.
func (m *FieldMapper) Map(ctx context.Context, row RawRow) (CanonicalRecord, error) {
	override := schema.ProjectOverrides[row.Value(schema.HeaderProjectName)]

	attrs := make(map[string][]string, len(schema.Fields))
	for _, f := range schema.Fields {
		if f.Name == schema.FieldArk || f.Name == schema.FieldTitle {
			continue
		}
		attrs[f.Name] = m.mapField(f, row, override)
	}

	// A blank Rights.copyrightStatus falls back to the unknown rights
	// statement, resolved through the authority like any other value.
	if len(attrs[schema.FieldRightsStatement]) == 0 {
		value := schema.DefaultRightsStatement
		if id, ok := m.authority.Lookup(schema.VocabularyFields[schema.FieldRightsStatement], value); ok {
			value = id
		}
		attrs[schema.FieldRightsStatement] = []string{value}
	}

	rec := CanonicalRecord{
		Identifier: ark.EnsurePrefix(row.Value(schema.HeaderItemArk)),
		Title:      firstValue(row.Value(schema.HeaderTitle)),
		Attributes: attrs,
		Visibility: VisibilityOpen,
	}

	parent := ark.EnsurePrefix(row.Value(schema.HeaderParentArk))
	if parent != "" {
		id, err := m.store.FindOrCreateCollection(ctx, parent)
		if err != nil {
			return CanonicalRecord{}, err
		}
		rec.CollectionLink = &CollectionLink{ParentArk: parent, CollectionID: id}
	}

	// Collections never carry attached files, whatever the File Name
	// column says.
	if isCollectionRow(row) {
		rec.FileReferences = []FileReference{}
	} else {
		rec.FileReferences = m.files.Resolve(row.Value(schema.HeaderFileName), rec.Identifier)
	}

	return rec, nil
}

// mapField produces the ordered value list for one canonical field:
// project override first, then split, subfield-marker normalization, and
// controlled-vocabulary resolution.
func (m *FieldMapper) mapField(f schema.Field, row RawRow, override schema.Override) []string {
	if override != nil {
		if vals, ok := override[f.Name]; ok {
			out := make([]string, len(vals))
			copy(out, vals)
			return out
		}
	}

	values := splitValues(row.Value(f.Header))

	if repl, ok := schema.MarkerReplacement[f.Name]; ok {
		for i, v := range values {
			values[i] = subfieldMarker.ReplaceAllString(v, repl)
		}
	}

	if sub, ok := schema.VocabularyFields[f.Name]; ok {
		for i, v := range values {
			if id, found := m.authority.Lookup(sub, v); found {
				values[i] = id
			}
		}
	}

	return values
}

// isCollectionRow reports whether the row describes a collection record.
func isCollectionRow(row RawRow) bool {
	return strings.EqualFold(strings.TrimSpace(row.Value(schema.HeaderObjectType)), "collection")
}

func firstValue(raw string) string {
	values := splitValues(raw)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
