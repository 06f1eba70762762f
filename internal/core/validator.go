package core

// validator.go runs the pre-import validation pass over a manifest.
//
// Check order is fixed and test-visible:
//  1. parse attempt (failure aborts the pass with a single error)
//  2. missing required headers        (errors)
//  3. duplicate headers               (errors)
//  4. unsupported headers             (warnings)
//  5. per-row content checks, only when 2-3 found nothing fatal:
//     blank required values, blank consequential values,
//     controlled-vocabulary mismatches (collapsed across rows),
//     file existence probes
//
// Message wording is part of the contract with downstream consumers; do
// not rewrite these templates.

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/digilib-tools/arkingest/internal/schema"
	"github.com/digilib-tools/arkingest/internal/vocab"
)

const (
	missingHeaderTemplate     = "Missing required column: %s.  Your spreadsheet must have this column.  If you already have this column, please check the spelling and capitalization."
	duplicateHeaderTemplate   = "Duplicate column header: %s (used %d times). Each column must have a unique header."
	unsupportedHeaderTemplate = `The field name "%s" is not supported.  This field will be ignored, and the metadata for this field will not be imported.`
	blankRequiredTemplate     = `Row %d: Rows missing "%s" cannot be imported.`
	blankParentTemplate       = `Row %d: Rows missing "Parent ARK" will be imported without a parent collection.`
	blankRightsTemplate       = `Row %d: Rows missing "Rights.copyrightStatus" will have the rights statement set to "unknown".`
	blankFileTemplate         = `Row %d: Rows missing "File Name" will be imported as metadata-only records.`
	invalidValueTemplate      = "Row %s: '%s' is not a valid value for '%s'"
	invalidObjectTypeTemplate = "Row %s: '%s' is not a valid value for 'Object Type'. Rows with an invalid Object Type cannot be imported."
	missingFileTemplate       = "Row %d: Rows contain a File Name that does not exist. Incorrect values may be imported."
	parseFailureTemplate      = "Could not parse the manifest file: %v"
)

// blankRequiredHeaders are checked in this order; a blank value makes the
// row unimportable.
var blankRequiredHeaders = []string{schema.HeaderItemArk, schema.HeaderTitle, schema.HeaderObjectType}

// ManifestValidator performs the validation pass. It is stateless across
// calls and safe for concurrent use.
type ManifestValidator struct {
	authority vocab.Authority
	exists    ExistsFunc
	basePath  string
}

// NewManifestValidator builds a validator that checks controlled values
// against authority and probes file references under basePath with exists.
func NewManifestValidator(authority vocab.Authority, basePath string, exists ExistsFunc) *ManifestValidator {
	return &ManifestValidator{
		authority: authority,
		exists:    exists,
		basePath:  basePath,
	}
}

// Validate runs the full pass and returns its result. It never returns an
// error: an unparsable stream becomes a single fatal error in the result
// with RecordCountKnown unset.
func (v *ManifestValidator) Validate(r io.Reader) ManifestValidationResult {
	manifest, err := parseManifest(r)
	if err != nil {
		return ManifestValidationResult{
			Errors:   []string{fmt.Sprintf(parseFailureTemplate, err)},
			Warnings: []string{},
		}
	}

	result := ManifestValidationResult{
		Errors:           []string{},
		Warnings:         []string{},
		RecordCount:      len(manifest.Rows),
		RecordCountKnown: true,
	}

	present := make(map[string]int, len(manifest.Headers))
	for _, h := range manifest.Headers {
		present[h]++
	}

	for _, h := range schema.RequiredHeaders() {
		if present[h] == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf(missingHeaderTemplate, h))
		}
	}

	// One error per distinct duplicated header, in first-occurrence order.
	reported := make(map[string]bool)
	for _, h := range manifest.Headers {
		if present[h] > 1 && !reported[h] {
			result.Errors = append(result.Errors, fmt.Sprintf(duplicateHeaderTemplate, h, present[h]))
			reported[h] = true
		}
	}

	allowed := make(map[string]bool)
	for _, h := range schema.AllowedHeaders() {
		allowed[h] = true
	}
	seen := make(map[string]bool)
	for _, h := range manifest.Headers {
		if h == "" || allowed[h] || seen[h] {
			continue
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf(unsupportedHeaderTemplate, h))
		seen[h] = true
	}

	// Structural errors make row content meaningless; stop here.
	if len(result.Errors) > 0 {
		return result
	}

	v.checkRows(manifest, present, &result)
	return result
}

// vocabMiss accumulates rows sharing one invalid value for one field, so
// they collapse into a single warning listing every row.
type vocabMiss struct {
	header   string
	value    string
	blocking bool
	lines    []int
}

func (v *ManifestValidator) checkRows(manifest *parsedManifest, present map[string]int, result *ManifestValidationResult) {
	var blankRequired, blankConsequential, fileWarnings []string
	var misses []*vocabMiss
	missIndex := make(map[string]*vocabMiss)

	record := func(header, value string, blocking bool, line int) {
		key := header + "\x00" + value
		m, ok := missIndex[key]
		if !ok {
			m = &vocabMiss{header: header, value: value, blocking: blocking}
			missIndex[key] = m
			misses = append(misses, m)
		}
		if len(m.lines) == 0 || m.lines[len(m.lines)-1] != line {
			m.lines = append(m.lines, line)
		}
	}

	for _, row := range manifest.Rows {
		objectType := row.Value(schema.HeaderObjectType)
		isCollection := strings.EqualFold(strings.TrimSpace(objectType), "collection")

		for _, h := range blankRequiredHeaders {
			if present[h] > 0 && row.Value(h) == "" {
				blankRequired = append(blankRequired, fmt.Sprintf(blankRequiredTemplate, row.Line, h))
			}
		}

		if present[schema.HeaderParentArk] > 0 && row.Value(schema.HeaderParentArk) == "" {
			blankConsequential = append(blankConsequential, fmt.Sprintf(blankParentTemplate, row.Line))
		}
		rightsHeader, _ := schema.HeaderFor(schema.FieldRightsStatement)
		if present[rightsHeader] > 0 && row.Value(rightsHeader) == "" {
			blankConsequential = append(blankConsequential, fmt.Sprintf(blankRightsTemplate, row.Line))
		}
		fileName := row.Value(schema.HeaderFileName)
		if present[schema.HeaderFileName] > 0 && fileName == "" && !isCollection {
			blankConsequential = append(blankConsequential, fmt.Sprintf(blankFileTemplate, row.Line))
		}

		// Object Type first, then dictionary-controlled fields in
		// dictionary order.
		if objectType != "" && !v.validObjectType(objectType) {
			record(schema.HeaderObjectType, objectType, true, row.Line)
		}
		for _, f := range schema.Fields {
			sub, controlled := schema.VocabularyFields[f.Name]
			if !controlled {
				continue
			}
			for _, value := range splitValues(row.Value(f.Header)) {
				if !v.validLabel(sub, value) {
					record(f.Header, value, false, row.Line)
				}
			}
		}

		if fileName != "" && !isCollection && !v.exists(filepath.Join(v.basePath, fileName)) {
			fileWarnings = append(fileWarnings, fmt.Sprintf(missingFileTemplate, row.Line))
		}
	}

	result.Warnings = append(result.Warnings, blankRequired...)
	result.Warnings = append(result.Warnings, blankConsequential...)
	for _, m := range misses {
		rows := joinLines(m.lines)
		if m.blocking {
			result.Warnings = append(result.Warnings, fmt.Sprintf(invalidObjectTypeTemplate, rows, m.value))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf(invalidValueTemplate, rows, m.value, m.header))
		}
	}
	result.Warnings = append(result.Warnings, fileWarnings...)
}

// validLabel reports whether label is in the subauthority's value set.
// A subauthority the authority does not know is uncontrolled: everything
// passes.
func (v *ManifestValidator) validLabel(subauthority, label string) bool {
	labels := v.authority.Labels(subauthority)
	if labels == nil {
		return true
	}
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// validObjectType checks the Object Type column. Unlike metadata
// vocabularies, Object Type compares case-insensitively: manifests ship
// both "Collection" and "collection" and both must import.
func (v *ManifestValidator) validObjectType(value string) bool {
	labels := v.authority.Labels(schema.ObjectTypeSubauthority)
	if labels == nil {
		return true
	}
	for _, l := range labels {
		if strings.EqualFold(l, value) {
			return true
		}
	}
	return false
}

func joinLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
