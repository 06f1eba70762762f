package core

// manifest.go parses the raw manifest stream into headers and RawRows.
// Parsing tolerates the usual spreadsheet-export artifacts: UTF-8 BOM,
// invalid byte sequences, ragged column counts, quotes inside cells.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/digilib-tools/arkingest/internal/schema"
)

// parsedManifest is the result of one parse pass over a manifest stream.
type parsedManifest struct {
	Headers []string
	Rows    []RawRow
}

// parseManifest reads the whole stream and splits it into a cleaned header
// row and data rows. Fully empty rows are dropped. The returned RawRows
// carry spreadsheet line numbers (header = line 1).
func parseManifest(r io.Reader) (*parsedManifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = sanitizeUTF8(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row found")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = cleanCell(h)
	}

	m := &parsedManifest{Headers: headers}
	for i, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				values[h] = strings.TrimSpace(rec[j])
			}
		}
		m.Rows = append(m.Rows, RawRow{Line: i + 2, Values: values})
	}

	return m, nil
}

// splitValues splits a raw manifest cell into its ordered sub-values on the
// fixed delimiter. Blank input yields an empty, non-nil list.
func splitValues(raw string) []string {
	values := []string{}
	for _, v := range strings.Split(raw, schema.Delimiter) {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// cleanCell removes common CSV artifacts from a cell value: surrounding
// whitespace, Excel formula prefixes (="value"), stray quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences so the CSV reader never
// chokes on mis-encoded exports.
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
