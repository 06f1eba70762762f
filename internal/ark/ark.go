// Package ark handles ARK (Archival Resource Key) identifiers.
//
// ARKs arrive in manifests both with and without the "ark:/" scheme
// prefix. All identifier comparisons in the pipeline happen on the
// normalized form, so the mapper and the cleanup engine must use the
// same normalization.
package ark

import "strings"

// Prefix is the canonical ARK scheme prefix.
const Prefix = "ark:/"

// EnsurePrefix normalizes a raw identifier to the canonical ARK form.
// It is idempotent: an already-normalized value passes through unchanged.
// Empty or whitespace-only input returns "".
func EnsurePrefix(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, Prefix) {
		return s
	}
	// Tolerate "ark:21198/..." (missing slash after the scheme).
	if rest, ok := strings.CutPrefix(s, "ark:"); ok {
		return Prefix + strings.TrimPrefix(rest, "/")
	}
	return Prefix + s
}
