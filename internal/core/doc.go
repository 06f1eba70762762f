// Package core implements the manifest ingest pipeline: validation,
// field mapping, file resolution, bulk retraction, and the import
// lifecycle. It has no HTTP dependencies and is driven by any frontend.
//
// The pipeline contract is strict about who fails and how:
//
//   - The validator never returns an error for data problems. It returns a
//     ManifestValidationResult whose Errors block the import and whose
//     Warnings describe degraded-but-acceptable outcomes.
//   - The mapper assumes validation already ran. It produces a best-effort
//     CanonicalRecord and only errors on store failures (parent collection
//     creation).
//   - The cleaner swallows manifest parse failures; the validator is the
//     single place those are reported.
//
// Rows are imported strictly in manifest order: a row may reference a
// parent collection that an earlier row in the same file created. Row
// order is a correctness dependency, not an optimization.
package core
