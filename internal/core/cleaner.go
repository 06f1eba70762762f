package core

// cleaner.go is the manifest-driven bulk retraction engine. It re-parses
// the manifest on its own (it needs only the identifier column, not full
// mapping) and deletes every store record matching each row's ark.
//
// Records have historically been stored under either the primary ark or
// the alternate local-identifier attribute, so both lookup paths are
// always checked, never short-circuited. A row matching nothing is a
// silent no-op: retraction is idempotent.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/digilib-tools/arkingest/internal/ark"
	"github.com/digilib-tools/arkingest/internal/schema"
)

// RetractionResult summarizes one retraction run.
type RetractionResult struct {
	RowsProcessed int         `json:"rowsProcessed"`
	WorksDeleted  int         `json:"worksDeleted"`
	FailedRows    []FailedRow `json:"failedRows,omitempty"`
}

// Cleaner deletes previously-imported records named by a manifest.
type Cleaner struct {
	store RecordStore
}

// NewCleaner builds a retraction engine over store.
func NewCleaner(store RecordStore) *Cleaner {
	return &Cleaner{store: store}
}

// Retract processes the manifest row by row. A manifest that fails to
// parse aborts cleanly with an empty result and no error: the validator is
// the canonical place parse failures are surfaced, and reporting them here
// too would duplicate that. Store failures are isolated per row, so one
// unavailable identifier does not stop the rest.
func (c *Cleaner) Retract(ctx context.Context, r io.Reader) RetractionResult {
	var result RetractionResult

	manifest, err := parseManifest(r)
	if err != nil {
		slog.Debug("retraction manifest unparsable, skipping", "error", err)
		return result
	}

	for _, row := range manifest.Rows {
		identifier := ark.EnsurePrefix(row.Value(schema.HeaderItemArk))
		if identifier == "" {
			continue
		}
		result.RowsProcessed++

		deleted, err := c.retractOne(ctx, identifier)
		result.WorksDeleted += deleted
		if err != nil {
			result.FailedRows = append(result.FailedRows, FailedRow{
				Line:   row.Line,
				Reason: err.Error(),
			})
			slog.Warn("retraction row failed", "line", row.Line, "ark", identifier, "error", err)
		}
	}

	return result
}

// retractOne deletes every record matching identifier by either lookup
// path. Both paths run even when the first already matched.
func (c *Cleaner) retractOne(ctx context.Context, identifier string) (int, error) {
	var errs []error

	byArk, err := c.store.FindWorkIDsByArk(ctx, identifier)
	if err != nil {
		errs = append(errs, fmt.Errorf("find by ark: %w", err))
	}
	byAlt, err := c.store.FindWorkIDsByLocalIdentifier(ctx, identifier)
	if err != nil {
		errs = append(errs, fmt.Errorf("find by local identifier: %w", err))
	}

	seen := make(map[string]bool)
	deleted := 0
	for _, id := range append(byArk, byAlt...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := c.store.DeleteWork(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
			continue
		}
		deleted++
	}

	return deleted, errors.Join(errs...)
}
