package core

// importer.go drives the import lifecycle:
//
//	Pending -> Validating -> {Rejected | Previewed} -> Importing -> {Complete | Failed}
//
// Rejected is terminal and reached whenever validation reports any error.
// Previewed holds the record count and warnings for operator confirmation.
// Importing processes rows one at a time, in manifest order, since a row may
// depend on a parent collection created by an earlier row. Failed is
// reached only when the run itself dies (context cancelled, store gone);
// individual row failures are recorded and skipped.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/digilib-tools/arkingest/internal/logging"
	"github.com/digilib-tools/arkingest/internal/schema"
)

// ImportState is one stage of the import lifecycle.
type ImportState string

const (
	StatePending    ImportState = "pending"
	StateValidating ImportState = "validating"
	StateRejected   ImportState = "rejected"
	StatePreviewed  ImportState = "previewed"
	StateImporting  ImportState = "importing"
	StateComplete   ImportState = "complete"
	StateFailed     ImportState = "failed"
)

// ImportProgress tracks row counts during an import run.
type ImportProgress struct {
	Total   int `json:"total"`
	Current int `json:"current"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ImportStatus is a point-in-time snapshot of one import, safe to hand to
// callers while the run continues.
type ImportStatus struct {
	ID         string                   `json:"id"`
	FileName   string                   `json:"fileName"`
	State      ImportState              `json:"state"`
	Validation ManifestValidationResult `json:"validation"`
	Progress   ImportProgress           `json:"progress"`
	FailedRows []FailedRow              `json:"failedRows,omitempty"`
	StartedAt  time.Time                `json:"startedAt"`
	Error      string                   `json:"error,omitempty"`
}

// activeImport is the mutable service-side state for one import.
// Guarded by the owning Service's mutex.
type activeImport struct {
	ID         string
	FileName   string
	State      ImportState
	Validation ManifestValidationResult
	Progress   ImportProgress
	FailedRows []FailedRow
	StartedAt  time.Time
	Err        string

	rows   []RawRow
	cancel context.CancelFunc
	done   chan struct{}
}

func (imp *activeImport) snapshot() ImportStatus {
	status := ImportStatus{
		ID:         imp.ID,
		FileName:   imp.FileName,
		State:      imp.State,
		Validation: imp.Validation,
		Progress:   imp.Progress,
		StartedAt:  imp.StartedAt,
		Error:      imp.Err,
	}
	status.FailedRows = append(status.FailedRows, imp.FailedRows...)
	return status
}

// run processes rows sequentially in manifest order. Called on its own
// goroutine; the service mutex is taken only for state updates.
func (s *Service) run(ctx context.Context, imp *activeImport) {
	logger := logging.WithFields(ctx, "import_id", imp.ID, "manifest", imp.FileName)
	logger.Info("import started", "rows", len(imp.rows))
	defer close(imp.done)

	for i, row := range imp.rows {
		if err := ctx.Err(); err != nil {
			s.fail(imp, fmt.Sprintf("import aborted at row %d: %v", row.Line, err))
			logger.Error("import aborted", "line", row.Line, "error", err)
			return
		}

		s.mu.Lock()
		imp.Progress.Current = i + 1
		s.mu.Unlock()

		if reason, ok := s.unimportable(row); ok {
			s.recordSkip(imp, row.Line, reason)
			continue
		}

		rec, err := s.mapper.Map(ctx, row)
		if err != nil {
			// Parent collection resolution hit the store; fatal to
			// this row only.
			s.recordFailure(imp, row.Line, fmt.Sprintf("resolve parent collection: %v", err))
			logger.Warn("row failed", "line", row.Line, "error", err)
			continue
		}

		if err := s.store.CreateWork(ctx, rec); err != nil {
			s.recordFailure(imp, row.Line, fmt.Sprintf("create work: %v", err))
			logger.Warn("row failed", "line", row.Line, "ark", rec.Identifier, "error", err)
			continue
		}

		s.mu.Lock()
		imp.Progress.Created++
		s.mu.Unlock()

		s.derivatives.Enqueue(rec.Identifier)
	}

	s.mu.Lock()
	imp.State = StateComplete
	progress := imp.Progress
	s.mu.Unlock()

	logger.Info("import complete",
		"created", progress.Created,
		"skipped", progress.Skipped,
		"failed", progress.Failed,
	)
}

// unimportable reports why a row must be skipped, mirroring the blocking
// warnings the validator raised for it: a blank required value or an
// Object Type outside the controlled set. Columns the manifest never had
// are not blanks.
func (s *Service) unimportable(row RawRow) (string, bool) {
	for _, h := range blankRequiredHeaders {
		if v, ok := row.Values[h]; ok && v == "" {
			return fmt.Sprintf("missing %q", h), true
		}
	}
	if objectType := row.Value(schema.HeaderObjectType); objectType != "" {
		if labels := s.authority.Labels(schema.ObjectTypeSubauthority); labels != nil {
			known := false
			for _, l := range labels {
				// Same case-insensitive match as the validator.
				if strings.EqualFold(l, objectType) {
					known = true
					break
				}
			}
			if !known {
				return fmt.Sprintf("invalid Object Type %q", objectType), true
			}
		}
	}
	return "", false
}

func (s *Service) recordSkip(imp *activeImport, line int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imp.Progress.Skipped++
	imp.FailedRows = append(imp.FailedRows, FailedRow{Line: line, Reason: reason})
}

func (s *Service) recordFailure(imp *activeImport, line int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imp.Progress.Failed++
	imp.FailedRows = append(imp.FailedRows, FailedRow{Line: line, Reason: reason})
}

func (s *Service) fail(imp *activeImport, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imp.State = StateFailed
	imp.Err = msg
}
