package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/digilib-tools/arkingest/internal/vocab"
)

// ErrImportNotFound is returned for unknown or expired import IDs.
var ErrImportNotFound = errors.New("import not found")

// ErrNotPreviewed is returned when confirmation is requested for an import
// that is not waiting in the previewed state.
var ErrNotPreviewed = errors.New("import is not awaiting confirmation")

// ServiceConfig carries the explicit settings the pipeline needs. Values
// come from the application config; the service never reads the
// environment.
type ServiceConfig struct {
	ImportFilePath string
	MissingFileLog string
	ImportTimeout  time.Duration
}

// Service owns the ingest pipeline and the set of in-flight imports.
type Service struct {
	cfg       ServiceConfig
	store     RecordStore
	authority vocab.Authority

	validator   *ManifestValidator
	mapper      *FieldMapper
	cleaner     *Cleaner
	derivatives DerivativeScheduler

	mu      sync.RWMutex
	imports map[string]*activeImport
}

// NewService wires the pipeline components. exists may be nil, in which
// case the on-disk probe is used.
func NewService(cfg ServiceConfig, store RecordStore, authority vocab.Authority, derivatives DerivativeScheduler, exists ExistsFunc) *Service {
	if exists == nil {
		exists = StatExists
	}
	if cfg.ImportTimeout <= 0 {
		cfg.ImportTimeout = time.Hour
	}

	missing := NewMissingFileLog(cfg.MissingFileLog)
	files := NewFileResolver(cfg.ImportFilePath, exists, missing)

	return &Service{
		cfg:         cfg,
		store:       store,
		authority:   authority,
		validator:   NewManifestValidator(authority, cfg.ImportFilePath, exists),
		mapper:      NewFieldMapper(authority, files, store),
		cleaner:     NewCleaner(store),
		derivatives: derivatives,
		imports:     make(map[string]*activeImport),
	}
}

// StartImport validates the manifest and registers an import. The result
// lands in Rejected (any validation error) or Previewed (awaiting operator
// confirmation); nothing is written to the store yet.
func (s *Service) StartImport(ctx context.Context, fileName string, manifest []byte) (ImportStatus, error) {
	imp := &activeImport{
		ID:        uuid.New().String(),
		FileName:  fileName,
		State:     StateValidating,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}

	imp.Validation = s.validator.Validate(bytes.NewReader(manifest))

	if !imp.Validation.Valid() {
		imp.State = StateRejected
		close(imp.done)
	} else {
		parsed, err := parseManifest(bytes.NewReader(manifest))
		if err != nil {
			// Validation parsed this same stream moments ago.
			return ImportStatus{}, fmt.Errorf("reparse manifest: %w", err)
		}
		imp.rows = parsed.Rows
		imp.Progress.Total = len(parsed.Rows)
		imp.State = StatePreviewed
	}

	s.mu.Lock()
	s.imports[imp.ID] = imp
	s.mu.Unlock()

	return imp.snapshot(), nil
}

// ConfirmImport moves a previewed import into the importing state and
// starts the sequential background run.
func (s *Service) ConfirmImport(ctx context.Context, importID string) (ImportStatus, error) {
	s.mu.Lock()
	imp, ok := s.imports[importID]
	if !ok {
		s.mu.Unlock()
		return ImportStatus{}, ErrImportNotFound
	}
	if imp.State != StatePreviewed {
		state := imp.State
		s.mu.Unlock()
		return ImportStatus{}, fmt.Errorf("%w (state %s)", ErrNotPreviewed, state)
	}

	runCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ImportTimeout)
	imp.State = StateImporting
	imp.cancel = cancel
	snapshot := imp.snapshot()
	s.mu.Unlock()

	go func() {
		defer cancel()
		s.run(runCtx, imp)
	}()

	return snapshot, nil
}

// CancelImport aborts a running import. Rows already created stay.
func (s *Service) CancelImport(importID string) error {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()
	if !ok {
		return ErrImportNotFound
	}
	if imp.cancel != nil {
		imp.cancel()
	}
	return nil
}

// GetImport returns a snapshot of one import.
func (s *Service) GetImport(importID string) (ImportStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	imp, ok := s.imports[importID]
	if !ok {
		return ImportStatus{}, ErrImportNotFound
	}
	return imp.snapshot(), nil
}

// ListImports returns snapshots of every known import, newest first.
func (s *Service) ListImports() []ImportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]ImportStatus, 0, len(s.imports))
	for _, imp := range s.imports {
		statuses = append(statuses, imp.snapshot())
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].StartedAt.After(statuses[j].StartedAt)
	})
	return statuses
}

// Retract runs the cleanup engine against a retraction manifest.
func (s *Service) Retract(ctx context.Context, manifest []byte) RetractionResult {
	return s.cleaner.Retract(ctx, bytes.NewReader(manifest))
}

// WaitForImport blocks until the import's background run finishes or the
// context is done. Used by graceful shutdown and tests.
func (s *Service) WaitForImport(ctx context.Context, importID string) error {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()
	if !ok {
		return ErrImportNotFound
	}

	select {
	case <-imp.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
