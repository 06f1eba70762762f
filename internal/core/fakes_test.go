package core

// Shared test doubles for the core package. The fake store is a map-backed
// RecordStore with per-method error injection; the fake scheduler records
// what was enqueued.

import (
	"context"
	"fmt"
	"sync"

	"github.com/digilib-tools/arkingest/internal/vocab"
)

type fakeStore struct {
	mu          sync.Mutex
	created     []CanonicalRecord
	deleted     []string
	collections map[string]string   // parent ark -> collection id
	byArk       map[string][]string // ark -> work ids
	byLocal     map[string][]string // local identifier -> work ids

	createErr     error
	collectionErr error
	findArkErr    error
	findLocalErr  error
	deleteErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		collections: make(map[string]string),
		byArk:       make(map[string][]string),
		byLocal:     make(map[string][]string),
	}
}

func (s *fakeStore) CreateWork(ctx context.Context, rec CanonicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, rec)
	return nil
}

func (s *fakeStore) FindOrCreateCollection(ctx context.Context, ark string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionErr != nil {
		return "", s.collectionErr
	}
	if id, ok := s.collections[ark]; ok {
		return id, nil
	}
	id := fmt.Sprintf("collection-%d", len(s.collections)+1)
	s.collections[ark] = id
	return id, nil
}

func (s *fakeStore) FindWorkIDsByArk(ctx context.Context, ark string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findArkErr != nil {
		return nil, s.findArkErr
	}
	return s.byArk[ark], nil
}

func (s *fakeStore) FindWorkIDsByLocalIdentifier(ctx context.Context, value string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocalErr != nil {
		return nil, s.findLocalErr
	}
	return s.byLocal[value], nil
}

func (s *fakeStore) DeleteWork(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeStore) createdArks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	arks := make([]string, len(s.created))
	for i, rec := range s.created {
		arks[i] = rec.Identifier
	}
	return arks
}

type fakeScheduler struct {
	mu       sync.Mutex
	enqueued []string
}

func (f *fakeScheduler) Enqueue(identifier string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, identifier)
	return true
}

// testAuthority controls rights_statements and object_types the way the
// shipped authority files do, scoped down to what the tests need.
func testAuthority() vocab.Authority {
	return vocab.NewStatic(map[string][]vocab.Term{
		"rights_statements": {
			{ID: "http://vocabs.library.ucla.edu/rights/copyrighted", Label: "copyrighted"},
			{ID: "http://vocabs.library.ucla.edu/rights/publicDomain", Label: "public domain"},
			{ID: "http://vocabs.library.ucla.edu/rights/unknown", Label: "unknown"},
		},
		"object_types": {
			{ID: "Work", Label: "Work"},
			{ID: "Collection", Label: "Collection"},
		},
	})
}

func allExist(string) bool  { return true }
func noneExist(string) bool { return false }
