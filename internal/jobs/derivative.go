// Package jobs schedules derivative builds (viewer-manifest generation)
// for persisted records, with at-most-one pending job per identifier.
package jobs

import (
	"context"
	"log/slog"
	"sync"
)

// RunFunc performs the derivative build for one identifier. The external
// rendering service sits behind it; this package only cares that a run
// eventually returns.
type RunFunc func(ctx context.Context, identifier string) error

// Gate deduplicates derivative jobs. Enqueue is an atomic
// check-and-schedule: concurrent calls for the same identifier while a job
// is pending schedule exactly one job. Once that job finishes, success or
// not, the identifier is eligible again. There is no ordering across
// different identifiers.
type Gate struct {
	run RunFunc

	mu      sync.Mutex
	pending map[string]struct{}
	wg      sync.WaitGroup
}

// NewGate builds a gate around run.
func NewGate(run RunFunc) *Gate {
	return &Gate{
		run:     run,
		pending: make(map[string]struct{}),
	}
}

// Enqueue schedules a derivative build for identifier unless one is
// already pending. Reports whether a new job was scheduled.
func (g *Gate) Enqueue(identifier string) bool {
	if identifier == "" {
		return false
	}

	g.mu.Lock()
	if _, exists := g.pending[identifier]; exists {
		g.mu.Unlock()
		return false
	}
	g.pending[identifier] = struct{}{}
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.clear(identifier)

		if err := g.run(context.Background(), identifier); err != nil {
			slog.Error("derivative build failed", "identifier", identifier, "error", err)
		}
	}()

	return true
}

// Pending reports whether a job for identifier is currently outstanding.
func (g *Gate) Pending(identifier string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, exists := g.pending[identifier]
	return exists
}

// Wait blocks until every scheduled job has finished. Used on shutdown.
func (g *Gate) Wait() {
	g.wg.Wait()
}

func (g *Gate) clear(identifier string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, identifier)
}
