package testkit

import (
	"context"
	"sync"

	"substratex/domain/core"
	"substratex/domain/gravity"
	"substratex/domain/relativity"
	"substratex/domain/run"
	"substratex/internal/errors"
	"substratex/ports"
)

// InMemoryRunStore is a ports.RunRepository backed by a map, for tests
// and database-free operation.
type InMemoryRunStore struct {
	mu    sync.RWMutex
	runs  map[core.RunID]*run.Manifest
	order []core.RunID
}

// NewInMemoryRunStore creates an empty run store.
func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{runs: make(map[core.RunID]*run.Manifest)}
}

var _ ports.RunRepository = (*InMemoryRunStore)(nil)

func (s *InMemoryRunStore) Create(ctx context.Context, manifest *run.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[manifest.RunID]; exists {
		return errors.InvalidInput("run already exists: " + manifest.RunID.String())
	}
	stored := *manifest
	s.runs[manifest.RunID] = &stored
	s.order = append(s.order, manifest.RunID)
	return nil
}

func (s *InMemoryRunStore) Update(ctx context.Context, manifest *run.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[manifest.RunID]; !exists {
		return core.ErrRunNotFound
	}
	stored := *manifest
	s.runs[manifest.RunID] = &stored
	return nil
}

func (s *InMemoryRunStore) GetByID(ctx context.Context, id core.RunID) (*run.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	manifest, exists := s.runs[id]
	if !exists {
		return nil, core.ErrRunNotFound
	}
	copied := *manifest
	return &copied, nil
}

func (s *InMemoryRunStore) ListByKind(ctx context.Context, kind run.Kind, limit, offset int) ([]*run.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*run.Manifest
	// Newest first, mirroring the database ordering
	for i := len(s.order) - 1; i >= 0; i-- {
		m := s.runs[s.order[i]]
		if m.Kind == kind {
			copied := *m
			matched = append(matched, &copied)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// InMemorySignalStore is a ports.SignalRepository backed by a slice.
type InMemorySignalStore struct {
	mu       sync.RWMutex
	readings []gravity.Reading
}

// NewInMemorySignalStore creates an empty signal store.
func NewInMemorySignalStore() *InMemorySignalStore {
	return &InMemorySignalStore{}
}

var _ ports.SignalRepository = (*InMemorySignalStore)(nil)

func (s *InMemorySignalStore) Create(ctx context.Context, runID core.RunID, reading *gravity.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, *reading)
	return nil
}

func (s *InMemorySignalStore) ListRecent(ctx context.Context, limit int) ([]*gravity.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.readings)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*gravity.Reading, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		copied := s.readings[i]
		out = append(out, &copied)
	}
	return out, nil
}

// InMemoryCaseStore is a ports.CaseRepository backed by a map keyed on
// run ID.
type InMemoryCaseStore struct {
	mu    sync.RWMutex
	cases map[core.RunID][]relativity.CaseResult
}

// NewInMemoryCaseStore creates an empty case store.
func NewInMemoryCaseStore() *InMemoryCaseStore {
	return &InMemoryCaseStore{cases: make(map[core.RunID][]relativity.CaseResult)}
}

var _ ports.CaseRepository = (*InMemoryCaseStore)(nil)

func (s *InMemoryCaseStore) CreateBatch(ctx context.Context, runID core.RunID, cases []relativity.CaseResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[runID] = append(s.cases[runID], cases...)
	return nil
}

func (s *InMemoryCaseStore) ListByRun(ctx context.Context, runID core.RunID) ([]relativity.CaseResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, exists := s.cases[runID]
	if !exists {
		return nil, core.ErrCaseNotFound
	}
	out := make([]relativity.CaseResult, len(stored))
	copy(out, stored)
	return out, nil
}
