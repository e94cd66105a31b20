package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/store"
)

// MockGenerationStore implements store.GenerationStore, keeping rows in memory.
type MockGenerationStore struct {
	CreateFn  func(ctx context.Context, g *domain.Generation) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Generation, error)

	// Now stamps created rows; defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	created []*domain.Generation
}

var _ store.GenerationStore = (*MockGenerationStore)(nil)

// Create implements store.GenerationStore
func (m *MockGenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, g); err != nil {
			return err
		}
	} else {
		now := time.Now
		if m.Now != nil {
			now = m.Now
		}
		g.ID = uuid.New()
		g.CreatedAt = now().UTC()
		g.UpdatedAt = g.CreatedAt
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *g
	m.created = append(m.created, &copied)
	return nil
}

// GetByID implements store.GenerationStore
func (m *MockGenerationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.created {
		if g.ID == id {
			copied := *g
			return &copied, nil
		}
	}
	return nil, store.ErrGenerationNotFound
}

// Created returns the rows stored so far.
func (m *MockGenerationStore) Created() []*domain.Generation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Generation(nil), m.created...)
}

// MockGenerationErrorStore implements store.GenerationErrorStore.
type MockGenerationErrorStore struct {
	CreateFn func(ctx context.Context, e *domain.GenerationError) error

	mu      sync.Mutex
	records []*domain.GenerationError
}

var _ store.GenerationErrorStore = (*MockGenerationErrorStore)(nil)

// Create implements store.GenerationErrorStore. The record is tracked even
// when CreateFn fails so tests can see the attempt.
func (m *MockGenerationErrorStore) Create(ctx context.Context, e *domain.GenerationError) error {
	m.mu.Lock()
	copied := *e
	m.records = append(m.records, &copied)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	return nil
}

// Records returns every record passed to Create.
func (m *MockGenerationErrorStore) Records() []*domain.GenerationError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.GenerationError(nil), m.records...)
}

// MockCardSetStore implements store.CardSetStore over a fixed set of card sets.
type MockCardSetStore struct {
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.CardSet, error)
	Sets      map[uuid.UUID]*domain.CardSet
}

var _ store.CardSetStore = (*MockCardSetStore)(nil)

// NewMockCardSetStore returns a store holding sets.
func NewMockCardSetStore(sets ...*domain.CardSet) *MockCardSetStore {
	m := &MockCardSetStore{Sets: make(map[uuid.UUID]*domain.CardSet, len(sets))}
	for _, s := range sets {
		m.Sets[s.ID] = s
	}
	return m
}

// GetByID implements store.CardSetStore
func (m *MockCardSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CardSet, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if s, ok := m.Sets[id]; ok {
		return s, nil
	}
	return nil, store.ErrCardSetNotFound
}
