package vectordb

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryClient is an in-memory Client double for tests and dry-run
// development against a real ingested dataset snapshot.
type MemoryClient struct {
	mu     sync.Mutex
	points map[uuid.UUID]Point
}

// NewMemoryClient returns an empty MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{points: make(map[uuid.UUID]Point)}
}

// Seed inserts points directly, bypassing the Client interface, for test
// setup.
func (m *MemoryClient) Seed(points ...Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		m.points[p.ID] = p
	}
}

func (m *MemoryClient) Scroll(_ context.Context, fn func(Point) bool) error {
	m.mu.Lock()
	snapshot := make([]Point, 0, len(m.points))
	for _, p := range m.points {
		snapshot = append(snapshot, p)
	}
	m.mu.Unlock()

	for _, p := range snapshot {
		if !fn(p) {
			return nil
		}
	}
	return nil
}

func (m *MemoryClient) SetPayload(_ context.Context, updates []SetPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		p, ok := m.points[u.ID]
		if !ok {
			continue
		}
		p.Categories = u.Categories
		m.points[u.ID] = p
	}
	return nil
}

func (m *MemoryClient) Delete(_ context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.points, id)
	}
	return nil
}

// Len returns the number of points currently held.
func (m *MemoryClient) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.points)
}
