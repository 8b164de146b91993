package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/render"
)

// MemoryKV is a concurrency-safe in-memory KV.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }

// View is the content last written to a render target.
type View struct {
	Node      *render.Node
	UpdatedAt time.Time
}

// ViewStore holds the latest view of every render target. Writes are
// last-write-wins: a slow fetch that finishes after a newer one still
// replaces the target's content.
type ViewStore struct {
	mu    sync.RWMutex
	views map[string]View
}

func NewViewStore() *ViewStore {
	return &ViewStore{views: make(map[string]View)}
}

// Write replaces the content of target.
func (s *ViewStore) Write(target string, n *render.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views[target] = View{Node: n, UpdatedAt: time.Now().UTC()}
}

// Get returns the content of target.
func (s *ViewStore) Get(target string) (View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.views[target]
	return v, ok
}

// Node returns the content of target or nil.
func (s *ViewStore) Node(target string) *render.Node {
	v, ok := s.Get(target)
	if !ok {
		return nil
	}
	return v.Node
}

// Delete drops target.
func (s *ViewStore) Delete(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.views, target)
}

// Reset drops every target.
func (s *ViewStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views = make(map[string]View)
}
