package storage

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/theiagen/nf-theia/pkg/scheme"
)

// MockBackend implements Backend with in-memory storage
type MockBackend struct {
	sch     scheme.Scheme
	mu      sync.Mutex
	objects map[string][]byte
	dirs    []string
	failing bool // when set, every write fails
}

// NewMockBackend creates an in-memory backend for the given scheme,
// intended for tests.
func NewMockBackend(sch scheme.Scheme) *MockBackend {
	return &MockBackend{
		sch:     sch,
		objects: make(map[string][]byte),
	}
}

func (m *MockBackend) Scheme() scheme.Scheme {
	return m.sch
}

func (m *MockBackend) Write(ctx context.Context, target string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.Errorf("backend rejected write to %s", target)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[target] = stored
	return nil
}

func (m *MockBackend) MkdirAll(ctx context.Context, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs = append(m.dirs, dir)
	return nil
}

// Fail toggles failure injection for subsequent writes.
func (m *MockBackend) Fail(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// Object returns the stored bytes for target.
func (m *MockBackend) Object(target string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[target]
	return data, ok
}

// Targets returns every target written so far.
func (m *MockBackend) Targets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	targets := make([]string, 0, len(m.objects))
	for t := range m.objects {
		targets = append(targets, t)
	}
	return targets
}
