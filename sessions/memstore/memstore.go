package memstore

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
)

var _ sessions.Store = (*MemStore)(nil)

// MemStore keeps values in process memory. It backs tests and the
// "memory" session backend, where nothing survives the process.
type MemStore struct {
	values map[sessions.Key]string
	lock   sync.RWMutex
}

func New() *MemStore {
	return &MemStore{
		values: make(map[sessions.Key]string),
	}
}

func (m *MemStore) Get(_ context.Context, key sessions.Key) (string, bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemStore) Set(_ context.Context, key sessions.Key, value string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemStore) Clear(_ context.Context, keys ...sessions.Key) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

// Snapshot returns a copy of every stored value
func (m *MemStore) Snapshot() map[sessions.Key]string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	out := make(map[sessions.Key]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
