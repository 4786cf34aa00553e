package credstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

// Memory is a process-local Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, name string) (string, bool) {
	v, err := m.Lookup(ctx, name)
	return v, err == nil
}

func (m *Memory) Lookup(_ context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	if !ok {
		return "", common.ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

func (m *Memory) SetPair(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[common.AccessTokenKey] = access
	m.data[common.RefreshTokenKey] = refresh
	return nil
}

func (m *Memory) DeletePair(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, common.AccessTokenKey)
	delete(m.data, common.RefreshTokenKey)
	return nil
}
