package storage

import (
	"context"
	"sync"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// MemoryAdapter is the fallback store used when the configured backend is
// unreachable. It encodes like the real stores so round trips behave the same.
type MemoryAdapter struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

func (m *MemoryAdapter) LoadState(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	return decodeSnapshot(m.data)
}

func (m *MemoryAdapter) SaveState(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}
