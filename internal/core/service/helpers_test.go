package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Mock StateRepository
type mockStateRepo struct {
	mu      sync.Mutex
	stored  *domain.Snapshot
	saves   int
	loadErr error
	saveErr error
}

func (m *mockStateRepo) LoadState(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.stored == nil {
		return nil, nil
	}
	snap := *m.stored
	return &snap, nil
}

func (m *mockStateRepo) SaveState(ctx context.Context, snapshot domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.stored = &snapshot
	return nil
}

func (m *mockStateRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) advanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

var (
	testNow    = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)
	testToday  = domain.DateOf(testNow)
	errOffline = errors.New("store offline")
)

func newTestService(t *testing.T) (*InventoryService, *mockStateRepo, *mockClock) {
	t.Helper()

	repo := &mockStateRepo{}
	clock := &mockClock{now: testNow}
	svc := NewInventoryService(repo, WithClock(clock))
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo, clock
}

func addProduct(t *testing.T, svc *InventoryService, inventory, name string, stock int) domain.Product {
	t.Helper()

	p, err := svc.AddProduct(context.Background(), inventory, domain.ProductInput{
		Name:  name,
		Price: decimal.RequireFromString("10.99"),
		Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func findProduct(t *testing.T, svc *InventoryService, inventory string, id int64) domain.Product {
	t.Helper()

	products, err := svc.ListProducts(inventory)
	require.NoError(t, err)
	for _, p := range products {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("product %d not found in %q", id, inventory)
	return domain.Product{}
}
