package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/core/service"
)

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) *service.InventoryService {
	t.Helper()
	svc := service.NewInventoryService(storage.NewMemoryAdapter(), service.WithClock(&fixedClock{now: testNow}))
	require.NoError(t, svc.Load(context.Background()))
	return svc
}
