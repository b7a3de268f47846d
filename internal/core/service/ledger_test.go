package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/core/domain"
)

func TestRecordSale_DeliveryLifecycle(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	p := addProduct(t, svc, "Default Inventory", "Lamp", 100)

	first, err := svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 30, ShipmentDate: testToday})
	require.NoError(t, err)
	assert.Equal(t, 30, first.Quantity)
	assert.True(t, first.Delivered)
	assert.Equal(t, domain.ShipmentStatusDelivered, first.Status)

	d := findProduct(t, svc, "Default Inventory", p.ID).Details
	assert.Equal(t, 30, d.TotalSold)
	assert.Equal(t, 30, d.Delivered)
	assert.Equal(t, 0, d.InTransit)

	second, err := svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 40, ShipmentDate: testToday.AddDate(0, 0, 5)})
	require.NoError(t, err)
	assert.False(t, second.Delivered)
	assert.Equal(t, domain.ShipmentStatusScheduled, second.Status)

	d = findProduct(t, svc, "Default Inventory", p.ID).Details
	assert.Equal(t, 70, d.TotalSold)
	assert.Equal(t, 40, d.YetToDispatch)

	clock.advanceDays(5)
	assert.Equal(t, 1, svc.RefreshDeliveries(ctx))

	d = findProduct(t, svc, "Default Inventory", p.ID).Details
	assert.Equal(t, 70, d.Delivered)
	assert.Equal(t, 0, d.YetToDispatch)
	assert.Equal(t, 40, d.DeliveringToday)
	assert.Equal(t, d.TotalSold, d.Delivered+d.InTransit+d.YetToDispatch)
}

func TestRecordSale_ClampsToAvailable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := addProduct(t, svc, "Default Inventory", "Lamp", 50)
	_, err := svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 30})
	require.NoError(t, err)

	got, err := svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 1000})
	require.NoError(t, err)
	assert.Equal(t, 20, got.Quantity)

	after := findProduct(t, svc, "Default Inventory", p.ID)
	assert.Equal(t, 50, after.Details.TotalSold)
	assert.Equal(t, 0, after.AvailableStock())
}

func TestRecordSale_Rejected(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	p := addProduct(t, svc, "Default Inventory", "Lamp", 5)

	_, err := svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: -3})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.RecordSale(ctx, "Default Inventory", 1, Sale{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 5})
	require.NoError(t, err)
	saves := repo.saveCount()

	_, err = svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, saves, repo.saveCount())
	assert.Len(t, findProduct(t, svc, "Default Inventory", p.ID).Details.Shipments, 1)
}

func TestRecordSale_PullsCartBack(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := addProduct(t, svc, "Default Inventory", "Lamp", 10)
	_, err := svc.SetCartQuantity(ctx, "Default Inventory", p.ID, 9)
	require.NoError(t, err)

	_, err = svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 6})
	require.NoError(t, err)

	assert.Equal(t, 4, findProduct(t, svc, "Default Inventory", p.ID).InCart)
}

func TestRecordSale_InTransitUntilDeliveryDate(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	p := addProduct(t, svc, "Default Inventory", "Lamp", 10)

	got, err := svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{
		Quantity:     4,
		ShipmentDate: testToday.AddDate(0, 0, -1),
		DeliveryDate: testToday.AddDate(0, 0, 2),
		DeliveredBy:  "courier",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentStatusInTransit, got.Status)
	assert.Equal(t, "courier", got.DeliveredBy)
	assert.NotEmpty(t, got.ID)

	d := findProduct(t, svc, "Default Inventory", p.ID).Details
	assert.Equal(t, 4, d.InTransit)

	clock.advanceDays(1)
	assert.Equal(t, 0, svc.RefreshDeliveries(ctx))

	clock.advanceDays(1)
	assert.Equal(t, 1, svc.RefreshDeliveries(ctx))
	d = findProduct(t, svc, "Default Inventory", p.ID).Details
	assert.Equal(t, 4, d.Delivered)
	assert.Equal(t, 4, d.DeliveringToday)

	clock.advanceDays(1)
	assert.Equal(t, 1, svc.RefreshDeliveries(ctx))
	assert.Equal(t, 0, findProduct(t, svc, "Default Inventory", p.ID).Details.DeliveringToday)
}

func TestRecordSale_TotalsHoldForRandomSequences(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	p := addProduct(t, svc, "Default Inventory", "Lamp", 250)

	sum := 0
	for i := 0; i < 60; i++ {
		if i%10 == 9 {
			_, err := svc.RestockProduct(ctx, "Default Inventory", p.ID, rng.Intn(20)+1)
			require.NoError(t, err)
		}
		sale := Sale{Quantity: rng.Intn(40) + 1, ShipmentDate: testToday.AddDate(0, 0, rng.Intn(9)-3)}
		got, err := svc.RecordSale(ctx, "Default Inventory", p.ID, sale)
		if err != nil {
			require.ErrorIs(t, err, domain.ErrValidation)
			continue
		}
		sum += got.Quantity

		clock.advanceDays(rng.Intn(2))
		svc.RefreshDeliveries(ctx)

		cur := findProduct(t, svc, "Default Inventory", p.ID)
		d := cur.Details
		assert.Equal(t, sum, d.TotalSold)
		assert.LessOrEqual(t, d.TotalSold, cur.Stock)
		assert.Equal(t, d.TotalSold, d.Delivered+d.InTransit+d.YetToDispatch)
	}
}

func TestRefreshDeliveries_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	p := addProduct(t, svc, "Default Inventory", "Lamp", 10)
	_, err := svc.RecordSale(ctx, "Default Inventory", p.ID, Sale{Quantity: 2, ShipmentDate: testToday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	saves := repo.saveCount()

	assert.Equal(t, 0, svc.RefreshDeliveries(ctx))
	assert.Equal(t, 0, svc.RefreshDeliveries(ctx))
	assert.Equal(t, saves, repo.saveCount())
}
