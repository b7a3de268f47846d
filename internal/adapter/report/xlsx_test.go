package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

func TestWriteCatalog(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	products := []domain.TaggedProduct{
		{Inventory: "Main", Product: domain.Product{
			ID: 1, Name: "Lamp", Price: decimal.RequireFromString("10.50"), Stock: 20, InCart: 2,
			Details: domain.ShipmentSummary{TotalSold: 5, Delivered: 5, Shipments: []domain.Shipment{
				{ID: "a", Quantity: 2, ShipmentDate: day.AddDate(0, 0, -3)},
				{ID: "b", Quantity: 3, ShipmentDate: day},
			}},
		}},
		{Inventory: "Annex", Product: domain.Product{ID: 2, Name: "Desk", Price: decimal.NewFromInt(99), Stock: 1}},
	}
	dash := service.Dashboard{
		Inventory:     domain.AllInventories,
		TotalProducts: 2,
		TotalStock:    16,
		TotalValue:    decimal.RequireFromString("256.50"),
		AverageValue:  decimal.RequireFromString("128.25"),
		TotalSold:     5,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, products, dash, day))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(catalogSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Inventory", rows[0][0])
	assert.Equal(t, []string{"Main", "1", "Lamp", "10.5", "20", "15", "2", "5", "0", "0", "5", "0", "2026-03-10"}, rows[1])
	assert.Equal(t, "Desk", rows[2][2])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"View", domain.AllInventories}, summary[0])
	assert.Equal(t, []string{"Products", "2"}, summary[2])
	assert.Equal(t, []string{"Stock value", "256.5"}, summary[4])
}

func TestWriteCatalog_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, nil, service.Dashboard{Inventory: "Main"}, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(catalogSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
