package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAvailableStock(t *testing.T) {
	p := Product{Stock: 100, Details: ShipmentSummary{TotalSold: 30}}
	assert.Equal(t, 70, p.AvailableStock())

	p.Details.TotalSold = 120
	assert.Equal(t, 0, p.AvailableStock())
}

func TestClampCart(t *testing.T) {
	p := Product{Stock: 10, Details: ShipmentSummary{TotalSold: 4}}

	assert.Equal(t, 0, p.ClampCart(-3))
	assert.Equal(t, 5, p.ClampCart(5))
	assert.Equal(t, 6, p.ClampCart(6))
	assert.Equal(t, 6, p.ClampCart(60))
}

func TestProductInputValidate(t *testing.T) {
	ok := ProductInput{Name: "Lamp", Price: decimal.RequireFromString("10.99"), Stock: 3}
	assert.True(t, ok.Validate())

	assert.False(t, ProductInput{Name: "  ", Price: decimal.Zero}.Validate())
	assert.False(t, ProductInput{Name: "Lamp", Price: decimal.NewFromInt(-1)}.Validate())
	assert.False(t, ProductInput{Name: "Lamp", Stock: -1}.Validate())
}

func TestClone_CopiesShipments(t *testing.T) {
	p := Product{ID: 1, Details: ShipmentSummary{Shipments: []Shipment{{ID: "a", Quantity: 1}}}}

	c := p.Clone()
	c.Details.Shipments[0].Quantity = 9

	assert.Equal(t, 1, p.Details.Shipments[0].Quantity)
}

func TestValidInventoryName(t *testing.T) {
	assert.True(t, ValidInventoryName("Warehouse"))
	assert.False(t, ValidInventoryName(""))
	assert.False(t, ValidInventoryName("   "))
	assert.False(t, ValidInventoryName(AllInventories))
}
