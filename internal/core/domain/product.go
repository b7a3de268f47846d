package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"` // lifetime stock added
	Image   string          `json:"image"`
	InCart  int             `json:"inCart"`
	Details ShipmentSummary `json:"details"`
}

// ProductInput carries the caller-supplied fields of a new product.
type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Image string          `json:"image"`
}

func (in ProductInput) Validate() bool {
	return strings.TrimSpace(in.Name) != "" && !in.Price.IsNegative() && in.Stock >= 0
}

// TaggedProduct is a product as seen from the aggregate view.
type TaggedProduct struct {
	Inventory string `json:"inventory"`
	Product
}

// AvailableStock is stock not yet sold, floored at zero.
func (p Product) AvailableStock() int {
	available := p.Stock - p.Details.TotalSold
	if available < 0 {
		return 0
	}
	return available
}

// ClampCart returns q limited to [0, AvailableStock].
func (p Product) ClampCart(q int) int {
	if q < 0 {
		return 0
	}
	if available := p.AvailableStock(); q > available {
		return available
	}
	return q
}

// Clone returns a deep copy so the shipment slice is not shared.
func (p Product) Clone() Product {
	c := p
	if p.Details.Shipments != nil {
		c.Details.Shipments = make([]Shipment, len(p.Details.Shipments))
		copy(c.Details.Shipments, p.Details.Shipments)
	}
	return c
}
