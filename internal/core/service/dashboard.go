package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rl1809/stockroom/internal/core/domain"
)

const (
	lowStockThreshold = 10
	topProductsLimit  = 5
)

type Dashboard struct {
	Inventory          string          `json:"inventory"`
	TotalProducts      int             `json:"totalProducts"`
	TotalStock         int             `json:"totalStock"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	AverageValue       decimal.Decimal `json:"averageValue"`
	TotalInTransit     int             `json:"totalInTransit"`
	TotalDelivered     int             `json:"totalDelivered"`
	TotalYetToDispatch int             `json:"totalYetToDispatch"`
	TotalSold          int             `json:"totalSold"`
	LowStockProducts   int             `json:"lowStockProducts"`
	OutOfStockProducts int             `json:"outOfStockProducts"`

	StockBreakdown        StockBreakdown `json:"stockBreakdown"`
	InventoryDistribution []NamedCount   `json:"inventoryDistribution,omitempty"`
	TopProducts           []TopProduct   `json:"topProducts"`
}

type StockBreakdown struct {
	Available int `json:"available"`
	InTransit int `json:"inTransit"`
	Sold      int `json:"sold"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type TopProduct struct {
	Inventory string          `json:"inventory"`
	Name      string          `json:"name"`
	Sold      int             `json:"sold"`
	Available int             `json:"available"`
	Value     decimal.Decimal `json:"value"`
}

// Dashboard computes the summary metrics of a view. Every value, the top
// products' included, counts only unsold stock at its current price.
func (s *InventoryService) Dashboard(inventory string) (Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var products []domain.TaggedProduct
	if inventory == domain.AllInventories {
		products = s.allProducts()
	} else {
		catalog, ok := s.catalogs[inventory]
		if !ok {
			return Dashboard{}, fmt.Errorf("inventory %q: %w", inventory, domain.ErrNotFound)
		}
		for _, p := range catalog {
			products = append(products, domain.TaggedProduct{Inventory: inventory, Product: p})
		}
	}

	d := Dashboard{
		Inventory:    inventory,
		TotalValue:   decimal.Zero,
		AverageValue: decimal.Zero,
		TopProducts:  []TopProduct{},
	}

	for _, p := range products {
		available := p.AvailableStock()

		d.TotalProducts++
		d.TotalStock += available
		d.TotalValue = d.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(available))))
		d.TotalInTransit += p.Details.InTransit
		d.TotalDelivered += p.Details.Delivered
		d.TotalYetToDispatch += p.Details.YetToDispatch
		d.TotalSold += p.Details.TotalSold

		switch {
		case available <= 0:
			d.OutOfStockProducts++
		case available <= lowStockThreshold:
			d.LowStockProducts++
		}
	}

	if d.TotalProducts > 0 {
		d.AverageValue = d.TotalValue.Div(decimal.NewFromInt(int64(d.TotalProducts))).Round(2)
	}

	d.StockBreakdown = StockBreakdown{
		Available: d.TotalStock,
		InTransit: d.TotalInTransit,
		Sold:      d.TotalSold,
	}

	if inventory == domain.AllInventories {
		for _, name := range s.inventories {
			if n := len(s.catalogs[name]); n > 0 {
				d.InventoryDistribution = append(d.InventoryDistribution, NamedCount{Name: name, Value: n})
			}
		}
	}

	ranked := slices.Clone(products)
	slices.SortStableFunc(ranked, func(a, b domain.TaggedProduct) int {
		return cmp.Compare(b.Details.TotalSold, a.Details.TotalSold)
	})
	for _, p := range ranked[:min(len(ranked), topProductsLimit)] {
		d.TopProducts = append(d.TopProducts, TopProduct{
			Inventory: p.Inventory,
			Name:      p.Name,
			Sold:      p.Details.TotalSold,
			Available: p.AvailableStock(),
			Value:     p.Price.Mul(decimal.NewFromInt(int64(p.AvailableStock()))),
		})
	}

	return d, nil
}
