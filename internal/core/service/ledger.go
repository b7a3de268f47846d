package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Sale is one sale as entered by the caller. A zero ShipmentDate means
// today; a zero DeliveryDate means delivery on the shipment date.
type Sale struct {
	Quantity     int
	ShipmentDate time.Time
	DeliveryDate time.Time
	DeliveredBy  string
}

// RecordSale books a sale against the product's ledger. The quantity is cut
// down to the available stock; a sale that leaves nothing to ship is
// rejected. The returned shipment carries the clamped quantity.
func (s *InventoryService) RecordSale(ctx context.Context, inventory string, id int64, sale Sale) (domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.product(inventory, id)
	if err != nil {
		return domain.Shipment{}, s.rejected("record_sale", err)
	}
	if sale.Quantity <= 0 {
		return domain.Shipment{}, s.rejected("record_sale", fmt.Errorf("sale quantity %d: %w", sale.Quantity, domain.ErrValidation))
	}

	quantity := min(sale.Quantity, p.AvailableStock())
	if quantity <= 0 {
		return domain.Shipment{}, s.rejected("record_sale", fmt.Errorf("product %d sold out: %w", id, domain.ErrValidation))
	}

	today := s.today()
	shipped := today
	if !sale.ShipmentDate.IsZero() {
		shipped = domain.DateOf(sale.ShipmentDate)
	}
	var arrives time.Time
	if !sale.DeliveryDate.IsZero() {
		arrives = domain.DateOf(sale.DeliveryDate)
	}

	shipment := domain.Shipment{
		ID:           uuid.NewString(),
		Quantity:     quantity,
		ShipmentDate: shipped,
		DeliveryDate: arrives,
		DeliveredBy:  sale.DeliveredBy,
	}

	details := p.Details
	details.Shipments = append(cloneShipments(details.Shipments), shipment)
	p.Details = domain.Derive(details, today)
	p.InCart = p.ClampCart(p.InCart)

	recorded := p.Details.Shipments[len(p.Details.Shipments)-1]

	s.metrics.UnitsSold(quantity)
	s.log.Info("sale recorded",
		zap.Int64("product", id),
		zap.Int("requested", sale.Quantity),
		zap.Int("quantity", quantity),
		zap.Time("shipment_date", shipped),
		zap.String("status", string(recorded.Status)),
	)
	s.committed(ctx, "record_sale")
	return recorded, nil
}

// RefreshDeliveries re-derives every ledger against today and persists once
// if any product changed. It compares against the date rather than counting
// ticks, so it can run late, early or repeatedly.
func (s *InventoryService) RefreshDeliveries(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	changed := 0
	for _, name := range s.inventories {
		products := s.catalogs[name]
		for i := range products {
			derived := domain.Derive(products[i].Details, today)
			if derived.Equal(products[i].Details) {
				continue
			}
			products[i].Details = derived
			changed++
		}
	}

	s.metrics.DeliveryRefresh()
	s.log.Debug("deliveries refreshed", zap.Time("today", today), zap.Int("changed", changed))

	if changed > 0 {
		s.committed(ctx, "refresh_deliveries")
	}
	return changed
}

func cloneShipments(in []domain.Shipment) []domain.Shipment {
	out := make([]domain.Shipment, len(in), len(in)+1)
	copy(out, in)
	return out
}
