package domain

import (
	"time"

	"github.com/google/uuid"
)

// UpgradeLegacySummary converts a summary saved by the counter-only format
// (totals without shipment records) into equivalent shipment records.
// Delivered units become a shipment that arrived yesterday; the remainder is
// put in transit, arriving tomorrow. Summaries that already carry shipments
// are returned unchanged.
func UpgradeLegacySummary(sum ShipmentSummary, today time.Time) ShipmentSummary {
	if len(sum.Shipments) > 0 || sum.TotalSold <= 0 {
		return sum
	}

	today = DateOf(today)
	yesterday := today.AddDate(0, 0, -1)

	delivered := sum.Delivered
	if delivered > sum.TotalSold {
		delivered = sum.TotalSold
	}
	if delivered < 0 {
		delivered = 0
	}
	pending := sum.TotalSold - delivered

	out := ShipmentSummary{}
	if delivered > 0 {
		out.Shipments = append(out.Shipments, Shipment{
			ID:           uuid.NewString(),
			Quantity:     delivered,
			ShipmentDate: yesterday,
			DeliveryDate: yesterday,
		})
	}
	if pending > 0 {
		out.Shipments = append(out.Shipments, Shipment{
			ID:           uuid.NewString(),
			Quantity:     pending,
			ShipmentDate: yesterday,
			DeliveryDate: today.AddDate(0, 0, 1),
		})
	}

	return Derive(out, today)
}
