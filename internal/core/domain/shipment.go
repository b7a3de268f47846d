package domain

import "time"

type ShipmentStatus string

const (
	ShipmentStatusScheduled ShipmentStatus = "scheduled"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

// Shipment is the delivery record of one committed sale.
// Dates are calendar days, see DateOf.
type Shipment struct {
	ID           string         `json:"id"`
	Quantity     int            `json:"quantity"`
	ShipmentDate time.Time      `json:"shipmentDate"`
	DeliveryDate time.Time      `json:"deliveryDate"`
	DeliveredBy  string         `json:"deliveredBy,omitempty"`
	Delivered    bool           `json:"delivered"`
	Status       ShipmentStatus `json:"status"`
}

// ShipmentSummary aggregates a product's shipment ledger.
type ShipmentSummary struct {
	InTransit       int        `json:"inTransit"`
	Delivered       int        `json:"delivered"`
	YetToDispatch   int        `json:"yetToDispatch"`
	DeliveringToday int        `json:"deliveringToday"`
	TotalSold       int        `json:"totalSold"`
	Shipments       []Shipment `json:"shipments"`
}

// DateOf truncates t to its calendar day in t's own location and returns
// that day as midnight UTC, so dates compare independently of zones.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StatusAt reports where the shipment is on the given day. A shipment
// without a delivery date is delivered on its shipment date.
func (s Shipment) StatusAt(today time.Time) ShipmentStatus {
	today = DateOf(today)
	shipped := DateOf(s.ShipmentDate)
	arrives := s.arrival()
	switch {
	case today.Before(shipped):
		return ShipmentStatusScheduled
	case today.Before(arrives):
		return ShipmentStatusInTransit
	default:
		return ShipmentStatusDelivered
	}
}

func (s Shipment) arrival() time.Time {
	shipped := DateOf(s.ShipmentDate)
	if s.DeliveryDate.IsZero() {
		return shipped
	}
	arrives := DateOf(s.DeliveryDate)
	if arrives.Before(shipped) {
		return shipped
	}
	return arrives
}

// Derive recomputes every counter of the summary from its shipments as of
// today. It never mutates sum and is idempotent for a fixed today.
//
// DeliveringToday is the quantity arriving today. Those units have already
// reached delivered status, so they are also counted in Delivered rather
// than in InTransit; DeliveringToday is an overlay, not a fourth bucket of
// TotalSold.
func Derive(sum ShipmentSummary, today time.Time) ShipmentSummary {
	today = DateOf(today)
	out := ShipmentSummary{}
	if len(sum.Shipments) > 0 {
		out.Shipments = make([]Shipment, len(sum.Shipments))
	}

	for i, s := range sum.Shipments {
		s.Status = s.StatusAt(today)
		s.Delivered = s.Status == ShipmentStatusDelivered

		switch s.Status {
		case ShipmentStatusScheduled:
			out.YetToDispatch += s.Quantity
		case ShipmentStatusInTransit:
			out.InTransit += s.Quantity
		case ShipmentStatusDelivered:
			out.Delivered += s.Quantity
		}
		if s.arrival().Equal(today) {
			out.DeliveringToday += s.Quantity
		}

		out.TotalSold += s.Quantity
		out.Shipments[i] = s
	}

	return out
}

// Equal reports whether two summaries carry the same counters and the same
// per-shipment state.
func (s ShipmentSummary) Equal(o ShipmentSummary) bool {
	if s.InTransit != o.InTransit || s.Delivered != o.Delivered ||
		s.YetToDispatch != o.YetToDispatch || s.DeliveringToday != o.DeliveringToday ||
		s.TotalSold != o.TotalSold || len(s.Shipments) != len(o.Shipments) {
		return false
	}
	for i := range s.Shipments {
		a, b := s.Shipments[i], o.Shipments[i]
		if a.ID != b.ID || a.Quantity != b.Quantity || a.Delivered != b.Delivered || a.Status != b.Status {
			return false
		}
	}
	return true
}
