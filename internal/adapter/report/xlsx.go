package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

const (
	catalogSheet = "Catalog"
	summarySheet = "Summary"
	dateLayout   = "2006-01-02"
)

var catalogHeader = []interface{}{
	"Inventory",
	"ID",
	"Name",
	"Price",
	"Stock",
	"Available",
	"In cart",
	"Sold",
	"Yet to dispatch",
	"In transit",
	"Delivered",
	"Delivering today",
	"Last shipment",
}

// WriteCatalog renders one row per product plus a summary sheet built from
// the dashboard of the same view.
func WriteCatalog(w io.Writer, products []domain.TaggedProduct, dash service.Dashboard, generated time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), catalogSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(catalogSheet, "A1", &catalogHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range products {
		row := []interface{}{
			p.Inventory,
			p.ID,
			p.Name,
			p.Price.InexactFloat64(),
			p.Stock,
			p.AvailableStock(),
			p.InCart,
			p.Details.TotalSold,
			p.Details.YetToDispatch,
			p.Details.InTransit,
			p.Details.Delivered,
			p.Details.DeliveringToday,
			lastShipment(p.Details),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(catalogSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"View", dash.Inventory},
		{"Generated", generated.Format(time.RFC3339)},
		{"Products", dash.TotalProducts},
		{"Available stock", dash.TotalStock},
		{"Stock value", dash.TotalValue.InexactFloat64()},
		{"Average value", dash.AverageValue.InexactFloat64()},
		{"Sold", dash.TotalSold},
		{"Yet to dispatch", dash.TotalYetToDispatch},
		{"In transit", dash.TotalInTransit},
		{"Delivered", dash.TotalDelivered},
		{"Low stock", dash.LowStockProducts},
		{"Out of stock", dash.OutOfStockProducts},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func lastShipment(sum domain.ShipmentSummary) string {
	var last time.Time
	for _, s := range sum.Shipments {
		if s.ShipmentDate.After(last) {
			last = s.ShipmentDate
		}
	}
	if last.IsZero() {
		return ""
	}
	return last.Format(dateLayout)
}
