package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

const dateLayout = "2006-01-02"

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SaleRequest dates are calendar days (YYYY-MM-DD); RFC 3339 timestamps are
// accepted too.
type SaleRequest struct {
	Quantity     int    `json:"quantity"`
	ShipmentDate string `json:"shipmentDate"`
	DeliveryDate string `json:"deliveryDate"`
	DeliveredBy  string `json:"deliveredBy"`
}

type SelectProductRequest struct {
	ID      int64 `json:"id"`
	Checked bool  `json:"checked"`
}

type SelectAllRequest struct {
	Checked bool `json:"checked"`
}

type SelectionResponse struct {
	Selection []int64 `json:"selection"`
}

// ListProducts serves the catalog of {name}, filtered by ?q= on the name.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	name := inventoryParam(r)
	products, err := h.svc.SearchProducts(name, r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductsReply{Inventory: name, Products: products})
}

func (h *HTTPHandler) AllProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ProductsReply{Inventory: domain.AllInventories, Products: h.svc.AllProducts()})
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.svc.AddProduct(r.Context(), inventoryParam(r), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), inventoryParam(r), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	var req QuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.svc.RestockProduct(r.Context(), inventoryParam(r), id, req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) SetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	var req QuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.svc.SetCartQuantity(r.Context(), inventoryParam(r), id, req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	var req SaleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	shipped, err := parseDate(req.ShipmentDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	arrives, err := parseDate(req.DeliveryDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	shipment, err := h.svc.RecordSale(r.Context(), inventoryParam(r), id, service.Sale{
		Quantity:     req.Quantity,
		ShipmentDate: shipped,
		DeliveryDate: arrives,
		DeliveredBy:  req.DeliveredBy,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shipment)
}

func (h *HTTPHandler) ProductSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SelectionResponse{Selection: h.svc.Selection()})
}

func (h *HTTPHandler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	var req SelectProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.svc.SelectProduct(req.ID, req.Checked)
	writeJSON(w, http.StatusOK, SelectionResponse{Selection: h.svc.Selection()})
}

func (h *HTTPHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	var req SelectAllRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.SelectAll(inventoryParam(r), req.Checked); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{Selection: h.svc.Selection()})
}

// DeleteSelected removes the selected products visible in {name}.
func (h *HTTPHandler) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteSelected(r.Context(), inventoryParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
