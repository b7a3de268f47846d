package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/rl1809/stockroom/internal/adapter/report"
	"github.com/rl1809/stockroom/internal/core/domain"
)

type RemoveInventoryRequest struct {
	Transfers []domain.Transfer `json:"transfers"`
}

type SelectInventoryRequest struct {
	Name string `json:"name"`
}

func (h *HTTPHandler) inventories() InventoriesReply {
	return InventoriesReply{
		Inventories: h.svc.Inventories(),
		Options:     h.svc.InventoryOptions(),
		Selected:    h.svc.SelectedInventory(),
	}
}

func (h *HTTPHandler) ListInventories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.inventories())
}

func (h *HTTPHandler) AddInventory(w http.ResponseWriter, r *http.Request) {
	var req AddInventoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.AddInventory(r.Context(), req.Name); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.inventories())
}

// RemoveInventory deletes {name}. The body is optional; without it every
// product of the inventory is discarded.
func (h *HTTPHandler) RemoveInventory(w http.ResponseWriter, r *http.Request) {
	var req RemoveInventoryRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.RemoveInventory(r.Context(), inventoryParam(r), req.Transfers); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.inventories())
}

func (h *HTTPHandler) SelectInventory(w http.ResponseWriter, r *http.Request) {
	var req SelectInventoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.svc.SetSelectedInventory(r.Context(), req.Name)
	writeJSON(w, http.StatusOK, h.inventories())
}

func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(inventoryParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *HTTPHandler) Report(w http.ResponseWriter, r *http.Request) {
	name := inventoryParam(r)
	products, err := h.svc.SearchProducts(name, "")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dash, err := h.svc.Dashboard(name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCatalog(&buf, products, dash, h.now()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "stockroom-report.xlsx"))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *HTTPHandler) RefreshDeliveries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"changed": h.svc.RefreshDeliveries(r.Context())})
}
