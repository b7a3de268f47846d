package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

const maxBodyBytes = 8 << 20 // product images travel inline as data URLs

type HTTPHandler struct {
	svc *service.InventoryService
	log *zap.Logger
	now func() time.Time
}

func NewHTTPHandler(svc *service.InventoryService, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log, now: time.Now}
}

// Routes builds the router. metrics is mounted at /metrics when non-nil.
func (h *HTTPHandler) Routes(metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodyBytes))

		r.Get("/inventories", h.ListInventories)
		r.Post("/inventories", h.AddInventory)

		r.Put("/selection/inventory", h.SelectInventory)
		r.Get("/selection/products", h.ProductSelection)
		r.Put("/selection/products", h.SelectProduct)

		r.Route("/inventories/{name}", func(r chi.Router) {
			r.Delete("/", h.RemoveInventory)

			r.Get("/products", h.ListProducts)
			r.Post("/products", h.AddProduct)
			r.Delete("/products/{id}", h.DeleteProduct)
			r.Post("/products/{id}/restock", h.RestockProduct)
			r.Put("/products/{id}/cart", h.SetCart)
			r.Post("/products/{id}/sales", h.RecordSale)

			r.Put("/selection", h.SelectAll)
			r.Delete("/selection", h.DeleteSelected)

			r.Get("/dashboard", h.Dashboard)
			r.Get("/report.xlsx", h.Report)
		})

		r.Get("/products", h.AllProducts)
		r.Post("/deliveries/refresh", h.RefreshDeliveries)
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "store": "ok"}
	if err := h.svc.LastPersistError(); err != nil {
		resp["store"] = "degraded"
		resp["storeError"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// writeServiceError maps the domain sentinels onto status codes.
func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return false
	}
	return true
}

// inventoryParam returns the decoded {name} segment; names may hold spaces
// or escaped slashes.
func inventoryParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func productParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid product id")
		return 0, false
	}
	return id, true
}
