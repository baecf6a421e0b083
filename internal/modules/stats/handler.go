package stats

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/orders"
)

// Handler exposes the dashboard summary endpoint.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/stats/summary", h.summary)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q := orders.Query{
		StartDate:  r.URL.Query().Get("start"),
		EndDate:    r.URL.Query().Get("end"),
		TypeFilter: r.URL.Query().Get("type"),
	}

	summary, err := h.service.Summarize(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
