package calculator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/orders"
	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

// Handler exposes the calculator session HTTP endpoints. Every cart
// mutation responds with the freshly recomputed breakdown, so the
// client's summary panel stays reactive.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/calculator", func(r chi.Router) {
		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", h.dropSession)
			r.Get("/breakdown", h.breakdown)
			r.Put("/quantities", h.setQuantity)
			r.Post("/quantities", h.increment)
			r.Put("/service-type", h.setServiceType)
			r.Put("/catalog", h.setCatalog)
			r.Post("/extras", h.addExtra)
			r.Post("/extras/{extraID}/promote", h.promoteExtra)
			r.Post("/save", h.save)
			r.Post("/reset", h.reset)
		})
	})
}

type quantityRequest struct {
	ItemID    string `json:"item_id"`
	Dimension string `json:"dimension"`
	Value     int    `json:"value"`
	Delta     int    `json:"delta"`
}

func (q quantityRequest) dim() Dimension {
	if Dimension(q.Dimension) == DimP {
		return DimP
	}
	return DimLP
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.CreateSession(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (h *Handler) dropSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DropSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Compute(r.Context(), chi.URLParam(r, "id"))
	h.respondBreakdown(w, b, err)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.service.SetQuantity(r.Context(), chi.URLParam(r, "id"), req.ItemID, req.dim(), req.Value)
	h.respondBreakdown(w, b, err)
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.service.IncrementQuantity(r.Context(), chi.URLParam(r, "id"), req.ItemID, req.dim(), req.Delta)
	h.respondBreakdown(w, b, err)
}

func (h *Handler) setServiceType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ServiceType string `json:"service_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.service.SetServiceType(r.Context(), chi.URLParam(r, "id"), pricing.ParseServiceType(req.ServiceType))
	h.respondBreakdown(w, b, err)
}

func (h *Handler) setCatalog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CatalogID string `json:"catalog_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.service.SetActiveCatalog(r.Context(), chi.URLParam(r, "id"), req.CatalogID)
	h.respondBreakdown(w, b, err)
}

func (h *Handler) addExtra(w http.ResponseWriter, r *http.Request) {
	var req ExtraItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.service.AddExtra(r.Context(), chi.URLParam(r, "id"), req)
	h.respondBreakdown(w, b, err)
}

func (h *Handler) promoteExtra(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.PromoteExtra(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "extraID"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	respond(w, http.StatusCreated, item)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	rec, err := h.service.Save(r.Context(), chi.URLParam(r, "id"), req.Date)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	respond(w, http.StatusCreated, rec)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Reset(r.Context(), chi.URLParam(r, "id"))
	h.respondBreakdown(w, b, err)
}

func (h *Handler) respondBreakdown(w http.ResponseWriter, b pricing.Breakdown, err error) {
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	respond(w, http.StatusOK, b)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrEmptyOrder):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
