package calculator

import (
	"context"
	"errors"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/orders"
	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

// ErrSessionNotFound is returned for an unknown or expired session id.
var ErrSessionNotFound = errors.New("calculator session not found")

// Service drives calculator sessions: cart mutations, reactive pricing,
// and the save hand-off to the history ledger.
type Service interface {
	// CreateSession opens an empty cart and returns its id.
	CreateSession(ctx context.Context) (string, error)

	// DropSession discards a session's in-memory cart.
	DropSession(ctx context.Context, sessionID string) error

	// Compute prices the session's active catalog cart as it stands.
	Compute(ctx context.Context, sessionID string) (pricing.Breakdown, error)

	// SetQuantity overwrites one quantity dimension and reprices.
	SetQuantity(ctx context.Context, sessionID, itemID string, dim Dimension, value int) (pricing.Breakdown, error)

	// IncrementQuantity steps one quantity dimension and reprices.
	IncrementQuantity(ctx context.Context, sessionID, itemID string, dim Dimension, delta int) (pricing.Breakdown, error)

	// SetServiceType records the urgency selection and reprices.
	SetServiceType(ctx context.Context, sessionID string, st pricing.ServiceType) (pricing.Breakdown, error)

	// SetActiveCatalog switches tabs and reprices the newly active
	// catalog; the other catalog's lines stay in the cart.
	SetActiveCatalog(ctx context.Context, sessionID, catalogID string) (pricing.Breakdown, error)

	// AddExtra adds an ad hoc item to the session and reprices.
	AddExtra(ctx context.Context, sessionID string, req ExtraItemRequest) (pricing.Breakdown, error)

	// PromoteExtra persists a session extra into the active catalog.
	PromoteExtra(ctx context.Context, sessionID, extraID string) (*catalog.Item, error)

	// Save finalizes the current breakdown into a history record and,
	// only after the hand-off succeeds, resets the cart.
	Save(ctx context.Context, sessionID, date string) (*orders.Record, error)

	// Reset clears the session's cart back to defaults.
	Reset(ctx context.Context, sessionID string) (pricing.Breakdown, error)
}

// ExtraItemRequest is the payload for adding an order-scoped extra.
type ExtraItemRequest struct {
	Name    string   `json:"name"`
	PriceLP float64  `json:"price_lp"`
	PriceP  *float64 `json:"price_p,omitempty"`
	Price   float64  `json:"price,omitempty"`
}

type service struct {
	sessions *Sessions
	catalogs catalog.Service
	orders   orders.Service
}

// NewService creates a new calculator service.
func NewService(sessions *Sessions, catalogs catalog.Service, ordersSvc orders.Service) Service {
	return &service{sessions: sessions, catalogs: catalogs, orders: ordersSvc}
}

func (s *service) CreateSession(ctx context.Context) (string, error) {
	id, _ := s.sessions.Create()
	return id, nil
}

func (s *service) DropSession(ctx context.Context, sessionID string) error {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return ErrSessionNotFound
	}
	s.sessions.Drop(sessionID)
	return nil
}

func (s *service) Compute(ctx context.Context, sessionID string) (pricing.Breakdown, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return pricing.Breakdown{}, ErrSessionNotFound
	}
	return s.price(ctx, cart)
}

func (s *service) SetQuantity(ctx context.Context, sessionID, itemID string, dim Dimension, value int) (pricing.Breakdown, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return pricing.Breakdown{}, ErrSessionNotFound
	}
	cart.SetQuantity(itemID, dim, value)
	return s.price(ctx, cart)
}

func (s *service) IncrementQuantity(ctx context.Context, sessionID, itemID string, dim Dimension, delta int) (pricing.Breakdown, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return pricing.Breakdown{}, ErrSessionNotFound
	}
	cart.IncrementQuantity(itemID, dim, delta)
	return s.price(ctx, cart)
}

func (s *service) SetServiceType(ctx context.Context, sessionID string, st pricing.ServiceType) (pricing.Breakdown, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return pricing.Breakdown{}, ErrSessionNotFound
	}
	cart.SetServiceType(st)
	return s.price(ctx, cart)
}

func (s *service) SetActiveCatalog(ctx context.Context, sessionID, catalogID string) (pricing.Breakdown, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return pricing.Breakdown{}, ErrSessionNotFound
	}
	if _, err := s.catalogs.GetCatalog(ctx, catalogID); err != nil {
		return pricing.Breakdown{}, err
	}
	cart.SetActiveCatalog(catalogID)
	return s.price(ctx, cart)
}

func (s *service) AddExtra(ctx context.Context, sessionID string, req ExtraItemRequest) (pricing.Breakdown, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return pricing.Breakdown{}, ErrSessionNotFound
	}

	snap := cart.Snapshot()
	cat, err := s.catalogs.GetCatalog(ctx, snap.CatalogID)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	draft := catalog.Item{Name: req.Name}
	if cat.Type == catalog.TypeUnit {
		draft.Kind = catalog.KindSinglePrice
		draft.Price = req.Price
		if draft.Price == 0 {
			draft.Price = req.PriceLP
		}
	} else {
		draft.Kind = catalog.KindDualPrice
		draft.PriceLP = req.PriceLP
		draft.PriceP = req.PriceP
	}

	if _, err := cart.AddExtra(draft); err != nil {
		return pricing.Breakdown{}, err
	}
	return s.price(ctx, cart)
}

func (s *service) PromoteExtra(ctx context.Context, sessionID, extraID string) (*catalog.Item, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	extra, ok := cart.Extra(extraID)
	if !ok {
		return nil, errors.New("extra item not found in session")
	}
	return s.catalogs.PromoteExtra(ctx, cart.Snapshot().CatalogID, extra)
}

func (s *service) Save(ctx context.Context, sessionID, date string) (*orders.Record, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	// One snapshot feeds both the pricing and the record metadata, so a
	// concurrent mutation cannot desync the breakdown from the recorded
	// catalog and service type.
	snap := cart.Snapshot()
	breakdown, err := s.priceSnapshot(ctx, snap)
	if err != nil {
		return nil, err
	}

	// The cart stays untouched until the hand-off succeeds; a failed or
	// slow persistence call must not lose the user's sheet.
	record, err := s.orders.Finalize(ctx, breakdown, snap.CatalogID, snap.ServiceType, date)
	if err != nil {
		return nil, err
	}

	cart.Reset()
	return record, nil
}

func (s *service) Reset(ctx context.Context, sessionID string) (pricing.Breakdown, error) {
	cart, ok := s.sessions.Get(sessionID)
	if !ok {
		return pricing.Breakdown{}, ErrSessionNotFound
	}
	cart.Reset()
	return s.price(ctx, cart)
}

func (s *service) price(ctx context.Context, cart *Cart) (pricing.Breakdown, error) {
	return s.priceSnapshot(ctx, cart.Snapshot())
}

func (s *service) priceSnapshot(ctx context.Context, snap Snapshot) (pricing.Breakdown, error) {
	cat, err := s.catalogs.GetCatalog(ctx, snap.CatalogID)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.Compute(cat, snap.Extras, snap.Quantities, snap.ServiceType), nil
}
