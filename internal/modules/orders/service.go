package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

// ErrEmptyOrder is returned when finalization is attempted on a
// breakdown with no priced lines. The caller should prompt the user,
// not retry.
var ErrEmptyOrder = errors.New("order has no priced lines")

// Clock supplies the current time. Injected so finalization and
// adjustment are testable without a global clock.
type Clock interface {
	Now() time.Time
}

// IDSource supplies record identifiers.
type IDSource interface {
	NewID() uuid.UUID
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type uuidSource struct{}

func (uuidSource) NewID() uuid.UUID { return uuid.New() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// UUIDSource returns the random uuid generator.
func UUIDSource() IDSource { return uuidSource{} }

// Service defines the history ledger business logic.
type Service interface {
	// Finalize freezes a priced breakdown into a new history record and
	// persists it. Fails with ErrEmptyOrder when there are no lines.
	Finalize(ctx context.Context, b pricing.Breakdown, catalogType string, st pricing.ServiceType, date string) (*Record, error)

	// Get loads one record.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records matching the query, newest first.
	List(ctx context.Context, q Query) ([]*Record, error)

	// AdjustLine replaces the quantities of one line and recomputes the
	// record's totals from its own frozen unit prices.
	AdjustLine(ctx context.Context, id string, lineIndex int, req AdjustLineRequest) (*Record, error)

	// Delete removes one record.
	Delete(ctx context.Context, id string) error

	// ClearRange removes every record matching the query.
	ClearRange(ctx context.Context, q Query) (int64, error)
}

type service struct {
	repo  Repository
	clock Clock
	ids   IDSource
}

// NewService creates a new history service.
func NewService(repo Repository, clock Clock, ids IDSource) Service {
	if clock == nil {
		clock = SystemClock()
	}
	if ids == nil {
		ids = UUIDSource()
	}
	return &service{repo: repo, clock: clock, ids: ids}
}

func (s *service) Finalize(ctx context.Context, b pricing.Breakdown, catalogType string, st pricing.ServiceType, date string) (*Record, error) {
	if len(b.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	now := s.clock.Now()
	if date == "" {
		date = now.Format("2006-01-02")
	}

	rec := &Record{
		ID:          s.ids.NewID(),
		Date:        date,
		CatalogType: catalogType,
		ServiceType: st,
		Items:       cloneLines(b.Items),
		Subtotal:    b.Subtotal,
		Multiplier:  b.Multiplier,
		Total:       b.Total,
		CreatedAt:   now,
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist history record: %w", err)
	}
	return rec, nil
}

func (s *service) Get(ctx context.Context, id string) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, q Query) ([]*Record, error) {
	return s.repo.List(ctx, q)
}

func (s *service) AdjustLine(ctx context.Context, id string, lineIndex int, req AdjustLineRequest) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lineIndex < 0 || lineIndex >= len(rec.Items) {
		return nil, fmt.Errorf("line index %d out of range (record has %d lines)", lineIndex, len(rec.Items))
	}

	line := &rec.Items[lineIndex]
	switch line.Kind {
	case catalog.KindSinglePrice:
		line.Qty = clampQty(req.Qty)
	default:
		line.QtyLP = clampQty(req.QtyLP)
		if line.UnitPriceP != nil {
			line.QtyP = clampQty(req.QtyP)
		}
	}
	line.Recompute()

	subtotal := 0.0
	for _, l := range rec.Items {
		subtotal += l.LineTotal
	}
	rec.Subtotal = subtotal
	// The record's own stored multiplier applies, never the current
	// urgency settings.
	rec.Total = subtotal * rec.Multiplier

	now := s.clock.Now()
	rec.UpdatedAt = &now

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist adjusted record: %w", err)
	}
	return rec, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ClearRange(ctx context.Context, q Query) (int64, error) {
	return s.repo.DeleteRange(ctx, q)
}

// cloneLines deep-copies breakdown lines so the record is independent
// of the live cart: mutating the cart after a save must never reach a
// finalized record.
func cloneLines(lines []pricing.Line) []pricing.Line {
	out := make([]pricing.Line, len(lines))
	copy(out, lines)
	for i := range out {
		if out[i].UnitPriceP != nil {
			v := *out[i].UnitPriceP
			out[i].UnitPriceP = &v
		}
	}
	return out
}

func clampQty(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
