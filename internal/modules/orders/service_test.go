package orders

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func ptr(v float64) *float64 { return &v }

// fakeRepo keeps records in memory, deep-copying nothing: it stores the
// exact pointers the service hands over, which is what makes the
// snapshot-isolation test meaningful.
type fakeRepo struct {
	records map[string]*Record
	failing bool
}

func newFakeRepo() *fakeRepo { return &fakeRepo{records: make(map[string]*Record)} }

var errStorage = errors.New("storage unavailable")

func (f *fakeRepo) Insert(_ context.Context, rec *Record) error {
	if f.failing {
		return errStorage
	}
	f.records[rec.ID.String()] = rec
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (f *fakeRepo) List(_ context.Context, _ Query) ([]*Record, error) {
	out := make([]*Record, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, rec *Record) error {
	if f.failing {
		return errStorage
	}
	f.records[rec.ID.String()] = rec
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) DeleteRange(_ context.Context, _ Query) (int64, error) {
	n := int64(len(f.records))
	f.records = make(map[string]*Record)
	return n, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n byte }

func (s *seqIDs) NewID() uuid.UUID {
	s.n++
	return uuid.UUID{s.n}
}

func testBreakdown() pricing.Breakdown {
	return pricing.Breakdown{
		Items: []pricing.Line{
			{
				ItemID:      "shirt",
				Name:        "Camisa",
				Kind:        catalog.KindDualPrice,
				UnitPriceLP: 5,
				UnitPriceP:  ptr(3),
				QtyLP:       4,
				QtyP:        2,
				LineTotal:   26,
			},
		},
		Subtotal:   26,
		Multiplier: 2,
		Surcharge:  26,
		Total:      52,
	}
}

func newTestService(repo Repository) (Service, time.Time) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return NewService(repo, fixedClock{t: now}, &seqIDs{}), now
}

func TestFinalize_RejectsEmptyBreakdown(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, err := svc.Finalize(context.Background(), pricing.Breakdown{Multiplier: 1}, catalog.CatalogServices, pricing.Normal, "")
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("err = %v, want ErrEmptyOrder", err)
	}
	if rec != nil {
		t.Fatalf("record = %+v, want nil", rec)
	}
	if len(repo.records) != 0 {
		t.Fatalf("repo has %d records, want 0", len(repo.records))
	}
}

func TestFinalize_SnapshotsBreakdown(t *testing.T) {
	repo := newFakeRepo()
	svc, now := newTestService(repo)

	rec, err := svc.Finalize(context.Background(), testBreakdown(), catalog.CatalogServices, pricing.Urgente, "2026-03-10")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if rec.Date != "2026-03-10" {
		t.Fatalf("date = %q, want user-provided date", rec.Date)
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("createdAt = %v, want clock time %v", rec.CreatedAt, now)
	}
	if rec.UpdatedAt != nil {
		t.Fatalf("updatedAt = %v, want nil on a fresh record", rec.UpdatedAt)
	}
	nearlyEqual(t, "subtotal", rec.Subtotal, 26)
	nearlyEqual(t, "multiplier", rec.Multiplier, 2)
	nearlyEqual(t, "total", rec.Total, 52)
	if len(rec.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(rec.Items))
	}
}

func TestFinalize_DefaultsDateFromClock(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	rec, err := svc.Finalize(context.Background(), testBreakdown(), catalog.CatalogServices, pricing.Urgente, "")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if rec.Date != "2026-03-14" {
		t.Fatalf("date = %q, want clock date", rec.Date)
	}
}

func TestFinalize_RecordIsolatedFromLiveBreakdown(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	b := testBreakdown()
	rec, err := svc.Finalize(context.Background(), b, catalog.CatalogServices, pricing.Urgente, "")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	// Keep editing the "live" breakdown the way a cart recompute would.
	b.Items[0].QtyLP = 99
	b.Items[0].LineTotal = 999
	*b.Items[0].UnitPriceP = 7

	if rec.Items[0].QtyLP != 4 {
		t.Fatalf("record qtyLP = %d, mutated through shared slice", rec.Items[0].QtyLP)
	}
	nearlyEqual(t, "record lineTotal", rec.Items[0].LineTotal, 26)
	nearlyEqual(t, "record unitPriceP", *rec.Items[0].UnitPriceP, 3)
}

func TestFinalize_PropagatesPersistenceError(t *testing.T) {
	repo := newFakeRepo()
	repo.failing = true
	svc, _ := newTestService(repo)

	_, err := svc.Finalize(context.Background(), testBreakdown(), catalog.CatalogServices, pricing.Normal, "")
	if !errors.Is(err, errStorage) {
		t.Fatalf("err = %v, want wrapped storage error", err)
	}
}

func TestAdjustLine_UsesFrozenUnitPrices(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, err := svc.Finalize(context.Background(), testBreakdown(), catalog.CatalogServices, pricing.Urgente, "")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	// A catalog price change after the save must not leak in: the line
	// keeps pricing at its frozen 5.00, not any newer value.
	adjusted, err := svc.AdjustLine(context.Background(), rec.ID.String(), 0, AdjustLineRequest{QtyLP: 5, QtyP: 2})
	if err != nil {
		t.Fatalf("AdjustLine: %v", err)
	}

	nearlyEqual(t, "lineTotal", adjusted.Items[0].LineTotal, 31) // 5*5 + 2*3
	nearlyEqual(t, "subtotal", adjusted.Items[0].LineTotal, adjusted.Subtotal)
	nearlyEqual(t, "total", adjusted.Total, 62) // stored multiplier 2 re-applied
	if adjusted.UpdatedAt == nil {
		t.Fatal("updatedAt not stamped")
	}
}

func TestAdjustLine_PreservesIdentityFields(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	rec, err := svc.Finalize(context.Background(), testBreakdown(), catalog.CatalogServices, pricing.Urgente, "2026-03-01")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	adjusted, err := svc.AdjustLine(context.Background(), rec.ID.String(), 0, AdjustLineRequest{QtyLP: 1})
	if err != nil {
		t.Fatalf("AdjustLine: %v", err)
	}

	if adjusted.ID != rec.ID || adjusted.Date != "2026-03-01" ||
		adjusted.CatalogType != catalog.CatalogServices || len(adjusted.Items) != 1 {
		t.Fatalf("adjustment changed identity fields: %+v", adjusted)
	}
}

func TestAdjustLine_IndexOutOfRange(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	rec, err := svc.Finalize(context.Background(), testBreakdown(), catalog.CatalogServices, pricing.Normal, "")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if _, err := svc.AdjustLine(context.Background(), rec.ID.String(), 1, AdjustLineRequest{}); err == nil {
		t.Fatal("expected error for out-of-range line index")
	}
	if _, err := svc.AdjustLine(context.Background(), rec.ID.String(), -1, AdjustLineRequest{}); err == nil {
		t.Fatal("expected error for negative line index")
	}
}

func TestAdjustLine_SinglePriceLine(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	b := pricing.Breakdown{
		Items: []pricing.Line{
			{ItemID: "sheet", Name: "Lençol", Kind: catalog.KindSinglePrice, UnitPrice: 12, Qty: 3, LineTotal: 36},
		},
		Subtotal:   36,
		Multiplier: 1,
		Total:      36,
	}
	rec, err := svc.Finalize(context.Background(), b, catalog.CatalogTrousseau, pricing.Normal, "")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	adjusted, err := svc.AdjustLine(context.Background(), rec.ID.String(), 0, AdjustLineRequest{Qty: 5})
	if err != nil {
		t.Fatalf("AdjustLine: %v", err)
	}
	nearlyEqual(t, "lineTotal", adjusted.Items[0].LineTotal, 60)
	nearlyEqual(t, "total", adjusted.Total, 60)
}
