package calculator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/orders"
	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func ptr(v float64) *float64 { return &v }

type fakeCatalogService struct {
	catalogs     map[string]*catalog.Catalog
	promoted     []catalog.Item
	onGetCatalog func()
}

func newFakeCatalogs() *fakeCatalogService {
	return &fakeCatalogService{catalogs: map[string]*catalog.Catalog{
		catalog.CatalogServices: {
			ID:   catalog.CatalogServices,
			Name: "Serviços",
			Type: catalog.TypeService,
			Items: []catalog.Item{
				{ID: "shirt", Name: "Camisa", Kind: catalog.KindDualPrice, PriceLP: 5, PriceP: ptr(3)},
			},
		},
		catalog.CatalogTrousseau: {
			ID:   catalog.CatalogTrousseau,
			Name: "Enxoval",
			Type: catalog.TypeUnit,
			Items: []catalog.Item{
				{ID: "sheet", Name: "Lençol", Kind: catalog.KindSinglePrice, Price: 12},
			},
		},
	}}
}

func (f *fakeCatalogService) GetCatalog(_ context.Context, id string) (*catalog.Catalog, error) {
	if f.onGetCatalog != nil {
		f.onGetCatalog()
	}
	c, ok := f.catalogs[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return c, nil
}

func (f *fakeCatalogService) ListCatalogs(context.Context) ([]*catalog.Catalog, error) {
	return nil, nil
}

func (f *fakeCatalogService) CreateCatalog(context.Context, catalog.CreateCatalogRequest) (*catalog.Catalog, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCatalogService) SaveItems(context.Context, string, []catalog.Item) (*catalog.Catalog, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCatalogService) AddItem(context.Context, string, catalog.Item) (*catalog.Catalog, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCatalogService) RemoveItem(context.Context, string, string) (*catalog.Catalog, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCatalogService) PromoteExtra(_ context.Context, _ string, extra catalog.Item) (*catalog.Item, error) {
	promoted := extra
	promoted.ID = uuid.NewString()
	promoted.IsExtra = false
	f.promoted = append(f.promoted, promoted)
	return &promoted, nil
}

type fakeOrdersService struct {
	orders.Service
	saved   []*orders.Record
	failing bool
}

var errStorage = errors.New("storage unavailable")

func (f *fakeOrdersService) Finalize(_ context.Context, b pricing.Breakdown, catalogType string, st pricing.ServiceType, date string) (*orders.Record, error) {
	if len(b.Items) == 0 {
		return nil, orders.ErrEmptyOrder
	}
	if f.failing {
		return nil, errStorage
	}
	rec := &orders.Record{
		ID:          uuid.New(),
		Date:        date,
		CatalogType: catalogType,
		ServiceType: st,
		Items:       b.Items,
		Subtotal:    b.Subtotal,
		Multiplier:  b.Multiplier,
		Total:       b.Total,
	}
	f.saved = append(f.saved, rec)
	return rec, nil
}

func newTestCalculator() (Service, *fakeCatalogService, *fakeOrdersService) {
	catalogs := newFakeCatalogs()
	ordersSvc := &fakeOrdersService{}
	return NewService(NewSessions(), catalogs, ordersSvc), catalogs, ordersSvc
}

func mustSession(t *testing.T, svc Service) string {
	t.Helper()
	id, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return id
}

func TestService_MutationsReprice(t *testing.T) {
	svc, _, _ := newTestCalculator()
	ctx := context.Background()
	id := mustSession(t, svc)

	b, err := svc.SetQuantity(ctx, id, "shirt", DimLP, 4)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	nearlyEqual(t, "total", b.Total, 20)

	b, err = svc.IncrementQuantity(ctx, id, "shirt", DimP, 2)
	if err != nil {
		t.Fatalf("IncrementQuantity: %v", err)
	}
	nearlyEqual(t, "total", b.Total, 26)

	b, err = svc.SetServiceType(ctx, id, pricing.Urgente)
	if err != nil {
		t.Fatalf("SetServiceType: %v", err)
	}
	nearlyEqual(t, "total", b.Total, 52)
}

func TestService_UnknownSession(t *testing.T) {
	svc, _, _ := newTestCalculator()

	_, err := svc.Compute(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestService_SaveResetsCartOnSuccess(t *testing.T) {
	svc, _, ordersSvc := newTestCalculator()
	ctx := context.Background()
	id := mustSession(t, svc)

	if _, err := svc.SetQuantity(ctx, id, "shirt", DimLP, 4); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if _, err := svc.SetServiceType(ctx, id, pricing.Expresso); err != nil {
		t.Fatalf("SetServiceType: %v", err)
	}

	rec, err := svc.Save(ctx, id, "2026-03-10")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.CatalogType != catalog.CatalogServices || rec.ServiceType != pricing.Expresso {
		t.Fatalf("record = %+v", rec)
	}
	nearlyEqual(t, "total", rec.Total, 30)
	if len(ordersSvc.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(ordersSvc.saved))
	}

	b, err := svc.Compute(ctx, id)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(b.Items) != 0 {
		t.Fatal("cart not reset after successful save")
	}
	nearlyEqual(t, "multiplier after reset", b.Multiplier, 1)
}

func TestService_SaveKeepsCartOnFailure(t *testing.T) {
	svc, _, ordersSvc := newTestCalculator()
	ordersSvc.failing = true
	ctx := context.Background()
	id := mustSession(t, svc)

	if _, err := svc.SetQuantity(ctx, id, "shirt", DimLP, 4); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	if _, err := svc.Save(ctx, id, ""); !errors.Is(err, errStorage) {
		t.Fatalf("err = %v, want storage error", err)
	}

	b, err := svc.Compute(ctx, id)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(b.Items) != 1 {
		t.Fatal("cart lost after failed save")
	}
}

func TestService_SaveIsConsistentUnderConcurrentMutation(t *testing.T) {
	svc, catalogs, _ := newTestCalculator()
	ctx := context.Background()
	id := mustSession(t, svc)

	if _, err := svc.SetQuantity(ctx, id, "shirt", DimLP, 4); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	// Flip the urgency mid-save, between the snapshot and the catalog
	// load. The record must stay internally consistent: whichever
	// service type it carries, the total has to match it.
	cart, ok := svc.(*service).sessions.Get(id)
	if !ok {
		t.Fatal("session disappeared")
	}
	catalogs.onGetCatalog = func() { cart.SetServiceType(pricing.Urgente) }

	rec, err := svc.Save(ctx, id, "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ServiceType != pricing.Normal {
		t.Fatalf("serviceType = %q, want the snapshotted Normal", rec.ServiceType)
	}
	nearlyEqual(t, "multiplier", rec.Multiplier, 1)
	nearlyEqual(t, "total", rec.Total, rec.Subtotal)
}

func TestService_SaveEmptyCart(t *testing.T) {
	svc, _, _ := newTestCalculator()
	id := mustSession(t, svc)

	_, err := svc.Save(context.Background(), id, "")
	if !errors.Is(err, orders.ErrEmptyOrder) {
		t.Fatalf("err = %v, want ErrEmptyOrder", err)
	}
}

func TestService_AddExtraMatchesCatalogShape(t *testing.T) {
	svc, _, _ := newTestCalculator()
	ctx := context.Background()
	id := mustSession(t, svc)

	b, err := svc.AddExtra(ctx, id, ExtraItemRequest{Name: "Remoção de mancha", PriceLP: 8})
	if err != nil {
		t.Fatalf("AddExtra: %v", err)
	}
	if len(b.Items) != 0 {
		t.Fatal("extra with no quantity should not appear in breakdown")
	}

	snapExtra := findExtra(t, svc, ctx, id)
	b, err = svc.SetQuantity(ctx, id, snapExtra, DimLP, 1)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if len(b.Items) != 1 || !b.Items[0].IsExtra {
		t.Fatalf("breakdown = %+v, want one extra line", b.Items)
	}
	nearlyEqual(t, "total", b.Total, 8)
}

func TestService_PromoteExtra(t *testing.T) {
	svc, catalogs, _ := newTestCalculator()
	ctx := context.Background()
	id := mustSession(t, svc)

	if _, err := svc.AddExtra(ctx, id, ExtraItemRequest{Name: "Remoção de mancha", PriceLP: 8}); err != nil {
		t.Fatalf("AddExtra: %v", err)
	}
	extraID := findExtra(t, svc, ctx, id)

	item, err := svc.PromoteExtra(ctx, id, extraID)
	if err != nil {
		t.Fatalf("PromoteExtra: %v", err)
	}
	if item.IsExtra {
		t.Fatal("promoted item still tagged extra")
	}
	if len(catalogs.promoted) != 1 {
		t.Fatalf("promoted %d items, want 1", len(catalogs.promoted))
	}
}

// findExtra digs the synthetic id of the session's single extra out of
// a quantity-1 computation.
func findExtra(t *testing.T, svc Service, ctx context.Context, sessionID string) string {
	t.Helper()
	impl, ok := svc.(*service)
	if !ok {
		t.Fatal("unexpected service implementation")
	}
	cart, ok := impl.sessions.Get(sessionID)
	if !ok {
		t.Fatal("session disappeared")
	}
	extras := cart.Snapshot().Extras
	if len(extras) != 1 {
		t.Fatalf("extras = %d, want 1", len(extras))
	}
	return extras[0].ID
}
