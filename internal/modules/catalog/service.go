package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	// GetCatalog loads a catalog with its full ordered item list.
	GetCatalog(ctx context.Context, id string) (*Catalog, error)

	// ListCatalogs returns every catalog, built-in and custom.
	ListCatalogs(ctx context.Context) ([]*Catalog, error)

	// CreateCatalog registers a new named catalog.
	CreateCatalog(ctx context.Context, req CreateCatalogRequest) (*Catalog, error)

	// SaveItems validates and replaces a catalog's item list.
	SaveItems(ctx context.Context, catalogID string, items []Item) (*Catalog, error)

	// AddItem appends one item to a catalog.
	AddItem(ctx context.Context, catalogID string, item Item) (*Catalog, error)

	// RemoveItem deletes one item from a catalog.
	RemoveItem(ctx context.Context, catalogID, itemID string) (*Catalog, error)

	// PromoteExtra turns an order-session extra into a permanent catalog
	// item. The extra keeps its prices but receives a fresh identifier.
	PromoteExtra(ctx context.Context, catalogID string, extra Item) (*Item, error)
}

// CreateCatalogRequest holds the data for registering a catalog.
type CreateCatalogRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) GetCatalog(ctx context.Context, id string) (*Catalog, error) {
	return s.repo.GetCatalog(ctx, id)
}

func (s *service) ListCatalogs(ctx context.Context) ([]*Catalog, error) {
	return s.repo.ListCatalogs(ctx)
}

func (s *service) CreateCatalog(ctx context.Context, req CreateCatalogRequest) (*Catalog, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("catalog name is required")
	}
	typ := Type(req.Type)
	if typ != TypeService && typ != TypeUnit {
		return nil, fmt.Errorf("catalog type must be %q or %q", TypeService, TypeUnit)
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	c := &Catalog{ID: id, Name: req.Name, Type: typ, Items: []Item{}}
	if err := s.repo.CreateCatalog(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) SaveItems(ctx context.Context, catalogID string, items []Item) (*Catalog, error) {
	c, err := s.repo.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(items))
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].Kind = kindForCatalog(c.Type, items[i])
		items[i].IsExtra = false
		items[i].Position = i
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
		if seen[items[i].ID] {
			return nil, fmt.Errorf("duplicate item id %q", items[i].ID)
		}
		seen[items[i].ID] = true
	}

	if err := s.repo.SaveItems(ctx, catalogID, items); err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

func (s *service) AddItem(ctx context.Context, catalogID string, item Item) (*Catalog, error) {
	c, err := s.repo.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	return s.SaveItems(ctx, catalogID, append(c.Items, item))
}

func (s *service) RemoveItem(ctx context.Context, catalogID, itemID string) (*Catalog, error) {
	c, err := s.repo.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	kept := c.Items[:0]
	found := false
	for _, it := range c.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return nil, fmt.Errorf("item %q not found in catalog %q", itemID, catalogID)
	}
	return s.SaveItems(ctx, catalogID, kept)
}

func (s *service) PromoteExtra(ctx context.Context, catalogID string, extra Item) (*Item, error) {
	c, err := s.repo.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	promoted := extra
	promoted.ID = uuid.NewString()
	promoted.IsExtra = false
	promoted.Kind = kindForCatalog(c.Type, promoted)
	if err := promoted.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.SaveItems(ctx, catalogID, append(c.Items, promoted)); err != nil {
		return nil, err
	}
	return &promoted, nil
}

// kindForCatalog resolves an item's pricing shape from its catalog type
// when the caller did not set one explicitly.
func kindForCatalog(t Type, it Item) Kind {
	if it.Kind == KindDualPrice || it.Kind == KindSinglePrice {
		return it.Kind
	}
	if t == TypeUnit {
		return KindSinglePrice
	}
	return KindDualPrice
}
