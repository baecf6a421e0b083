package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a catalog does not exist.
var ErrNotFound = errors.New("catalog not found")

// Repository defines the interface for catalog data storage.
type Repository interface {
	GetCatalog(ctx context.Context, id string) (*Catalog, error)
	ListCatalogs(ctx context.Context) ([]*Catalog, error)
	CreateCatalog(ctx context.Context, c *Catalog) error
	// SaveItems replaces the full item list of a catalog.
	SaveItems(ctx context.Context, catalogID string, items []Item) error
}
