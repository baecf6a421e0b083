package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
)

// Config contains the values required by the startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Catalogs int
	Items    int
	Users    int
}

func ptr(v float64) *float64 { return &v }

func defaultServiceItems() []catalog.Item {
	return []catalog.Item{
		{Name: "Camisa", PriceLP: 5.00, PriceP: ptr(3.50)},
		{Name: "Calça", PriceLP: 6.00, PriceP: ptr(4.00)},
		{Name: "Vestido", PriceLP: 9.00, PriceP: ptr(6.00)},
		{Name: "Terno", PriceLP: 15.00, PriceP: ptr(10.00)},
		{Name: "Jaleco", PriceLP: 7.00},
		{Name: "Blusa", PriceLP: 5.50, PriceP: ptr(3.50)},
		{Name: "Saia", PriceLP: 5.50, PriceP: ptr(3.50)},
	}
}

func defaultTrousseauItems() []catalog.Item {
	return []catalog.Item{
		{Name: "Lençol", Price: 12.00},
		{Name: "Fronha", Price: 4.00},
		{Name: "Toalha de banho", Price: 8.00},
		{Name: "Toalha de mesa", Price: 10.00},
		{Name: "Edredom", Price: 25.00},
		{Name: "Cobertor", Price: 20.00},
	}
}

// Run makes sure the built-in catalogs exist and, when credentials are
// configured, the admin account. Idempotent: existing data is left alone.
func Run(ctx context.Context, catalogs catalog.Service, users user.Service, cfg Config) (Stats, error) {
	stats := Stats{}

	if err := ensureCatalog(ctx, catalogs, catalog.CatalogServices, "Serviços", catalog.TypeService, defaultServiceItems(), &stats); err != nil {
		return Stats{}, err
	}
	if err := ensureCatalog(ctx, catalogs, catalog.CatalogTrousseau, "Enxoval", catalog.TypeUnit, defaultTrousseauItems(), &stats); err != nil {
		return Stats{}, err
	}

	if users != nil {
		if err := ensureAdmin(ctx, users, cfg, &stats); err != nil {
			return Stats{}, err
		}
	}

	return stats, nil
}

func ensureCatalog(ctx context.Context, catalogs catalog.Service, id, name string, typ catalog.Type, items []catalog.Item, stats *Stats) error {
	_, err := catalogs.GetCatalog(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("check catalog %q: %w", id, err)
	}

	if _, err := catalogs.CreateCatalog(ctx, catalog.CreateCatalogRequest{ID: id, Name: name, Type: string(typ)}); err != nil {
		return fmt.Errorf("create catalog %q: %w", id, err)
	}
	if _, err := catalogs.SaveItems(ctx, id, items); err != nil {
		return fmt.Errorf("seed catalog %q items: %w", id, err)
	}

	stats.Catalogs++
	stats.Items += len(items)
	return nil
}

func ensureAdmin(ctx context.Context, users user.Service, cfg Config, stats *Stats) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	existing, err := users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	for _, u := range existing {
		if u.Email == cfg.AdminEmail {
			return nil
		}
	}

	if _, err := users.RegisterUser(ctx, cfg.AdminEmail, cfg.AdminPassword, "Admin", user.RoleManager); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	stats.Users++
	return nil
}
