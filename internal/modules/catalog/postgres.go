package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository returns the catalog repository backed by the
// hosted postgres database.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetCatalog(ctx context.Context, id string) (*Catalog, error) {
	c := &Catalog{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type FROM catalogs WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	c.Items, err = r.listItems(ctx, id)
	return c, err
}

func (r *postgresRepo) ListCatalogs(ctx context.Context) ([]*Catalog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type FROM catalogs ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query catalogs: %w", err)
	}
	defer rows.Close()

	var catalogs []*Catalog
	for rows.Next() {
		c := &Catalog{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		catalogs = append(catalogs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range catalogs {
		if c.Items, err = r.listItems(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return catalogs, nil
}

func (r *postgresRepo) CreateCatalog(ctx context.Context, c *Catalog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalogs (id, name, type) VALUES ($1,$2,$3)`,
		c.ID, c.Name, c.Type)
	if err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	return nil
}

// SaveItems replaces the full item list inside a single transaction so a
// concurrent reader never observes a half-written catalog.
func (r *postgresRepo) SaveItems(ctx context.Context, catalogID string, items []Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM catalog_items WHERE catalog_id=$1`, catalogID); err != nil {
		return fmt.Errorf("clear catalog items: %w", err)
	}

	for _, it := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_items
			  (id, catalog_id, name, kind, price_lp, price_p, price, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			it.ID, catalogID, it.Name, it.Kind,
			it.PriceLP, it.PriceP, it.Price, it.Position)
		if err != nil {
			return fmt.Errorf("insert catalog item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE catalogs SET updated_at=NOW() WHERE id=$1`, catalogID); err != nil {
		return fmt.Errorf("touch catalog: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepo) listItems(ctx context.Context, catalogID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, price_lp, price_p, price, position
		FROM catalog_items WHERE catalog_id=$1 ORDER BY position ASC`, catalogID)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		var priceP sql.NullFloat64
		if err := rows.Scan(&it.ID, &it.Name, &it.Kind,
			&it.PriceLP, &priceP, &it.Price, &it.Position); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		if priceP.Valid {
			v := priceP.Float64
			it.PriceP = &v
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
