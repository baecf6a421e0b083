package settings

import (
	"context"
	"database/sql"
	"errors"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL settings repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context, scope string) ([]byte, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM settings WHERE scope = $1`, scope).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *postgresRepository) Save(ctx context.Context, scope string, doc []byte) error {
	query := `
		INSERT INTO settings (scope, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (scope) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, scope, doc)
	return err
}
