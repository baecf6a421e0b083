package settings

import (
	"context"
	"database/sql"
	"errors"
)

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the settings repository for the offline
// generation.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Get(ctx context.Context, scope string) ([]byte, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM settings WHERE scope = ?`, scope).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *sqliteRepository) Save(ctx context.Context, scope string, doc []byte) error {
	query := `
		INSERT INTO settings (scope, doc, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (scope) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, scope, doc)
	return err
}
