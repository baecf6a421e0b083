package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

type sqliteRepo struct{ db *sql.DB }

// NewSQLiteRepository returns the history repository backed by the local
// database file. The itemized snapshot is stored as a JSON document in
// the record row, mirroring the offline generation's document store.
func NewSQLiteRepository(db *sql.DB) Repository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) Insert(ctx context.Context, rec *Record) error {
	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("marshal record items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO history_records
		  (id, date, catalog_type, service_type, items_json, subtotal, multiplier, total,
		   notes, author_id, author, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Date, rec.CatalogType, rec.ServiceType, string(itemsJSON),
		rec.Subtotal, rec.Multiplier, rec.Total,
		rec.Notes, rec.AuthorID, rec.Author, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

func (r *sqliteRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	rec, err := scanDocRecord(r.db.QueryRowContext(ctx, `
		SELECT id, date, catalog_type, service_type, items_json, subtotal, multiplier, total,
		       notes, author_id, author, created_at, updated_at
		FROM history_records WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *sqliteRepo) List(ctx context.Context, q Query) ([]*Record, error) {
	query := `SELECT id, date, catalog_type, service_type, items_json, subtotal, multiplier, total,
	                 notes, author_id, author, created_at, updated_at
	          FROM history_records WHERE 1=1`
	query, args := appendFilters(query, q, "?")
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		rec, err := scanDocRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *sqliteRepo) Update(ctx context.Context, rec *Record) error {
	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("marshal record items: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE history_records
		SET date = ?, items_json = ?, subtotal = ?, multiplier = ?, total = ?,
		    notes = ?, updated_at = ?
		WHERE id = ?`,
		rec.Date, string(itemsJSON), rec.Subtotal, rec.Multiplier, rec.Total,
		rec.Notes, rec.UpdatedAt, rec.ID.String())
	if err != nil {
		return fmt.Errorf("update history record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepo) DeleteRange(ctx context.Context, q Query) (int64, error) {
	query := `DELETE FROM history_records WHERE 1=1`
	query, args := appendFilters(query, q, "?")

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete history range: %w", err)
	}
	return res.RowsAffected()
}

func scanDocRecord(row rowScanner) (*Record, error) {
	rec := &Record{}
	var itemsJSON string
	var updatedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.Date, &rec.CatalogType, &rec.ServiceType, &itemsJSON,
		&rec.Subtotal, &rec.Multiplier, &rec.Total,
		&rec.Notes, &rec.AuthorID, &rec.Author, &rec.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		rec.UpdatedAt = &t
	}

	rec.Items = make([]pricing.Line, 0)
	if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
		return nil, fmt.Errorf("unmarshal record items: %w", err)
	}
	return rec, nil
}
