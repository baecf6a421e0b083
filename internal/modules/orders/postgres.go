package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository returns the history repository backed by the
// hosted postgres database. Record lines are normalized into their own
// table and written with the record in one transaction.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Insert(ctx context.Context, rec *Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history_records
		  (id, date, catalog_type, service_type, subtotal, multiplier, total,
		   notes, author_id, author, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, rec.Date, rec.CatalogType, rec.ServiceType,
		rec.Subtotal, rec.Multiplier, rec.Total,
		rec.Notes, rec.AuthorID, rec.Author, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}

	if err := insertLines(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, `
		SELECT id, date, catalog_type, service_type, subtotal, multiplier, total,
		       notes, author_id, author, created_at, updated_at
		FROM history_records WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.Items, err = r.listLines(ctx, rec.ID.String())
	return rec, err
}

func (r *postgresRepo) List(ctx context.Context, q Query) ([]*Record, error) {
	query := `SELECT id, date, catalog_type, service_type, subtotal, multiplier, total,
	                 notes, author_id, author, created_at, updated_at
	          FROM history_records WHERE 1=1`
	query, args := appendFilters(query, q, "$")
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.Items, err = r.listLines(ctx, rec.ID.String()); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Update rewrites the record row and its lines. Quantities of existing
// lines change on adjustment, so lines are replaced wholesale.
func (r *postgresRepo) Update(ctx context.Context, rec *Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE history_records
		SET date=$1, subtotal=$2, multiplier=$3, total=$4, notes=$5, updated_at=$6
		WHERE id=$7`,
		rec.Date, rec.Subtotal, rec.Multiplier, rec.Total, rec.Notes, rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("update history record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history_record_lines WHERE record_id=$1`, rec.ID); err != nil {
		return fmt.Errorf("clear record lines: %w", err)
	}
	if err := insertLines(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_records WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteRange(ctx context.Context, q Query) (int64, error) {
	query := `DELETE FROM history_records WHERE 1=1`
	query, args := appendFilters(query, q, "$")

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete history range: %w", err)
	}
	return res.RowsAffected()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertLines(ctx context.Context, tx *sql.Tx, rec *Record) error {
	for i, l := range rec.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO history_record_lines
			  (record_id, position, item_id, name, kind, unit_price_lp, unit_price_p,
			   unit_price, qty_lp, qty_p, qty, is_extra, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			rec.ID, i, l.ItemID, l.Name, l.Kind, l.UnitPriceLP, l.UnitPriceP,
			l.UnitPrice, l.QtyLP, l.QtyP, l.Qty, l.IsExtra, l.LineTotal)
		if err != nil {
			return fmt.Errorf("insert record line: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	rec := &Record{}
	var updatedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.Date, &rec.CatalogType, &rec.ServiceType,
		&rec.Subtotal, &rec.Multiplier, &rec.Total,
		&rec.Notes, &rec.AuthorID, &rec.Author, &rec.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		rec.UpdatedAt = &t
	}
	return rec, nil
}

func (r *postgresRepo) listLines(ctx context.Context, recordID string) ([]pricing.Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, name, kind, unit_price_lp, unit_price_p, unit_price,
		       qty_lp, qty_p, qty, is_extra, line_total
		FROM history_record_lines WHERE record_id=$1 ORDER BY position ASC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("query record lines: %w", err)
	}
	defer rows.Close()

	lines := make([]pricing.Line, 0)
	for rows.Next() {
		var l pricing.Line
		var priceP sql.NullFloat64
		if err := rows.Scan(&l.ItemID, &l.Name, &l.Kind, &l.UnitPriceLP, &priceP,
			&l.UnitPrice, &l.QtyLP, &l.QtyP, &l.Qty, &l.IsExtra, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan record line: %w", err)
		}
		if priceP.Valid {
			v := priceP.Float64
			l.UnitPriceP = &v
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// appendFilters adds the optional date range and type filters using the
// given placeholder style ("$" for postgres, "?" for sqlite).
func appendFilters(query string, q Query, style string) (string, []interface{}) {
	var args []interface{}
	next := func() string {
		if style == "$" {
			return fmt.Sprintf("$%d", len(args))
		}
		return "?"
	}
	if q.StartDate != "" {
		args = append(args, q.StartDate)
		query += ` AND date >= ` + next()
	}
	if q.EndDate != "" {
		args = append(args, q.EndDate)
		query += ` AND date <= ` + next()
	}
	if q.TypeFilter != "" {
		args = append(args, q.TypeFilter)
		query += ` AND catalog_type = ` + next()
	}
	return query, args
}
