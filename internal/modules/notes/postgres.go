package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL notes repository.
// Recipient and read-by lists are small and stored as JSON documents.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, n *Note) error {
	recipients, readBy, err := marshalLists(n)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notes (id, content, author_id, author_role, visibility, recipients, read_by, related_record_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.Content, n.AuthorID, string(n.AuthorRole), string(n.Visibility),
		recipients, readBy, nullable(n.RelatedRecordID), n.CreatedAt,
	)
	return err
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Note, error) {
	query := `
		SELECT id, content, author_id, author_role, visibility, recipients, read_by, related_record_id, created_at, updated_at
		FROM notes
		WHERE id = $1
	`
	n, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

func (r *postgresRepository) List(ctx context.Context) ([]*Note, error) {
	query := `
		SELECT id, content, author_id, author_role, visibility, recipients, read_by, related_record_id, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, n *Note) error {
	recipients, readBy, err := marshalLists(n)
	if err != nil {
		return err
	}

	query := `
		UPDATE notes
		SET content = $2, visibility = $3, recipients = $4, read_by = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, n.ID, n.Content, string(n.Visibility), recipients, readBy, n.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ── row plumbing shared with the sqlite repository ──

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*Note, error) {
	n := &Note{}
	var (
		role, visibility   string
		recipients, readBy []byte
		related            sql.NullString
		updatedAt          sql.NullTime
	)
	err := row.Scan(&n.ID, &n.Content, &n.AuthorID, &role, &visibility, &recipients, &readBy, &related, &n.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	n.AuthorRole = user.Role(role)
	n.Visibility = Visibility(visibility)
	n.RelatedRecordID = related.String
	if updatedAt.Valid {
		t := updatedAt.Time
		n.UpdatedAt = &t
	}
	if len(recipients) > 0 {
		if err := json.Unmarshal(recipients, &n.Recipients); err != nil {
			return nil, fmt.Errorf("decode recipients: %w", err)
		}
	}
	if len(readBy) > 0 {
		if err := json.Unmarshal(readBy, &n.ReadBy); err != nil {
			return nil, fmt.Errorf("decode read_by: %w", err)
		}
	}
	return n, nil
}

func marshalLists(n *Note) (recipients, readBy []byte, err error) {
	recipients, err = json.Marshal(emptyIfNil(n.Recipients))
	if err != nil {
		return nil, nil, fmt.Errorf("encode recipients: %w", err)
	}
	readBy, err = json.Marshal(emptyIfNil(n.ReadBy))
	if err != nil {
		return nil, nil, fmt.Errorf("encode read_by: %w", err)
	}
	return recipients, readBy, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
