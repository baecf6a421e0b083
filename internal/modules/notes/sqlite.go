package notes

import (
	"context"
	"database/sql"
	"errors"
)

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the notes repository for the offline
// generation. Same row shape as Postgres, positional placeholders aside.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Insert(ctx context.Context, n *Note) error {
	recipients, readBy, err := marshalLists(n)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notes (id, content, author_id, author_role, visibility, recipients, read_by, related_record_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.Content, n.AuthorID, string(n.AuthorRole), string(n.Visibility),
		recipients, readBy, nullable(n.RelatedRecordID), n.CreatedAt,
	)
	return err
}

func (r *sqliteRepository) GetByID(ctx context.Context, id string) (*Note, error) {
	query := `
		SELECT id, content, author_id, author_role, visibility, recipients, read_by, related_record_id, created_at, updated_at
		FROM notes
		WHERE id = ?
	`
	n, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

func (r *sqliteRepository) List(ctx context.Context) ([]*Note, error) {
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

func (r *sqliteRepository) Update(ctx context.Context, n *Note) error {
	recipients, readBy, err := marshalLists(n)
	if err != nil {
		return err
	}

	query := `
		UPDATE notes
		SET content = ?, visibility = ?, recipients = ?, read_by = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, n.Content, string(n.Visibility), recipients, readBy, n.UpdatedAt, n.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
