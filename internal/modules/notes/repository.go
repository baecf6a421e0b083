package notes

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no note matches the given id.
var ErrNotFound = errors.New("note not found")

// Repository abstracts note persistence. Visibility filtering lives in
// the service; repositories return every stored note.
type Repository interface {
	Insert(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)
	List(ctx context.Context) ([]*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id string) error
}
