package orders

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a history record does not exist.
var ErrNotFound = errors.New("history record not found")

// Repository defines the interface for history record storage.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, q Query) ([]*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	// DeleteRange removes every record matching the query and reports
	// how many were deleted.
	DeleteRange(ctx context.Context, q Query) (int64, error)
}
