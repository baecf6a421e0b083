package settings

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a scope has no stored document yet.
var ErrNotFound = errors.New("settings not found")

// Repository stores one serialized document per scope.
type Repository interface {
	Get(ctx context.Context, scope string) ([]byte, error)
	Save(ctx context.Context, scope string, doc []byte) error
}
