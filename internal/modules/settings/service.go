package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Service defines the interface for display-settings business logic.
type Service interface {
	Get(ctx context.Context, scope string) (Document, error)
	Update(ctx context.Context, scope string, patch Document) (Document, error)
}

type service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Only overrides are stored; defaults are applied on read, so deleting
// an override (a JSON null in the patch) falls back to the default.
func (s *service) Get(ctx context.Context, scope string) (Document, error) {
	overrides, err := s.overrides(ctx, normalizeScope(scope))
	if err != nil {
		return nil, err
	}
	return Merge(Defaults(), overrides), nil
}

func (s *service) Update(ctx context.Context, scope string, patch Document) (Document, error) {
	scope = normalizeScope(scope)

	overrides, err := s.overrides(ctx, scope)
	if err != nil {
		return nil, err
	}

	merged := Merge(overrides, patch)
	doc, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.repo.Save(ctx, scope, doc); err != nil {
		return nil, fmt.Errorf("persist settings: %w", err)
	}
	return Merge(Defaults(), merged), nil
}

func (s *service) overrides(ctx context.Context, scope string) (Document, error) {
	stored, err := s.repo.Get(ctx, scope)
	if errors.Is(err, ErrNotFound) {
		return Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(stored, &doc); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return doc, nil
}

func normalizeScope(scope string) string {
	if scope == "" {
		return DefaultScope
	}
	return scope
}
