package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/orders"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
)

// ErrForbidden is returned when an account touches a note it may not.
var ErrForbidden = fmt.Errorf("note not accessible")

// CreateNoteRequest carries the author-supplied fields of a new note.
type CreateNoteRequest struct {
	Content         string     `json:"content"`
	Visibility      Visibility `json:"visibility"`
	Recipients      []string   `json:"recipients"`
	RelatedRecordID string     `json:"related_record_id"`
}

// Service defines the interface for note-related business logic.
type Service interface {
	Create(ctx context.Context, authorID string, role user.Role, req CreateNoteRequest) (*Note, error)
	ListFor(ctx context.Context, userID string) ([]*Note, error)
	Get(ctx context.Context, userID, id string) (*Note, error)
	UpdateContent(ctx context.Context, userID, id, content string) (*Note, error)
	MarkRead(ctx context.Context, userID, id string) (*Note, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo    Repository
	records orders.Repository
	clock   orders.Clock
}

// NewService creates a new notes service. The orders repository is used
// to verify related-record links; clock may be nil for the system clock.
func NewService(repo Repository, records orders.Repository, clock orders.Clock) Service {
	if clock == nil {
		clock = orders.SystemClock()
	}
	return &service{repo: repo, records: records, clock: clock}
}

func (s *service) Create(ctx context.Context, authorID string, role user.Role, req CreateNoteRequest) (*Note, error) {
	n := &Note{
		ID:              uuid.New(),
		Content:         strings.TrimSpace(req.Content),
		AuthorID:        authorID,
		AuthorRole:      role,
		Visibility:      req.Visibility,
		Recipients:      req.Recipients,
		RelatedRecordID: req.RelatedRecordID,
		CreatedAt:       s.clock.Now().UTC(),
	}
	if n.Visibility == "" {
		n.Visibility = VisibilityPublic
	}
	if err := n.validate(); err != nil {
		return nil, err
	}

	if n.RelatedRecordID != "" && s.records != nil {
		if _, err := s.records.GetByID(ctx, n.RelatedRecordID); err != nil {
			return nil, fmt.Errorf("related record: %w", err)
		}
	}

	if err := s.repo.Insert(ctx, n); err != nil {
		return nil, fmt.Errorf("persist note: %w", err)
	}
	return n, nil
}

func (s *service) ListFor(ctx context.Context, userID string) ([]*Note, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*Note, 0, len(all))
	for _, n := range all {
		if n.VisibleTo(userID) {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

func (s *service) Get(ctx context.Context, userID, id string) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.VisibleTo(userID) {
		return nil, ErrForbidden
	}
	return n, nil
}

func (s *service) UpdateContent(ctx context.Context, userID, id, content string) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Only the author edits; the offline generation's implicit user owns
	// every note it stored.
	if userID != "" && n.AuthorID != userID {
		return nil, ErrForbidden
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("note content is required")
	}

	n.Content = content
	now := s.clock.Now().UTC()
	n.UpdatedAt = &now

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("persist note: %w", err)
	}
	return n, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id string) (*Note, error) {
	if userID == "" {
		return s.repo.GetByID(ctx, id)
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.VisibleTo(userID) {
		return nil, ErrForbidden
	}
	if n.MarkedReadBy(userID) {
		return n, nil
	}

	n.ReadBy = append(n.ReadBy, userID)
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("persist note: %w", err)
	}
	return n, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if userID != "" && n.AuthorID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
