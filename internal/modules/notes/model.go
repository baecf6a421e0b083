package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
)

// Visibility controls who can read a note.
type Visibility string

const (
	// VisibilityPublic notes are readable by every account.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate notes are readable only by their author.
	VisibilityPrivate Visibility = "private"
	// VisibilityTargeted notes are readable by the author and the
	// accounts listed in Recipients.
	VisibilityTargeted Visibility = "targeted"
)

// Note is a short message pinned to the workspace, optionally tied to a
// history record.
type Note struct {
	ID              uuid.UUID  `json:"id"`
	Content         string     `json:"content"`
	AuthorID        string     `json:"author_id"`
	AuthorRole      user.Role  `json:"author_role"`
	Visibility      Visibility `json:"visibility"`
	Recipients      []string   `json:"recipients,omitempty"`
	ReadBy          []string   `json:"read_by,omitempty"`
	RelatedRecordID string     `json:"related_record_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// VisibleTo reports whether the given account may read the note. An
// empty userID means the offline generation's implicit single user, who
// sees everything.
func (n *Note) VisibleTo(userID string) bool {
	if userID == "" || n.AuthorID == userID {
		return true
	}
	switch n.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityTargeted:
		for _, r := range n.Recipients {
			if r == userID {
				return true
			}
		}
	}
	return false
}

// MarkedReadBy reports whether the account has already read the note.
func (n *Note) MarkedReadBy(userID string) bool {
	for _, r := range n.ReadBy {
		if r == userID {
			return true
		}
	}
	return false
}

func (n *Note) validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("note content is required")
	}
	switch n.Visibility {
	case VisibilityPublic, VisibilityPrivate:
	case VisibilityTargeted:
		if len(n.Recipients) == 0 {
			return fmt.Errorf("targeted note needs at least one recipient")
		}
	default:
		return fmt.Errorf("unknown visibility %q", n.Visibility)
	}
	return nil
}
