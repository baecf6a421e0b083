package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

// Record is one saved order in the history ledger. It is an immutable
// snapshot: prices and totals are frozen at save time and only change
// through an explicit line adjustment, which restamps UpdatedAt.
//
// Date is the user-facing order date and may be edited independently of
// CreatedAt, which records when the row was written.
type Record struct {
	ID          uuid.UUID           `json:"id"`
	Date        string              `json:"date"` // YYYY-MM-DD
	CatalogType string              `json:"type"`
	ServiceType pricing.ServiceType `json:"service_type"`
	Items       []pricing.Line      `json:"items"`
	Subtotal    float64             `json:"subtotal"`
	Multiplier  float64             `json:"multiplier"`
	Total       float64             `json:"total"`
	Notes       string              `json:"notes,omitempty"`
	AuthorID    string              `json:"author_id,omitempty"`
	Author      string              `json:"author,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at,omitempty"`
}

// AdjustLineRequest carries replacement quantities for one record line.
type AdjustLineRequest struct {
	QtyLP int `json:"qty_lp"`
	QtyP  int `json:"qty_p"`
	Qty   int `json:"qty"`
}

// Query filters history reads and range deletes. Dates are inclusive
// YYYY-MM-DD bounds; empty fields match everything.
type Query struct {
	StartDate  string
	EndDate    string
	TypeFilter string
}
