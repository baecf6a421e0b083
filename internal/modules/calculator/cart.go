package calculator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
	"github.com/lavanderia-app/lavanderia-backend/internal/pricing"
)

// Dimension names one of the two quantity columns of a cart line.
type Dimension string

const (
	DimLP Dimension = "lp"
	DimP  Dimension = "p"
)

// Cart is the mutable state of one in-progress order session.
//
// Quantities are kept per catalog, so switching the active tab never
// discards the other catalog's lines. A line whose quantities are all
// zero is removed from the map; presence and positivity stay the same
// thing. The cart is confined to one session but guarded by a mutex so
// Reset is an atomic, observable transition.
type Cart struct {
	mu            sync.Mutex
	activeCatalog string
	serviceType   pricing.ServiceType
	lines         map[string]map[string]pricing.Quantity
	extras        map[string][]catalog.Item
}

// Snapshot is an immutable view of the cart for the active catalog,
// handed to the pricing engine. Maps and slices are deep copies.
type Snapshot struct {
	CatalogID   string
	ServiceType pricing.ServiceType
	Quantities  map[string]pricing.Quantity
	Extras      []catalog.Item
}

// NewCart creates an empty cart pointing at the given catalog.
func NewCart(defaultCatalog string) *Cart {
	return &Cart{
		activeCatalog: defaultCatalog,
		serviceType:   pricing.Normal,
		lines:         make(map[string]map[string]pricing.Quantity),
		extras:        make(map[string][]catalog.Item),
	}
}

// SetActiveCatalog switches the displayed/priced catalog. Lines of the
// previous catalog are retained.
func (c *Cart) SetActiveCatalog(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeCatalog = id
}

// SetServiceType records the urgency selection. Whether it actually
// multiplies anything is decided at pricing time by the catalog type.
func (c *Cart) SetServiceType(st pricing.ServiceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.serviceType = st
}

// SetQuantity overwrites one dimension of a line. Negative values are
// floored to 0; manual entry is forgiving, never an error. When both
// dimensions reach 0 the line is dropped.
func (c *Cart) SetQuantity(itemID string, dim Dimension, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(itemID, dim, func(int) int { return value })
}

// IncrementQuantity applies a delta to one dimension with the same
// clamping as SetQuantity. Stepper controls send ±1 but any delta is
// accepted.
func (c *Cart) IncrementQuantity(itemID string, dim Dimension, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(itemID, dim, func(cur int) int { return cur + delta })
}

func (c *Cart) apply(itemID string, dim Dimension, f func(int) int) {
	catLines := c.lines[c.activeCatalog]
	if catLines == nil {
		catLines = make(map[string]pricing.Quantity)
		c.lines[c.activeCatalog] = catLines
	}

	q := catLines[itemID]
	switch dim {
	case DimP:
		q.P = f(q.P)
		if q.P < 0 {
			q.P = 0
		}
	default:
		q.LP = f(q.LP)
		if q.LP < 0 {
			q.LP = 0
		}
	}

	if q.IsZero() {
		delete(catLines, itemID)
		return
	}
	catLines[itemID] = q
}

// AddExtra validates an ad hoc item draft, tags it as an extra with a
// synthetic identifier, and appends it to the active catalog's session
// extras. The persisted catalog is not touched.
func (c *Cart) AddExtra(draft catalog.Item) (catalog.Item, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return catalog.Item{}, fmt.Errorf("extra item name is required")
	}

	draft.ID = "extra-" + uuid.NewString()
	draft.IsExtra = true
	if err := draft.Validate(); err != nil {
		return catalog.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.extras[c.activeCatalog] = append(c.extras[c.activeCatalog], draft)
	return draft, nil
}

// Extra returns a session extra by id.
func (c *Cart) Extra(id string) (catalog.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, list := range c.extras {
		for _, it := range list {
			if it.ID == id {
				return it, true
			}
		}
	}
	return catalog.Item{}, false
}

// Reset clears all lines, extras, and the urgency selection in one
// atomic transition. The active catalog selection is kept.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]map[string]pricing.Quantity)
	c.extras = make(map[string][]catalog.Item)
	c.serviceType = pricing.Normal
}

// Snapshot copies the active catalog's cart state for pricing.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	quantities := make(map[string]pricing.Quantity, len(c.lines[c.activeCatalog]))
	for id, q := range c.lines[c.activeCatalog] {
		quantities[id] = q
	}

	extras := make([]catalog.Item, len(c.extras[c.activeCatalog]))
	copy(extras, c.extras[c.activeCatalog])
	for i := range extras {
		if extras[i].PriceP != nil {
			v := *extras[i].PriceP
			extras[i].PriceP = &v
		}
	}

	return Snapshot{
		CatalogID:   c.activeCatalog,
		ServiceType: c.serviceType,
		Quantities:  quantities,
		Extras:      extras,
	}
}
