package catalog

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two pricing shapes an item can have. It is
// resolved once at catalog load; pricing never infers the shape from
// which fields happen to be set.
type Kind string

const (
	// KindDualPrice items carry an always-present LP price and an
	// optional P price, each with its own quantity dimension.
	KindDualPrice Kind = "DUAL_PRICE"
	// KindSinglePrice items carry one per-unit price and one quantity.
	KindSinglePrice Kind = "SINGLE_PRICE"
)

// Type classifies a catalog. Service catalogs are eligible for the
// urgency multiplier; unit catalogs (trousseau/linens) never are.
type Type string

const (
	TypeService Type = "service"
	TypeUnit    Type = "unit"
)

// UrgencyEligible reports whether the urgency multiplier may apply to
// orders priced from a catalog of this type.
func (t Type) UrgencyEligible() bool { return t == TypeService }

// Built-in catalog identifiers. Arbitrary additional catalogs may be
// created alongside them.
const (
	CatalogServices  = "services"
	CatalogTrousseau = "trousseau"
)

// Item is a single priced entry of a catalog.
//
// Dual-price items use PriceLP (required) and PriceP (optional); single
// price items use Price. An item created ad hoc during an order session
// carries IsExtra until it is promoted into the catalog.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	PriceLP  float64  `json:"price_lp,omitempty"`
	PriceP   *float64 `json:"price_p,omitempty"`
	Price    float64  `json:"price,omitempty"`
	IsExtra  bool     `json:"is_extra,omitempty"`
	Position int      `json:"-"`
}

// Validate checks the item invariants: non-empty name, non-negative
// prices, and a recognized kind.
func (it *Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("item name is required")
	}
	switch it.Kind {
	case KindDualPrice:
		if it.PriceLP < 0 {
			return fmt.Errorf("item %q: price_lp must be >= 0", it.Name)
		}
		if it.PriceP != nil && *it.PriceP < 0 {
			return fmt.Errorf("item %q: price_p must be >= 0", it.Name)
		}
	case KindSinglePrice:
		if it.Price < 0 {
			return fmt.Errorf("item %q: price must be >= 0", it.Name)
		}
	default:
		return fmt.Errorf("item %q: unknown kind %q", it.Name, it.Kind)
	}
	return nil
}

// LineTotal prices the item for the given quantities.
//
// Dual-price rule: priceLP*qtyLP + priceP*qtyP, where an absent PriceP
// contributes 0 regardless of qtyP. Single-price rule: price*qty, read
// from the LP dimension. Negative quantities contribute 0.
func (it *Item) LineTotal(qtyLP, qtyP int) float64 {
	if qtyLP < 0 {
		qtyLP = 0
	}
	if qtyP < 0 {
		qtyP = 0
	}
	switch it.Kind {
	case KindDualPrice:
		total := it.PriceLP * float64(qtyLP)
		if it.PriceP != nil {
			total += *it.PriceP * float64(qtyP)
		}
		return total
	case KindSinglePrice:
		return it.Price * float64(qtyLP)
	default:
		return 0
	}
}

// Catalog is an ordered collection of priced items.
type Catalog struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Items []Item `json:"items"`
}

// Item returns the catalog item with the given id, or nil.
func (c *Catalog) Item(id string) *Item {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}
