package pricing

import (
	"math"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
)

// ServiceType is the requested turnaround speed for a service order.
type ServiceType string

const (
	Normal   ServiceType = "Normal"
	Expresso ServiceType = "Expresso"
	Urgente  ServiceType = "Urgente"
)

// Multiplier returns the urgency surcharge factor. Unknown values fall
// back to 1.0 so a stale selection can never inflate a total.
func (s ServiceType) Multiplier() float64 {
	switch s {
	case Expresso:
		return 1.5
	case Urgente:
		return 2.0
	default:
		return 1.0
	}
}

// ParseServiceType normalizes a raw value, defaulting to Normal.
func ParseServiceType(raw string) ServiceType {
	switch ServiceType(raw) {
	case Expresso:
		return Expresso
	case Urgente:
		return Urgente
	default:
		return Normal
	}
}

// Quantity is the user-entered quantity pair for one cart line. Single
// price items use LP as their only dimension.
type Quantity struct {
	LP int `json:"qty_lp"`
	P  int `json:"qty_p"`
}

// IsZero reports whether the line is semantically absent.
func (q Quantity) IsZero() bool { return q.LP <= 0 && q.P <= 0 }

// Line is one priced, itemized row of an order. Unit prices are frozen
// at computation time; a later catalog edit never reaches a Line.
type Line struct {
	ItemID      string       `json:"item_id"`
	Name        string       `json:"name"`
	Kind        catalog.Kind `json:"kind"`
	UnitPriceLP float64      `json:"unit_price_lp,omitempty"`
	UnitPriceP  *float64     `json:"unit_price_p,omitempty"`
	UnitPrice   float64      `json:"unit_price,omitempty"`
	QtyLP       int          `json:"qty_lp,omitempty"`
	QtyP        int          `json:"qty_p,omitempty"`
	Qty         int          `json:"qty,omitempty"`
	IsExtra     bool         `json:"is_extra,omitempty"`
	LineTotal   float64      `json:"line_total"`
}

// Recompute derives LineTotal from the line's own frozen unit prices
// and current quantities. Used when a saved record is adjusted: the
// live catalog price is deliberately not consulted.
func (l *Line) Recompute() {
	switch l.Kind {
	case catalog.KindSinglePrice:
		l.LineTotal = l.UnitPrice * float64(l.Qty)
	default:
		total := l.UnitPriceLP * float64(l.QtyLP)
		if l.UnitPriceP != nil {
			total += *l.UnitPriceP * float64(l.QtyP)
		}
		l.LineTotal = total
	}
}

// Breakdown is the full output of one pricing computation.
type Breakdown struct {
	Items      []Line  `json:"items"`
	Subtotal   float64 `json:"subtotal"`
	Multiplier float64 `json:"multiplier"`
	Surcharge  float64 `json:"surcharge"`
	Total      float64 `json:"total"`
}

// Compute prices a cart against a catalog snapshot.
//
// Catalog items come first in catalog order, extras follow in insertion
// order. Lines whose quantities are all zero are filtered out: a saved
// record must never contain a zero-value line. The urgency multiplier
// applies only when the catalog type is urgency-eligible; for unit
// catalogs it is forced to 1.0 regardless of the selection.
//
// All arithmetic stays in full float precision; rounding happens only at
// presentation boundaries (see Round2).
func Compute(cat *catalog.Catalog, extras []catalog.Item, quantities map[string]Quantity, st ServiceType) Breakdown {
	items := make([]Line, 0)
	subtotal := 0.0

	price := func(it *catalog.Item) {
		q, ok := quantities[it.ID]
		if !ok || q.IsZero() {
			return
		}
		line := newLine(it, q)
		subtotal += line.LineTotal
		items = append(items, line)
	}

	for i := range cat.Items {
		price(&cat.Items[i])
	}
	for i := range extras {
		price(&extras[i])
	}

	multiplier := 1.0
	if cat.Type.UrgencyEligible() {
		multiplier = st.Multiplier()
	}

	surcharge := subtotal * (multiplier - 1)
	return Breakdown{
		Items:      items,
		Subtotal:   subtotal,
		Multiplier: multiplier,
		Surcharge:  surcharge,
		Total:      subtotal + surcharge,
	}
}

func newLine(it *catalog.Item, q Quantity) Line {
	qtyLP, qtyP := q.LP, q.P
	if qtyLP < 0 {
		qtyLP = 0
	}
	if qtyP < 0 {
		qtyP = 0
	}

	line := Line{
		ItemID:  it.ID,
		Name:    it.Name,
		Kind:    it.Kind,
		IsExtra: it.IsExtra,
	}

	switch it.Kind {
	case catalog.KindSinglePrice:
		line.UnitPrice = it.Price
		line.Qty = qtyLP
	default:
		line.UnitPriceLP = it.PriceLP
		if it.PriceP != nil {
			v := *it.PriceP
			line.UnitPriceP = &v
			line.QtyP = qtyP
		}
		// Without a P price the P dimension is not orderable; any
		// quantity left there contributes nothing and is dropped.
		line.QtyLP = qtyLP
	}

	line.LineTotal = it.LineTotal(qtyLP, qtyP)
	return line
}

// Round2 rounds to two decimals for display and export. The engine
// itself never rounds intermediate values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
