package stats

import (
	"context"
	"sort"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/orders"
)

// RecordSource is the slice of the orders service the aggregator needs.
type RecordSource interface {
	List(ctx context.Context, q orders.Query) ([]*orders.Record, error)
}

// DayRevenue is one point of the per-day series, dates ascending.
type DayRevenue struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// TypeSlice is the share of one catalog type in the summary window.
type TypeSlice struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Summary aggregates the history records matching a query.
type Summary struct {
	Count   int                  `json:"count"`
	Revenue float64              `json:"revenue"`
	PerDay  []DayRevenue         `json:"per_day"`
	PerType map[string]TypeSlice `json:"per_type"`
}

// Service defines the interface for dashboard aggregation.
type Service interface {
	Summarize(ctx context.Context, q orders.Query) (*Summary, error)
}

type service struct {
	records RecordSource
}

// NewService creates a new stats service over the given record source.
func NewService(records RecordSource) Service {
	return &service{records: records}
}

func (s *service) Summarize(ctx context.Context, q orders.Query) (*Summary, error) {
	records, err := s.records.List(ctx, q)
	if err != nil {
		return nil, err
	}

	summary := &Summary{PerType: make(map[string]TypeSlice)}
	perDay := make(map[string]DayRevenue)

	for _, rec := range records {
		summary.Count++
		summary.Revenue += rec.Total

		day := perDay[rec.Date]
		day.Date = rec.Date
		day.Count++
		day.Revenue += rec.Total
		perDay[rec.Date] = day

		slice := summary.PerType[rec.CatalogType]
		slice.Count++
		slice.Revenue += rec.Total
		summary.PerType[rec.CatalogType] = slice
	}

	summary.PerDay = make([]DayRevenue, 0, len(perDay))
	for _, day := range perDay {
		summary.PerDay = append(summary.PerDay, day)
	}
	sort.Slice(summary.PerDay, func(i, j int) bool {
		return summary.PerDay[i].Date < summary.PerDay[j].Date
	})

	return summary, nil
}
