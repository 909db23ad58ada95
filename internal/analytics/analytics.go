// Package analytics computes business metrics and a short-horizon revenue
// forecast from settled orders. The forecast is a simple moving average;
// anything heavier belongs in a dedicated statistics stack, not here.
package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/orderdesk/internal/repository"
)

// Store is the read surface analytics needs.
type Store interface {
	CountOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error)
	ListDailyRevenue(ctx context.Context, days int) ([]repository.DailyRevenue, error)
}

// Summary aggregates order counts and revenue.
type Summary struct {
	TotalOrders  int64                    `json:"total_orders"`
	ByStatus     []repository.StatusCount `json:"by_status"`
	TotalRevenue decimal.Decimal          `json:"total_revenue"`
	RevenueDays  int                      `json:"revenue_days"`
}

// Forecast is a short-horizon revenue projection.
type Forecast struct {
	History      []repository.DailyRevenue `json:"history"`
	WindowDays   int                       `json:"window_days"`
	HorizonDays  int                       `json:"horizon_days"`
	DailyAverage decimal.Decimal           `json:"daily_average"`
	Projected    decimal.Decimal           `json:"projected_revenue"`
}

// Service computes analytics over the order store.
type Service struct {
	store Store
}

// NewService creates an analytics service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Summarize reports order counts by status and confirmed revenue over the
// trailing window.
func (s *Service) Summarize(ctx context.Context, days int) (*Summary, error) {
	if days <= 0 {
		days = 30
	}

	counts, err := s.store.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.store.ListDailyRevenue(ctx, days)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		ByStatus:    counts,
		RevenueDays: days,
	}
	for _, c := range counts {
		summary.TotalOrders += c.Count
	}
	for _, d := range revenue {
		summary.TotalRevenue = summary.TotalRevenue.Add(d.Revenue)
	}
	return summary, nil
}

// ForecastRevenue projects revenue over the horizon using a moving average
// of the trailing window. Days without sales count as zero, so the average
// reflects the calendar window rather than only active days.
func (s *Service) ForecastRevenue(ctx context.Context, windowDays, horizonDays int) (*Forecast, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	if horizonDays <= 0 {
		horizonDays = 7
	}

	history, err := s.store.ListDailyRevenue(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, d := range history {
		total = total.Add(d.Revenue)
	}
	average := total.DivRound(decimal.NewFromInt(int64(windowDays)), 4)

	return &Forecast{
		History:      history,
		WindowDays:   windowDays,
		HorizonDays:  horizonDays,
		DailyAverage: average,
		Projected:    average.Mul(decimal.NewFromInt(int64(horizonDays))),
	}, nil
}
