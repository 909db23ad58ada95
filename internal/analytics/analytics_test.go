package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/orderdesk/internal/repository"
)

type mockStore struct {
	countsFn  func(ctx context.Context) ([]repository.StatusCount, error)
	revenueFn func(ctx context.Context, days int) ([]repository.DailyRevenue, error)
}

func (m *mockStore) CountOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return m.countsFn(ctx)
}

func (m *mockStore) ListDailyRevenue(ctx context.Context, days int) ([]repository.DailyRevenue, error) {
	return m.revenueFn(ctx, days)
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestSummarize(t *testing.T) {
	store := &mockStore{
		countsFn: func(ctx context.Context) ([]repository.StatusCount, error) {
			return []repository.StatusCount{
				{Status: "Confirmed", Count: 12},
				{Status: "Hold", Count: 3},
				{Status: "Failed", Count: 1},
			}, nil
		},
		revenueFn: func(ctx context.Context, days int) ([]repository.DailyRevenue, error) {
			assert.Equal(t, 30, days)
			return []repository.DailyRevenue{
				{Day: day(t, "2024-06-01"), Revenue: decimal.NewFromFloat(120.50)},
				{Day: day(t, "2024-06-02"), Revenue: decimal.NewFromFloat(79.50)},
			}, nil
		},
	}

	summary, err := NewService(store).Summarize(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, int64(16), summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromFloat(200.00)))
	assert.Equal(t, 30, summary.RevenueDays)
	assert.Len(t, summary.ByStatus, 3)
}

func TestSummarize_DefaultsWindow(t *testing.T) {
	store := &mockStore{
		countsFn: func(ctx context.Context) ([]repository.StatusCount, error) {
			return nil, nil
		},
		revenueFn: func(ctx context.Context, days int) ([]repository.DailyRevenue, error) {
			assert.Equal(t, 30, days)
			return nil, nil
		},
	}

	summary, err := NewService(store).Summarize(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalOrders)
}

func TestSummarize_StoreError(t *testing.T) {
	store := &mockStore{
		countsFn: func(ctx context.Context) ([]repository.StatusCount, error) {
			return nil, errors.New("db down")
		},
	}

	_, err := NewService(store).Summarize(context.Background(), 30)
	assert.Error(t, err)
}

func TestForecastRevenue_MovingAverage(t *testing.T) {
	store := &mockStore{
		revenueFn: func(ctx context.Context, days int) ([]repository.DailyRevenue, error) {
			assert.Equal(t, 7, days)
			// Only 3 of the 7 calendar days had sales.
			return []repository.DailyRevenue{
				{Day: day(t, "2024-06-01"), Revenue: decimal.NewFromInt(70)},
				{Day: day(t, "2024-06-03"), Revenue: decimal.NewFromInt(35)},
				{Day: day(t, "2024-06-05"), Revenue: decimal.NewFromInt(35)},
			}, nil
		},
	}

	forecast, err := NewService(store).ForecastRevenue(context.Background(), 7, 7)
	require.NoError(t, err)

	// 140 over a 7-day window: quiet days count as zero.
	assert.True(t, forecast.DailyAverage.Equal(decimal.NewFromInt(20)),
		"got %s", forecast.DailyAverage)
	assert.True(t, forecast.Projected.Equal(decimal.NewFromInt(140)),
		"got %s", forecast.Projected)
	assert.Equal(t, 7, forecast.WindowDays)
	assert.Equal(t, 7, forecast.HorizonDays)
	assert.Len(t, forecast.History, 3)
}

func TestForecastRevenue_Defaults(t *testing.T) {
	store := &mockStore{
		revenueFn: func(ctx context.Context, days int) ([]repository.DailyRevenue, error) {
			assert.Equal(t, 7, days)
			return nil, nil
		},
	}

	forecast, err := NewService(store).ForecastRevenue(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.True(t, forecast.Projected.IsZero())
}
