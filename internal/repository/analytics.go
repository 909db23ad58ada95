package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// StatusCount is one order-status bucket.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DailyRevenue is the summed confirmed-order revenue for one day.
type DailyRevenue struct {
	Day     time.Time       `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CountOrdersByStatus buckets all orders by their stored status.
func (q *Queries) CountOrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT o_status, COUNT(*) FROM orders GROUP BY o_status ORDER BY o_status`)
	if err != nil {
		return nil, domain.Internal(err, "analytics.count_by_status", "failed to count orders")
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, domain.Internal(err, "analytics.count_by_status", "failed to scan count")
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "analytics.count_by_status", "failed to read counts")
	}
	return counts, nil
}

// ListDailyRevenue returns per-day confirmed revenue for the trailing
// window, oldest first. Days without confirmed orders are absent.
func (q *Queries) ListDailyRevenue(ctx context.Context, days int) ([]DailyRevenue, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT date_trunc('day', o.o_placed_time) AS day,
		       COALESCE(SUM(oi.oi_total), 0) AS revenue
		FROM orders o
		JOIN order_items oi ON oi.o_id = o.o_id
		WHERE o.o_status = 'Confirmed'
		  AND o.o_placed_time >= now() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day`, days)
	if err != nil {
		return nil, domain.Internal(err, "analytics.daily_revenue", "failed to query revenue")
	}
	defer rows.Close()

	var series []DailyRevenue
	for rows.Next() {
		var d DailyRevenue
		var revenue pgtype.Numeric
		if err := rows.Scan(&d.Day, &revenue); err != nil {
			return nil, domain.Internal(err, "analytics.daily_revenue", "failed to scan revenue")
		}
		d.Revenue = numericToDecimal(revenue)
		series = append(series, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "analytics.daily_revenue", "failed to read revenue")
	}
	return series, nil
}
