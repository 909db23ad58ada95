package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// Order is a persisted order row with its line items and computed total.
type Order struct {
	ID              string          `json:"o_id"`
	CustomerID      string          `json:"c_id"`
	CustomerName    string          `json:"c_name"`
	CustomerAddress string          `json:"c_address"`
	Status          string          `json:"o_status"`
	PlacedAt        time.Time       `json:"o_placed_time"`
	DeliveryDate    time.Time       `json:"o_delivery_date"`
	Items           []OrderItem     `json:"items"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

// OrderItem is a persisted line-item row. Name and price are snapshots
// taken at settlement time; later catalog edits do not rewrite history.
type OrderItem struct {
	OrderID     string          `json:"o_id"`
	ProductID   string          `json:"p_id"`
	ProductName string          `json:"p_name"`
	Quantity    int32           `json:"oi_qty"`
	UnitPrice   decimal.Decimal `json:"oi_price"`
	LineTotal   decimal.Decimal `json:"oi_total"`
	IsAvailable bool            `json:"oi_is_available"`
}

// OrderSummary is the list-view projection of an order.
type OrderSummary struct {
	ID           string          `json:"o_id"`
	CustomerName string          `json:"c_name"`
	PlacedAt     time.Time       `json:"o_placed_time"`
	Status       string          `json:"o_status"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// ListOrders returns all orders, newest first, with totals summed from
// their line items.
func (q *Queries) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT o.o_id, o.c_name, o.o_placed_time, o.o_status,
		       COALESCE(SUM(oi.oi_total), 0) AS total_value
		FROM orders o
		LEFT JOIN order_items oi ON oi.o_id = o.o_id
		GROUP BY o.o_id, o.c_name, o.o_placed_time, o.o_status
		ORDER BY o.o_placed_time DESC`)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var orders []OrderSummary
	for rows.Next() {
		var o OrderSummary
		var total pgtype.Numeric
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.PlacedAt, &o.Status, &total); err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order")
		}
		o.TotalValue = numericToDecimal(total)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to read orders")
	}
	return orders, nil
}

// GetOrder returns one order with its line items, or ENOTFOUND.
func (q *Queries) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := q.pool.QueryRow(ctx, `
		SELECT o_id, c_id, c_name, c_address, o_status, o_placed_time, o_delivery_date
		FROM orders WHERE o_id = $1`, orderID).
		Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerAddress,
			&o.Status, &o.PlacedAt, &o.DeliveryDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.get", "order", orderID)
		}
		return nil, domain.Internal(err, "order.get", "failed to get order")
	}

	rows, err := q.pool.Query(ctx, `
		SELECT o_id, p_id, p_name, oi_qty, oi_price, oi_total, oi_is_available
		FROM order_items WHERE o_id = $1 ORDER BY oi_id`, orderID)
	if err != nil {
		return nil, domain.Internal(err, "order.get", "failed to get order items")
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		var price, total pgtype.Numeric
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &price, &total, &item.IsAvailable); err != nil {
			return nil, domain.Internal(err, "order.get", "failed to scan order item")
		}
		item.UnitPrice = numericToDecimal(price)
		item.LineTotal = numericToDecimal(total)
		o.Items = append(o.Items, item)
		o.TotalValue = o.TotalValue.Add(item.LineTotal)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.get", "failed to read order items")
	}
	return &o, nil
}
