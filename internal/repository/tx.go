package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// InsertOrderParams holds the order-row insert arguments.
type InsertOrderParams struct {
	OrderID         string
	CustomerID      string
	CustomerName    string
	CustomerAddress string
	Status          string
	PlacedAt        time.Time
	DeliveryDate    time.Time
}

// InsertOrderItemParams holds the line-item insert arguments.
type InsertOrderItemParams struct {
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	IsAvailable bool
}

// settlementTx implements Tx over a pgx transaction.
type settlementTx struct {
	tx pgx.Tx
}

func (t *settlementTx) LockProductStock(ctx context.Context, productID string) (int32, error) {
	var stock int32
	err := t.tx.QueryRow(ctx,
		`SELECT p_stock FROM products WHERE p_id = $1 FOR UPDATE`, productID).
		Scan(&stock)
	return stock, err
}

func (t *settlementTx) DecrementProductStock(ctx context.Context, productID string, qty int32) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE products SET p_stock = p_stock - $1 WHERE p_id = $2`, qty, productID)
	return err
}

func (t *settlementTx) ProductPricing(ctx context.Context, productID string) (string, decimal.Decimal, error) {
	var name string
	var price pgtype.Numeric
	err := t.tx.QueryRow(ctx,
		`SELECT p_name, p_price FROM products WHERE p_id = $1`, productID).
		Scan(&name, &price)
	if err != nil {
		return "", decimal.Zero, err
	}
	return name, numericToDecimal(price), nil
}

func (t *settlementTx) LatestOrderID(ctx context.Context, prefix string) (string, error) {
	var id string
	err := t.tx.QueryRow(ctx,
		`SELECT o_id FROM orders WHERE o_id LIKE $1 ORDER BY o_id DESC LIMIT 1`,
		prefix+"%").Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (t *settlementTx) InsertOrder(ctx context.Context, arg InsertOrderParams) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders (o_id, c_id, c_name, c_address, o_status, o_placed_time, o_delivery_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		arg.OrderID, arg.CustomerID, arg.CustomerName, arg.CustomerAddress,
		arg.Status, arg.PlacedAt, arg.DeliveryDate)
	return err
}

func (t *settlementTx) InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_items (o_id, p_id, p_name, oi_qty, oi_price, oi_total, oi_is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		arg.OrderID, arg.ProductID, arg.ProductName, arg.Quantity,
		decimalToNumeric(arg.UnitPrice), decimalToNumeric(arg.LineTotal), arg.IsAvailable)
	return err
}

func (t *settlementTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *settlementTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
