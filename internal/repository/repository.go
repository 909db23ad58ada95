// Package repository is the PostgreSQL persistence layer. It exposes plain
// query methods on Queries plus the Tx interface used by settlement; all
// money columns are NUMERIC and surface as decimal.Decimal.
package repository

import (
	"context"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// Queries provides database access backed by a pgx connection pool.
type Queries struct {
	pool *pgxpool.Pool
}

// New creates a Queries instance over the given pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// CatalogStore is the read surface used to build catalog snapshots.
type CatalogStore interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	Snapshot(ctx context.Context) (domain.CatalogSnapshot, error)
}

// TxStarter begins settlement transactions. Settlement depends on this
// interface rather than on Queries so tests can substitute a fake store.
type TxStarter interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is the transactional surface settlement runs against: row-locking
// stock reads, conditional stock updates, and order/item inserts. Rollback
// after Commit is a no-op, so callers may defer Rollback unconditionally.
type Tx interface {
	// LockProductStock reads current stock under FOR UPDATE.
	// Returns pgx.ErrNoRows if the product does not exist.
	LockProductStock(ctx context.Context, productID string) (int32, error)

	// DecrementProductStock subtracts qty from the product's stock.
	DecrementProductStock(ctx context.Context, productID string, qty int32) error

	// ProductPricing returns the current catalog name and unit price.
	ProductPricing(ctx context.Context, productID string) (string, decimal.Decimal, error)

	// LatestOrderID returns the lexicographically greatest order id with
	// the given prefix, or "" when none exists.
	LatestOrderID(ctx context.Context, prefix string) (string, error)

	InsertOrder(ctx context.Context, arg InsertOrderParams) error
	InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

var (
	_ CatalogStore = (*Queries)(nil)
	_ TxStarter    = (*Queries)(nil)
	_ Tx           = (*settlementTx)(nil)
)

// Begin opens a serializable transaction for settlement. Serializable
// isolation closes the scan-then-increment race in order id generation;
// settlement retries on serialization failure.
func (q *Queries) Begin(ctx context.Context) (Tx, error) {
	tx, err := q.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	return &settlementTx{tx: tx}, nil
}

// numericToDecimal converts a scanned NUMERIC value.
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// decimalToNumeric converts a decimal for a NUMERIC bind parameter.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   new(big.Int).Set(d.Coefficient()),
		Exp:   d.Exponent(),
		Valid: true,
	}
}
