package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// ListCustomers returns all customers in primary-key order.
func (q *Queries) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT c_id, c_name, c_email, c_address FROM customers ORDER BY c_id`)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_customers", "failed to list customers")
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Address); err != nil {
			return nil, domain.Internal(err, "catalog.list_customers", "failed to scan customer")
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list_customers", "failed to read customers")
	}
	return customers, nil
}

// ListProducts returns all products in primary-key order.
func (q *Queries) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT p_id, p_name, p_price, p_stock, p_min_qty FROM products ORDER BY p_id`)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_products", "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var price pgtype.Numeric
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Stock, &p.MinQuantity); err != nil {
			return nil, domain.Internal(err, "catalog.list_products", "failed to scan product")
		}
		p.Price = numericToDecimal(price)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list_products", "failed to read products")
	}
	return products, nil
}

// Snapshot loads customers and products into a fresh catalog snapshot.
// Called once per validation pass; the validator never caches across calls.
func (q *Queries) Snapshot(ctx context.Context) (domain.CatalogSnapshot, error) {
	customers, err := q.ListCustomers(ctx)
	if err != nil {
		return domain.CatalogSnapshot{}, err
	}
	products, err := q.ListProducts(ctx)
	if err != nil {
		return domain.CatalogSnapshot{}, err
	}
	return domain.NewCatalogSnapshot(customers, products), nil
}

// UpdateProductStock sets a product's stock level to an absolute value.
func (q *Queries) UpdateProductStock(ctx context.Context, productID string, stock int32) error {
	tag, err := q.pool.Exec(ctx,
		`UPDATE products SET p_stock = $1 WHERE p_id = $2`, stock, productID)
	if err != nil {
		return domain.Internal(err, "catalog.update_stock", "failed to update product stock")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("catalog.update_stock", "product", productID)
	}
	return nil
}
