package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Customer is a catalog customer record.
type Customer struct {
	ID      string
	Name    string
	Email   string
	Address string
}

// Product is a catalog product record.
// MinQuantity is the smallest quantity that may be ordered; it defaults to 1.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Stock       int32
	MinQuantity int32
}

// CatalogSnapshot is a point-in-time, read-only copy of the customer and
// product reference data used for one validation pass. It is owned by the
// caller that loaded it and is never mutated by the validator; stock
// decrements happen only in settlement, against the live store.
//
// Lookups that fall back to scanning ("first match wins") depend on a stable
// order, so the snapshot records insertion order alongside the maps. Go maps
// iterate randomly; the load order here is the database row order.
type CatalogSnapshot struct {
	customers   map[string]Customer
	customerIDs []string
	products    map[string]Product
	productIDs  []string
}

// NewCatalogSnapshot builds a snapshot from customer and product slices,
// preserving slice order for scan-based lookups. Products with a
// non-positive minimum quantity are normalized to the default of 1.
func NewCatalogSnapshot(customers []Customer, products []Product) CatalogSnapshot {
	s := CatalogSnapshot{
		customers: make(map[string]Customer, len(customers)),
		products:  make(map[string]Product, len(products)),
	}
	for _, c := range customers {
		if _, ok := s.customers[c.ID]; ok {
			continue
		}
		s.customers[c.ID] = c
		s.customerIDs = append(s.customerIDs, c.ID)
	}
	for _, p := range products {
		if _, ok := s.products[p.ID]; ok {
			continue
		}
		if p.MinQuantity < 1 {
			p.MinQuantity = 1
		}
		s.products[p.ID] = p
		s.productIDs = append(s.productIDs, p.ID)
	}
	return s
}

// Customer looks up a customer by identifier.
func (s CatalogSnapshot) Customer(id string) (Customer, bool) {
	c, ok := s.customers[id]
	return c, ok
}

// CustomerByEmail scans customers in load order and returns the first whose
// email equals the given address exactly (case-sensitive).
func (s CatalogSnapshot) CustomerByEmail(email string) (Customer, bool) {
	for _, id := range s.customerIDs {
		if s.customers[id].Email == email {
			return s.customers[id], true
		}
	}
	return Customer{}, false
}

// Product looks up a product by identifier.
func (s CatalogSnapshot) Product(id string) (Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// ProductByName scans products in load order and returns the first whose
// name matches the given name, compared case-insensitively after trimming
// surrounding whitespace.
func (s CatalogSnapshot) ProductByName(name string) (Product, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, id := range s.productIDs {
		if strings.ToLower(strings.TrimSpace(s.products[id].Name)) == want {
			return s.products[id], true
		}
	}
	return Product{}, false
}

// Products returns all products in load order.
func (s CatalogSnapshot) Products() []Product {
	out := make([]Product, 0, len(s.productIDs))
	for _, id := range s.productIDs {
		out = append(out, s.products[id])
	}
	return out
}

// ProductCount reports the number of products in the snapshot.
func (s CatalogSnapshot) ProductCount() int {
	return len(s.productIDs)
}

// CustomerCount reports the number of customers in the snapshot.
func (s CatalogSnapshot) CustomerCount() int {
	return len(s.customerIDs)
}
