// Package validator matches a candidate order against a catalog snapshot and
// classifies every line item. It is pure computation: no I/O, no store
// access, no mutation of the snapshot.
//
// The stock check here is advisory. Settlement re-reads stock under a row
// lock and is the authoritative check; the two may legitimately disagree
// when stock changes between validation and settlement.
package validator

import (
	"fmt"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// Validate resolves the candidate order's customer and line items against
// the snapshot and produces a validation report. It never returns an error:
// malformed or absent input data becomes error items in the report.
func Validate(candidate domain.CandidateOrder, catalog domain.CatalogSnapshot) domain.ValidationReport {
	report := domain.ValidationReport{
		TotalItems: len(candidate.LineItems),
	}

	customerKnown := resolveCustomer(candidate, catalog, &report)

	for _, item := range candidate.LineItems {
		resolveLineItem(item, catalog, &report)
	}

	// Unknown customer takes precedence over every item-level outcome.
	switch {
	case !customerKnown:
		report.OverallStatus = domain.StatusUnknownCustomer
	case len(report.SuccessfulItems) == 0:
		// Includes the zero-line-item case: an order with nothing
		// parseable is a failure, not a success.
		report.OverallStatus = domain.StatusFailure
	case len(report.SuccessfulItems) < report.TotalItems:
		report.OverallStatus = domain.StatusPartialSuccess
	default:
		report.OverallStatus = domain.StatusSuccess
	}

	report.SuccessfulCount = len(report.SuccessfulItems)
	report.ErrorCount = len(report.ErrorItems)
	return report
}

// resolveCustomer resolves the candidate's customer, first by identifier,
// then by exact case-sensitive email scan. Returns false when unresolved.
func resolveCustomer(candidate domain.CandidateOrder, catalog domain.CatalogSnapshot, report *domain.ValidationReport) bool {
	if candidate.CustomerID != "" {
		if c, ok := catalog.Customer(candidate.CustomerID); ok {
			report.CustomerInfo = customerInfo(c)
			return true
		}
	}
	if candidate.CustomerEmail != "" {
		if c, ok := catalog.CustomerByEmail(candidate.CustomerEmail); ok {
			report.CustomerInfo = customerInfo(c)
			return true
		}
	}

	report.CustomerInfo = domain.CustomerInfo{Email: candidate.CustomerEmail}
	report.ErrorItems = append(report.ErrorItems, domain.ErrorItem{
		ProductRef: "*",
		Message:    "Customer not found in database.",
	})
	return false
}

// resolveLineItem classifies one line item independently of the others.
// Duplicate references to the same product are each checked against the
// original snapshot stock; there is no cross-item reservation here.
func resolveLineItem(item domain.LineItem, catalog domain.CatalogSnapshot, report *domain.ValidationReport) {
	product, ok := catalog.Product(item.ProductRef)
	if !ok {
		// Fall back to the free-text product name.
		product, ok = catalog.ProductByName(item.ProductName)
	}
	if !ok {
		report.ErrorItems = append(report.ErrorItems, domain.ErrorItem{
			ProductRef: item.ProductRef,
			Message:    fmt.Sprintf("Product '%s'/'%s' not found in database.", item.ProductRef, item.ProductName),
		})
		if names := similarProductNames(item.ProductName, catalog); len(names) > 0 {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("Consider: %s", strings.Join(names, ", ")))
		}
		return
	}

	if item.Quantity < product.MinQuantity {
		report.ErrorItems = append(report.ErrorItems, domain.ErrorItem{
			ProductRef: product.ID,
			Message: fmt.Sprintf("Ordered quantity for product %s is below the minimum order quantity of %d.",
				product.Name, product.MinQuantity),
		})
		return
	}

	if item.Quantity > product.Stock {
		report.ErrorItems = append(report.ErrorItems, domain.ErrorItem{
			ProductRef: product.ID,
			Message: fmt.Sprintf("Ordered quantity for product %s exceeds available stock (%d units left).",
				product.Name, product.Stock),
		})
		if names := inStockAlternatives(product.Name, catalog); len(names) > 0 {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("Alternatives for %s: %s", product.Name, strings.Join(names, ", ")))
		}
		return
	}

	report.SuccessfulItems = append(report.SuccessfulItems, domain.ResolvedItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    item.Quantity,
	})
}

// similarProductNames lists catalog product names containing the requested
// name as a case-insensitive substring, in catalog order.
func similarProductNames(requested string, catalog domain.CatalogSnapshot) []string {
	want := strings.ToLower(requested)
	var names []string
	for _, p := range catalog.Products() {
		if strings.Contains(strings.ToLower(p.Name), want) {
			names = append(names, p.Name)
		}
	}
	return names
}

// inStockAlternatives lists every other product with positive stock.
func inStockAlternatives(excludeName string, catalog domain.CatalogSnapshot) []string {
	var names []string
	for _, p := range catalog.Products() {
		if p.Stock > 0 && p.Name != excludeName {
			names = append(names, p.Name)
		}
	}
	return names
}

func customerInfo(c domain.Customer) domain.CustomerInfo {
	return domain.CustomerInfo{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Address: c.Address,
	}
}
