// Package extract turns free-text order emails into candidate orders. The
// model output is untrusted: anything that does not parse degrades to an
// empty or partial candidate order rather than an error, so downstream
// validation always has something structured to work with.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// extractionSchema is the JSON shape the model is asked to produce.
const extractionSchema = `{
  "customer_id": "string or null",
  "customer_email": "string or null",
  "products": [
    {"product_id": "string", "product_name": "string", "quantity": "integer"}
  ]
}`

// payload mirrors the schema with forgiving field types; model output
// frequently quotes numbers.
type payload struct {
	CustomerID    string        `json:"customer_id"`
	CustomerEmail string        `json:"customer_email"`
	Products      []payloadItem `json:"products"`
}

type payloadItem struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    json.Number `json:"quantity"`
}

// ParseCandidate converts raw model output into a candidate order. Code
// fences are stripped, unparseable JSON yields an empty candidate, and
// items with malformed quantities are dropped rather than failing the
// whole extraction.
func ParseCandidate(raw string) domain.CandidateOrder {
	content := stripCodeFence(strings.TrimSpace(raw))

	var p payload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return domain.CandidateOrder{}
	}

	candidate := domain.CandidateOrder{
		CustomerID:    p.CustomerID,
		CustomerEmail: p.CustomerEmail,
	}
	for _, item := range p.Products {
		qty := int64(0)
		if item.Quantity != "" {
			n, err := item.Quantity.Int64()
			if err != nil {
				continue
			}
			qty = n
		}
		if qty < 0 {
			qty = 0
		}
		candidate.LineItems = append(candidate.LineItems, domain.LineItem{
			ProductRef:  item.ProductID,
			ProductName: item.ProductName,
			Quantity:    int32(qty),
		})
	}
	return candidate
}

// stripCodeFence removes a surrounding Markdown code fence, with or without
// a language tag.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
