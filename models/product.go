package models

import "time"

// Product is a single catalog item belonging to one price book. It is a
// display record fetched by the owning book's id; there is no back-reference.
type Product struct {
	ID            string     `json:"id"`
	SKU           string     `json:"sku"`
	Model         string     `json:"model"`
	Description   string     `json:"description"`
	BasePrice     *float64   `json:"base_price"`
	EffectiveDate *time.Time `json:"effective_date"`
	Active        bool       `json:"active"`
	Family        *string    `json:"family"`
}

// CountFamilies returns the number of distinct non-empty family labels in the
// given item collection.
func CountFamilies(products []Product) int {
	seen := make(map[string]bool)
	for i := range products {
		if products[i].Family != nil && *products[i].Family != "" {
			seen[*products[i].Family] = true
		}
	}
	return len(seen)
}
