package models

// Change types emitted by the backend comparison. The backend uses both short
// and long spellings for additions and retirements.
const (
	ChangeTypeNew            = "new"
	ChangeTypeNewProduct     = "new_product"
	ChangeTypeRetired        = "retired"
	ChangeTypeRetiredProduct = "retired_product"
	ChangeTypePrice          = "price_change"
	ChangeTypeDescription    = "description_change"
	ChangeTypeStatus         = "status_change"
	ChangeTypeFuzzyMatch     = "fuzzy_match"
)

// ComparisonSummary holds the server-computed counts shown above the change
// table.
type ComparisonSummary struct {
	TotalChanges    int `json:"total_changes"`
	NewProducts     int `json:"new_products"`
	RetiredProducts int `json:"retired_products"`
	PriceChanges    int `json:"price_changes"`
}

// ComparisonResult is the backend's diff between two price book versions. The
// dashboard only renders it; the diff itself is computed server-side.
type ComparisonResult struct {
	OldEdition string            `json:"old_edition"`
	NewEdition string            `json:"new_edition"`
	Summary    ComparisonSummary `json:"summary"`
	Changes    []Change          `json:"changes"`
}

// Change is one atomic difference between two price book versions.
type Change struct {
	ID          string   `json:"id"`
	ChangeType  string   `json:"change_type"`
	ProductID   *string  `json:"product_id"`
	OldValue    *string  `json:"old_value"`
	NewValue    *string  `json:"new_value"`
	ChangePct   *float64 `json:"change_pct"`
	Description string   `json:"description"`
}
