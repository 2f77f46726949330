package models

import "time"

// Processing status values reported by the backend. Any value outside this set
// is displayed as failed.
const (
	StatusCompleted  = "completed"
	StatusProcessed  = "processed"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
)

// Display badges derived from a price book's processing status.
const (
	BadgeCompleted  = "Completed"
	BadgeProcessing = "Processing"
	BadgeFailed     = "Failed"
)

type PriceBook struct {
	ID            string     `json:"id"`
	Manufacturer  string     `json:"manufacturer"`
	Edition       *string    `json:"edition"`
	EffectiveDate *time.Time `json:"effective_date"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	Status        string     `json:"status"`
	ProductCount  int        `json:"product_count"`
	SourceFile    *string    `json:"source_file"`
}

// StatusBadge classifies this book's raw backend status into a display badge.
func (b *PriceBook) StatusBadge() string {
	return StatusBadge(b.Status)
}

// IsExportable reports whether the book is eligible for export and publish.
// Only fully processed books qualify.
func (b *PriceBook) IsExportable() bool {
	return b.StatusBadge() == BadgeCompleted
}

// StatusBadge maps a raw backend status string to one of the three display
// badges. completed and processed both count as Completed; processing maps to
// Processing; everything else, including statuses this dashboard has never
// seen, is treated as Failed.
func StatusBadge(status string) string {
	switch status {
	case StatusCompleted, StatusProcessed:
		return BadgeCompleted
	case StatusProcessing:
		return BadgeProcessing
	default:
		return BadgeFailed
	}
}

// PriceBookStats backs the aggregate stat cards on the list view. It is a pure
// reduction over the fetched collection, recomputed on every request.
type PriceBookStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
	TotalItems int `json:"total_items"`
}

// ComputeStats aggregates badge counts and the item-count sum over the given
// collection.
func ComputeStats(books []PriceBook) PriceBookStats {
	stats := PriceBookStats{Total: len(books)}
	for i := range books {
		switch books[i].StatusBadge() {
		case BadgeCompleted:
			stats.Completed++
		case BadgeProcessing:
			stats.Processing++
		default:
			stats.Failed++
		}
		stats.TotalItems += books[i].ProductCount
	}
	return stats
}
