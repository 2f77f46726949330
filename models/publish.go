package models

import "time"

// Publish run status values reported by the backend.
const (
	PublishStatusSuccess = "success"
	PublishStatusFailed  = "failed"
	PublishStatusRunning = "running"
	PublishStatusDryRun  = "dry-run"
)

// PublishRun is one prior publish attempt as returned by the publish history
// endpoint.
type PublishRun struct {
	ID              string    `json:"id"`
	PriceBookID     string    `json:"pricebook_id"`
	Manufacturer    string    `json:"manufacturer"`
	StartedAt       time.Time `json:"started_at"`
	Status          string    `json:"status"`
	DurationSeconds float64   `json:"duration_seconds"`
	RowsCreated     int       `json:"rows_created"`
	RowsUpdated     int       `json:"rows_updated"`
	RowsUnchanged   int       `json:"rows_unchanged"`
	WarningCount    int       `json:"warning_count"`
	LogsRef         *string   `json:"logs_ref"`
}

// PublishResult is the backend's response to a publish request, dry or real.
type PublishResult struct {
	Status          string    `json:"status"`
	DryRun          bool      `json:"dry_run"`
	RowsProcessed   int       `json:"rows_processed"`
	RowsCreated     int       `json:"rows_created"`
	RowsUpdated     int       `json:"rows_updated"`
	Warnings        []string  `json:"warnings"`
	DurationSeconds float64   `json:"duration_seconds"`
	StartedAt       time.Time `json:"started_at"`
}

// RowsUnchanged derives the unchanged-row count as processed minus created
// minus updated. The backend is assumed to keep these three figures
// consistent; no validation happens here.
func (r *PublishResult) RowsUnchanged() int {
	return r.RowsProcessed - r.RowsCreated - r.RowsUpdated
}

// PublishPreview is the dry-run preview panel payload.
type PublishPreview struct {
	PriceBookID   string   `json:"pricebook_id"`
	RowsCreated   int      `json:"rows_created"`
	RowsUpdated   int      `json:"rows_updated"`
	RowsUnchanged int      `json:"rows_unchanged"`
	WarningCount  int      `json:"warning_count"`
	Warnings      []string `json:"warnings"`
}

// PreviewFromResult builds the dry-run preview panel from a publish result.
func PreviewFromResult(bookID string, result *PublishResult) *PublishPreview {
	return &PublishPreview{
		PriceBookID:   bookID,
		RowsCreated:   result.RowsCreated,
		RowsUpdated:   result.RowsUpdated,
		RowsUnchanged: result.RowsUnchanged(),
		WarningCount:  len(result.Warnings),
		Warnings:      result.Warnings,
	}
}
