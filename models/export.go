package models

import "time"

// Export formats accepted by the backend export endpoint.
const (
	ExportFormatExcel = "excel"
	ExportFormatCSV   = "csv"
	ExportFormatJSON  = "json"
)

// ExportFormats lists every supported format in display order.
var ExportFormats = []string{ExportFormatExcel, ExportFormatCSV, ExportFormatJSON}

// IsValidExportFormat reports whether the given format is one the backend
// accepts.
func IsValidExportFormat(format string) bool {
	switch format {
	case ExportFormatExcel, ExportFormatCSV, ExportFormatJSON:
		return true
	}
	return false
}

// ExportHistoryEntry records one completed export trigger. This is the only
// entity whose lifecycle the dashboard owns; everything else belongs to the
// backend. Timestamps round-trip through JSON as RFC 3339 strings.
type ExportHistoryEntry struct {
	ID           string    `json:"id"`
	PriceBookID  string    `json:"pricebook_id"`
	Manufacturer string    `json:"manufacturer"`
	Format       string    `json:"format"`
	Timestamp    time.Time `json:"timestamp"`
	Status       string    `json:"status"`
	FileSize     int64     `json:"file_size"`
}
