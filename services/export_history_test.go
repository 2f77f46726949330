package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
)

func testEntry(n int) models.ExportHistoryEntry {
	return models.ExportHistoryEntry{
		ID:           uuid.New().String(),
		PriceBookID:  fmt.Sprintf("pb-%d", n),
		Manufacturer: fmt.Sprintf("Maker %d", n),
		Format:       models.ExportFormatExcel,
		Timestamp:    time.Date(2026, 8, 25, 12, 0, n, 0, time.UTC),
		Status:       "completed",
		FileSize:     int64(1000 + n),
	}
}

func TestExportHistoryCapEvictsOldest(t *testing.T) {
	history := NewExportHistory(filepath.Join(t.TempDir(), "export-history.json"))

	for n := 1; n <= 11; n++ {
		history.Record(testEntry(n))
	}

	entries := history.Entries()
	require.Len(t, entries, ExportHistoryLimit)

	// Newest first; the very first entry (pb-1) was evicted by the 11th push.
	assert.Equal(t, "pb-11", entries[0].PriceBookID)
	assert.Equal(t, "pb-2", entries[len(entries)-1].PriceBookID)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("pb-%d", 11-i), entry.PriceBookID)
	}
}

func TestExportHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export-history.json")

	first := NewExportHistory(path)
	recorded := testEntry(7)
	first.Record(recorded)

	// A fresh load from the same file must see the identical entry.
	reloaded := NewExportHistory(path)
	entries := reloaded.Entries()
	require.Len(t, entries, 1)

	assert.Equal(t, recorded.ID, entries[0].ID)
	assert.Equal(t, recorded.Format, entries[0].Format)
	assert.Equal(t, recorded.Status, entries[0].Status)
	assert.Equal(t, recorded.Manufacturer, entries[0].Manufacturer)
	assert.True(t, recorded.Timestamp.Equal(entries[0].Timestamp))
	assert.Equal(t, recorded.FileSize, entries[0].FileSize)
}

func TestExportHistoryMissingFileStartsEmpty(t *testing.T) {
	history := NewExportHistory(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Empty(t, history.Entries())
}

func TestExportHistoryCapProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("history never grows past the cap and stays newest-first", prop.ForAll(
		func(pushes int) bool {
			history := NewExportHistory(filepath.Join(t.TempDir(), "history.json"))
			for n := 0; n < pushes; n++ {
				history.Record(testEntry(n))
			}

			entries := history.Entries()
			if pushes <= ExportHistoryLimit {
				if len(entries) != pushes {
					return false
				}
			} else if len(entries) != ExportHistoryLimit {
				return false
			}

			for i := 1; i < len(entries); i++ {
				if entries[i].Timestamp.After(entries[i-1].Timestamp) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}
