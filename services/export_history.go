package services

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
)

// ExportHistoryLimit caps how many export runs are remembered. The 11th entry
// evicts the oldest.
const ExportHistoryLimit = 10

// ExportHistory keeps the capped export-run history in a local JSON file so it
// survives restarts. This is the dashboard's only durable state; everything
// else is re-fetched from the backend.
type ExportHistory struct {
	path    string
	mutex   sync.Mutex
	entries []models.ExportHistoryEntry
}

// NewExportHistory loads history from the given path. A missing file yields an
// empty history; a corrupt file is discarded with a warning.
func NewExportHistory(path string) *ExportHistory {
	h := &ExportHistory{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithFields(logrus.Fields{
				"component": "ExportHistory",
				"path":      path,
			}).WithError(err).Warn("Failed to read export history, starting empty")
		}
		return h
	}

	if err := json.Unmarshal(data, &h.entries); err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "ExportHistory",
			"path":      path,
		}).WithError(err).Warn("Failed to parse export history, starting empty")
		h.entries = nil
	}

	if len(h.entries) > ExportHistoryLimit {
		h.entries = h.entries[:ExportHistoryLimit]
	}

	return h
}

// Record prepends a new entry, evicts beyond the cap and persists. It returns
// the resulting history, newest first.
func (h *ExportHistory) Record(entry models.ExportHistoryEntry) []models.ExportHistoryEntry {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	updated := make([]models.ExportHistoryEntry, 0, len(h.entries)+1)
	updated = append(updated, entry)
	updated = append(updated, h.entries...)
	if len(updated) > ExportHistoryLimit {
		updated = updated[:ExportHistoryLimit]
	}
	h.entries = updated

	h.persistLocked()

	return h.copyLocked()
}

// Entries returns the history, newest first.
func (h *ExportHistory) Entries() []models.ExportHistoryEntry {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.copyLocked()
}

func (h *ExportHistory) copyLocked() []models.ExportHistoryEntry {
	entries := make([]models.ExportHistoryEntry, len(h.entries))
	copy(entries, h.entries)
	return entries
}

func (h *ExportHistory) persistLocked() {
	data, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		logrus.WithField("component", "ExportHistory").WithError(err).Warn("Failed to serialize export history")
		return
	}

	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "ExportHistory",
			"path":      h.path,
		}).WithError(err).Warn("Failed to persist export history")
	}
}
