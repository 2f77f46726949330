package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
)

// ChangeFilter is one of the diff review screen's fixed filter categories.
type ChangeFilter string

const (
	FilterAll           ChangeFilter = "all"
	FilterAdded         ChangeFilter = "added"
	FilterRemoved       ChangeFilter = "removed"
	FilterChanged       ChangeFilter = "changed"
	FilterRenamed       ChangeFilter = "renamed"
	FilterLowConfidence ChangeFilter = "low_confidence"
)

// ChangeFilters lists every category in display order.
var ChangeFilters = []ChangeFilter{
	FilterAll, FilterAdded, FilterRemoved, FilterChanged, FilterRenamed, FilterLowConfidence,
}

// filterMatchTypes maps each category to the change type it matches exactly.
// The renamed and low_confidence categories have no data source in the
// comparison backend today, so their types are never emitted and they always
// come back empty. That stays an open question for whoever owns the diff.
var filterMatchTypes = map[ChangeFilter]string{
	FilterAdded:         models.ChangeTypeNew,
	FilterRemoved:       models.ChangeTypeRetired,
	FilterChanged:       models.ChangeTypePrice,
	FilterRenamed:       "renamed",
	FilterLowConfidence: "low_confidence",
}

// IsValidFilter reports whether the given value is a known filter category.
func IsValidFilter(filter ChangeFilter) bool {
	if filter == FilterAll {
		return true
	}
	_, ok := filterMatchTypes[filter]
	return ok
}

// FilterChanges returns the subset of changes whose type matches the active
// filter's rule. The all category passes everything through.
func FilterChanges(changes []models.Change, filter ChangeFilter) []models.Change {
	matchType, ok := filterMatchTypes[filter]
	if !ok {
		return append([]models.Change(nil), changes...)
	}

	filtered := make([]models.Change, 0, len(changes))
	for _, change := range changes {
		if change.ChangeType == matchType {
			filtered = append(filtered, change)
		}
	}
	return filtered
}

// FilterCounts returns per-category counts over the given change list.
func FilterCounts(changes []models.Change) map[ChangeFilter]int {
	counts := make(map[ChangeFilter]int, len(ChangeFilters))
	for _, filter := range ChangeFilters {
		counts[filter] = len(FilterChanges(changes, filter))
	}
	return counts
}

// ReviewSelection is the diff review screen's selection set, keyed by change
// id.
type ReviewSelection struct {
	mutex    sync.Mutex
	selected map[string]bool
}

// NewReviewSelection creates an empty selection set.
func NewReviewSelection() *ReviewSelection {
	return &ReviewSelection{selected: make(map[string]bool)}
}

// Select marks the given change ids as selected.
func (r *ReviewSelection) Select(changeIDs ...string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, id := range changeIDs {
		r.selected[id] = true
	}
}

// Deselect removes the given change ids from the selection.
func (r *ReviewSelection) Deselect(changeIDs ...string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, id := range changeIDs {
		delete(r.selected, id)
	}
}

// SelectAll replaces the selection with every change in the list.
func (r *ReviewSelection) SelectAll(changes []models.Change) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.selected = make(map[string]bool, len(changes))
	for _, change := range changes {
		r.selected[change.ID] = true
	}
}

// Clear empties the selection.
func (r *ReviewSelection) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.selected = make(map[string]bool)
}

// Selected returns the selected change ids.
func (r *ReviewSelection) Selected() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	ids := make([]string, 0, len(r.selected))
	for id := range r.selected {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the selection size.
func (r *ReviewSelection) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.selected)
}

// Approve is intentionally a stub. The backend exposes no approval endpoint
// yet, so until that contract exists this only logs the selection and reports
// how many changes would have been approved. No request is issued.
func (r *ReviewSelection) Approve() int {
	ids := r.Selected()
	logrus.WithFields(logrus.Fields{
		"component":      "ReviewSelection",
		"selected_count": len(ids),
		"change_ids":     ids,
	}).Info("Approve requested; no backend contract defined, nothing sent")
	return len(ids)
}
