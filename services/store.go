package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
	"github.com/dancodes91/arc-pdf-tool-sub003/shared"
)

const storeServiceName = "DashboardStore"

// Concern keys for loading and error flags. Each view reads only its own key.
const (
	ConcernPriceBooks     = "pricebooks"
	ConcernProducts       = "products"
	ConcernComparison     = "comparison"
	ConcernPublishHistory = "publish_history"
)

// PublishState tracks where the publish flow currently is.
type PublishState string

const (
	PublishIdle           PublishState = "idle"
	PublishDryRunInFlight PublishState = "dry-run-in-flight"
	PublishDryRunShown    PublishState = "dry-run-shown"
	PublishInFlight       PublishState = "publish-in-flight"
)

// Store is the dashboard's single state container. It holds the last-fetched
// results plus loading and error flags, and every operation goes through the
// backend client. Handlers receive an injected *Store and read state only
// through Snapshot copies; nothing in this package is a package-level global.
type Store struct {
	client  *BackendClient
	history *ExportHistory
	metrics *shared.ServiceMetrics

	mutex          sync.RWMutex
	priceBooks     []models.PriceBook
	products       map[string][]models.Product
	comparison     *models.ComparisonResult
	publishHistory []models.PublishRun
	publishState   PublishState
	publishPreview *models.PublishPreview
	loading        map[string]bool
	errors         map[string]string
	exportBusy     map[string]bool
}

// Snapshot is an immutable copy of the store's held state.
type Snapshot struct {
	PriceBooks     []models.PriceBook
	Products       map[string][]models.Product
	Comparison     *models.ComparisonResult
	PublishHistory []models.PublishRun
	PublishState   PublishState
	PublishPreview *models.PublishPreview
	Loading        map[string]bool
	Errors         map[string]string
}

// NewStore creates the dashboard store around a backend client and the local
// export history.
func NewStore(client *BackendClient, history *ExportHistory) *Store {
	return &Store{
		client:       client,
		history:      history,
		metrics:      shared.NewServiceMetrics(storeServiceName),
		products:     make(map[string][]models.Product),
		publishState: PublishIdle,
		loading:      make(map[string]bool),
		errors:       make(map[string]string),
		exportBusy:   make(map[string]bool),
	}
}

// Metrics exposes the per-operation request metrics.
func (s *Store) Metrics() *shared.ServiceMetrics {
	return s.metrics
}

// ExportHistoryEntries returns the capped export history, newest first.
func (s *Store) ExportHistoryEntries() []models.ExportHistoryEntry {
	return s.history.Entries()
}

// Snapshot returns a copy of the held state. Mutating the returned value never
// affects the store.
func (s *Store) Snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		PriceBooks:     append([]models.PriceBook(nil), s.priceBooks...),
		Products:       make(map[string][]models.Product, len(s.products)),
		PublishHistory: append([]models.PublishRun(nil), s.publishHistory...),
		PublishState:   s.publishState,
		Loading:        make(map[string]bool, len(s.loading)),
		Errors:         make(map[string]string, len(s.errors)),
	}
	for id, items := range s.products {
		snap.Products[id] = append([]models.Product(nil), items...)
	}
	if s.comparison != nil {
		comparison := *s.comparison
		comparison.Changes = append([]models.Change(nil), s.comparison.Changes...)
		snap.Comparison = &comparison
	}
	if s.publishPreview != nil {
		preview := *s.publishPreview
		preview.Warnings = append([]string(nil), s.publishPreview.Warnings...)
		snap.PublishPreview = &preview
	}
	for k, v := range s.loading {
		snap.Loading[k] = v
	}
	for k, v := range s.errors {
		snap.Errors[k] = v
	}
	return snap
}

func (s *Store) beginOperation(concern string) {
	s.mutex.Lock()
	s.loading[concern] = true
	s.mutex.Unlock()
}

func (s *Store) finishOperation(concern string, err error) {
	s.mutex.Lock()
	s.loading[concern] = false
	if err != nil {
		s.errors[concern] = err.Error()
	} else {
		delete(s.errors, concern)
	}
	s.mutex.Unlock()
}

// FetchPriceBooks requests the full price-book collection and caches it.
func (s *Store) FetchPriceBooks(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	s.beginOperation(ConcernPriceBooks)

	books, err := s.client.ListPriceBooks(ctx)
	s.metrics.RecordRequest("fetch_pricebooks", err == nil, time.Since(start))
	if err != nil {
		s.finishOperation(ConcernPriceBooks, err)
		logrus.WithField("component", storeServiceName).WithError(err).Error("Failed to fetch price books")
		return s.Snapshot(), err
	}

	s.mutex.Lock()
	s.priceBooks = books
	s.mutex.Unlock()
	s.finishOperation(ConcernPriceBooks, nil)

	return s.Snapshot(), nil
}

// PriceBooks returns the held collection, fetching it first if nothing has
// been loaded yet.
func (s *Store) PriceBooks(ctx context.Context) ([]models.PriceBook, error) {
	s.mutex.RLock()
	cached := s.priceBooks
	s.mutex.RUnlock()
	if cached != nil {
		return append([]models.PriceBook(nil), cached...), nil
	}

	snap, err := s.FetchPriceBooks(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PriceBooks, nil
}

// GetPriceBook returns one book's record, preferring the held collection and
// falling back to a backend fetch. A missing book returns (nil, nil).
func (s *Store) GetPriceBook(ctx context.Context, id string) (*models.PriceBook, error) {
	s.mutex.RLock()
	for i := range s.priceBooks {
		if s.priceBooks[i].ID == id {
			book := s.priceBooks[i]
			s.mutex.RUnlock()
			return &book, nil
		}
	}
	s.mutex.RUnlock()

	start := time.Now()
	book, err := s.client.GetPriceBook(ctx, id)
	s.metrics.RecordRequest("get_pricebook", err == nil, time.Since(start))
	return book, err
}

// FetchProducts requests a book's item collection and caches it per book id.
func (s *Store) FetchProducts(ctx context.Context, bookID string) ([]models.Product, error) {
	s.mutex.RLock()
	if cached, ok := s.products[bookID]; ok {
		s.mutex.RUnlock()
		return append([]models.Product(nil), cached...), nil
	}
	s.mutex.RUnlock()

	start := time.Now()
	s.beginOperation(ConcernProducts)

	products, err := s.client.ListProducts(ctx, bookID)
	s.metrics.RecordRequest("fetch_products", err == nil, time.Since(start))
	if err != nil {
		s.finishOperation(ConcernProducts, err)
		logrus.WithFields(logrus.Fields{
			"component":    storeServiceName,
			"pricebook_id": bookID,
		}).WithError(err).Error("Failed to fetch products")
		return nil, err
	}
	if products == nil {
		// A book with no items still renders zeroed panels.
		products = []models.Product{}
	}

	s.mutex.Lock()
	s.products[bookID] = products
	s.mutex.Unlock()
	s.finishOperation(ConcernProducts, nil)

	return append([]models.Product(nil), products...), nil
}

// DeletePriceBook removes a book and refreshes the held collection.
func (s *Store) DeletePriceBook(ctx context.Context, id string) (Snapshot, error) {
	start := time.Now()
	err := s.client.DeletePriceBook(ctx, id)
	s.metrics.RecordRequest("delete_pricebook", err == nil, time.Since(start))
	if err != nil {
		s.finishOperation(ConcernPriceBooks, err)
		logrus.WithFields(logrus.Fields{
			"component":    storeServiceName,
			"pricebook_id": id,
		}).WithError(err).Error("Failed to delete price book")
		return s.Snapshot(), err
	}

	s.mutex.Lock()
	delete(s.products, id)
	s.mutex.Unlock()

	return s.FetchPriceBooks(ctx)
}

// ComparePriceBooks validates the id pair and requests a comparison. Identical
// or missing ids are rejected before any request is issued and the held
// comparison result stays untouched.
func (s *Store) ComparePriceBooks(ctx context.Context, oldID, newID string) (Snapshot, error) {
	if oldID == "" || newID == "" {
		return s.Snapshot(), shared.NewServiceError(
			shared.ErrorCategoryValidation, "MISSING_SELECTION",
			"select both an old and a new price book", storeServiceName, "compare_pricebooks", false, nil)
	}
	if oldID == newID {
		return s.Snapshot(), shared.NewServiceError(
			shared.ErrorCategoryValidation, "IDENTICAL_SELECTION",
			"old and new price books must differ", storeServiceName, "compare_pricebooks", false, nil)
	}

	start := time.Now()
	s.beginOperation(ConcernComparison)

	result, err := s.client.ComparePriceBooks(ctx, oldID, newID)
	s.metrics.RecordRequest("compare_pricebooks", err == nil, time.Since(start))
	if err != nil {
		s.finishOperation(ConcernComparison, err)
		logrus.WithFields(logrus.Fields{
			"component": storeServiceName,
			"old_id":    oldID,
			"new_id":    newID,
		}).WithError(err).Error("Comparison request failed")
		return s.Snapshot(), err
	}

	s.mutex.Lock()
	s.comparison = result
	s.mutex.Unlock()
	s.finishOperation(ConcernComparison, nil)

	return s.Snapshot(), nil
}

// ExportPriceBook triggers one export for a book+format pair. Each pair keeps
// its own busy flag so several formats can run concurrently for the same book;
// a duplicate trigger while one is in flight is rejected. A successful export
// is prepended to the capped local history.
func (s *Store) ExportPriceBook(ctx context.Context, book *models.PriceBook, format string) (*Artifact, error) {
	busyKey := fmt.Sprintf("%s:%s", book.ID, format)

	s.mutex.Lock()
	if s.exportBusy[busyKey] {
		s.mutex.Unlock()
		return nil, shared.NewServiceError(
			shared.ErrorCategoryConflict, "EXPORT_IN_PROGRESS",
			fmt.Sprintf("export of %s as %s is already running", book.ID, format),
			storeServiceName, "export_pricebook", false, nil)
	}
	s.exportBusy[busyKey] = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		delete(s.exportBusy, busyKey)
		s.mutex.Unlock()
	}()

	start := time.Now()
	artifact, err := s.client.ExportPriceBook(ctx, book.ID, format)
	s.metrics.RecordRequest("export_pricebook", err == nil, time.Since(start))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component":    storeServiceName,
			"pricebook_id": book.ID,
			"format":       format,
		}).WithError(err).Error("Export request failed")
		return nil, err
	}

	s.history.Record(models.ExportHistoryEntry{
		ID:           uuid.New().String(),
		PriceBookID:  book.ID,
		Manufacturer: book.Manufacturer,
		Format:       format,
		Timestamp:    time.Now().UTC(),
		Status:       "completed",
		FileSize:     int64(len(artifact.Data)),
	})

	return artifact, nil
}

// Publish runs the publish flow for one book. A dry run parks the result in
// the preview panel; a real run refreshes publish history instead of keeping
// local state. Failures drop back to idle with only a log line, matching the
// rest of the publish screen's behavior.
func (s *Store) Publish(ctx context.Context, bookID string, dryRun bool) (Snapshot, *models.PublishResult, error) {
	s.mutex.Lock()
	if dryRun {
		s.publishState = PublishDryRunInFlight
	} else {
		s.publishState = PublishInFlight
	}
	s.mutex.Unlock()

	start := time.Now()
	result, err := s.client.PublishToBaserow(ctx, bookID, dryRun)
	s.metrics.RecordRequest("publish_pricebook", err == nil, time.Since(start))
	if err != nil {
		s.mutex.Lock()
		s.publishState = PublishIdle
		s.publishPreview = nil
		s.mutex.Unlock()
		logrus.WithFields(logrus.Fields{
			"component":    storeServiceName,
			"pricebook_id": bookID,
			"dry_run":      dryRun,
		}).WithError(err).Warn("Publish request failed")
		return s.Snapshot(), nil, err
	}

	if dryRun {
		s.mutex.Lock()
		s.publishState = PublishDryRunShown
		s.publishPreview = models.PreviewFromResult(bookID, result)
		s.mutex.Unlock()
		return s.Snapshot(), result, nil
	}

	s.mutex.Lock()
	s.publishState = PublishIdle
	s.publishPreview = nil
	s.mutex.Unlock()

	// A real run is reflected through the refreshed history, not local state.
	if _, err := s.FetchPublishHistory(ctx); err != nil {
		logrus.WithField("component", storeServiceName).WithError(err).Warn("Publish history refresh failed")
	}

	return s.Snapshot(), result, nil
}

// FetchPublishHistory requests the collection of prior publish runs.
func (s *Store) FetchPublishHistory(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	s.beginOperation(ConcernPublishHistory)

	runs, err := s.client.FetchPublishHistory(ctx)
	s.metrics.RecordRequest("fetch_publish_history", err == nil, time.Since(start))
	if err != nil {
		s.finishOperation(ConcernPublishHistory, err)
		logrus.WithField("component", storeServiceName).WithError(err).Error("Failed to fetch publish history")
		return s.Snapshot(), err
	}

	s.mutex.Lock()
	s.publishHistory = runs
	s.mutex.Unlock()
	s.finishOperation(ConcernPublishHistory, nil)

	return s.Snapshot(), nil
}

// FetchSourceDocument streams a stored source document through the dashboard.
func (s *Store) FetchSourceDocument(ctx context.Context, relPath string) (*Artifact, error) {
	start := time.Now()
	artifact, err := s.client.FetchSourceDocument(ctx, relPath)
	s.metrics.RecordRequest("fetch_source_document", err == nil, time.Since(start))
	return artifact, err
}
