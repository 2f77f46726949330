package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
	"github.com/dancodes91/arc-pdf-tool-sub003/shared"
)

// fakeBackend is an in-process stand-in for the price-book backend. It counts
// hits per endpoint so tests can assert which requests actually went out.
type fakeBackend struct {
	server *httptest.Server

	mu             sync.Mutex
	hits           map[string]int
	books          []models.PriceBook
	products       map[string][]models.Product
	comparison     models.ComparisonResult
	publishResult  models.PublishResult
	publishHistory []models.PublishRun
	failAll        bool
	failPublish    bool
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.hits[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) hitCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[name]
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	edition := "2026-A"
	f := &fakeBackend{
		hits: make(map[string]int),
		books: []models.PriceBook{
			{ID: "pb-1", Manufacturer: "Acme Casework", Edition: &edition, Status: models.StatusCompleted, ProductCount: 2, UploadedAt: time.Now().UTC()},
			{ID: "pb-2", Manufacturer: "Acme Casework", Status: models.StatusProcessed, ProductCount: 0, UploadedAt: time.Now().UTC()},
			{ID: "pb-3", Manufacturer: "Borealis Fixtures", Status: models.StatusProcessing, ProductCount: 0, UploadedAt: time.Now().UTC()},
		},
		products: map[string][]models.Product{
			"pb-1": {
				{ID: "p-1", SKU: "AC-100", Model: "Base Cabinet", Active: true},
				{ID: "p-2", SKU: "AC-200", Model: "Wall Cabinet", Active: true},
			},
		},
		comparison: models.ComparisonResult{
			OldEdition: "2025-B",
			NewEdition: "2026-A",
			Summary:    models.ComparisonSummary{TotalChanges: 3, NewProducts: 1, RetiredProducts: 1, PriceChanges: 1},
			Changes: []models.Change{
				{ID: "c1", ChangeType: models.ChangeTypeNew},
				{ID: "c2", ChangeType: models.ChangeTypeRetired},
				{ID: "c3", ChangeType: models.ChangeTypePrice},
			},
		},
		publishResult: models.PublishResult{
			Status:          models.PublishStatusDryRun,
			DryRun:          true,
			RowsProcessed:   100,
			RowsCreated:     10,
			RowsUpdated:     20,
			Warnings:        []string{"missing family on 3 rows"},
			DurationSeconds: 1.5,
			StartedAt:       time.Now().UTC(),
		},
		publishHistory: []models.PublishRun{
			{ID: "run-1", PriceBookID: "pb-1", Manufacturer: "Acme Casework", Status: models.PublishStatusSuccess},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pricebooks", func(w http.ResponseWriter, r *http.Request) {
		f.hit("list")
		if f.failAll {
			http.Error(w, "backend down", http.StatusInternalServerError)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.books)
	})
	mux.HandleFunc("GET /api/pricebooks/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("get")
		id := r.PathValue("id")
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.books {
			if f.books[i].ID == id {
				_ = json.NewEncoder(w).Encode(f.books[i])
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /api/pricebooks/{id}/products", func(w http.ResponseWriter, r *http.Request) {
		f.hit("products")
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.products[r.PathValue("id")])
	})
	mux.HandleFunc("DELETE /api/pricebooks/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("delete")
		id := r.PathValue("id")
		f.mu.Lock()
		defer f.mu.Unlock()
		kept := f.books[:0]
		for _, book := range f.books {
			if book.ID != id {
				kept = append(kept, book)
			}
		}
		f.books = kept
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/pricebooks/{id}/export", func(w http.ResponseWriter, r *http.Request) {
		f.hit("export")
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="pricebook.xlsx"`)
		_, _ = w.Write([]byte("xlsx-bytes"))
	})
	mux.HandleFunc("POST /api/compare", func(w http.ResponseWriter, r *http.Request) {
		f.hit("compare")
		_ = json.NewEncoder(w).Encode(f.comparison)
	})
	mux.HandleFunc("POST /api/publish", func(w http.ResponseWriter, r *http.Request) {
		f.hit("publish")
		if f.failPublish {
			http.Error(w, "baserow unavailable", http.StatusBadGateway)
			return
		}
		var req struct {
			DryRun bool `json:"dry_run"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		result := f.publishResult
		result.DryRun = req.DryRun
		if !req.DryRun {
			result.Status = models.PublishStatusSuccess
		}
		_ = json.NewEncoder(w).Encode(result)
	})
	mux.HandleFunc("GET /api/publish/history", func(w http.ResponseWriter, r *http.Request) {
		f.hit("history")
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.publishHistory)
	})
	mux.HandleFunc("GET /files/", func(w http.ResponseWriter, r *http.Request) {
		f.hit("files")
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-fake"))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestStore(t *testing.T, backend *fakeBackend) *Store {
	t.Helper()
	factory := shared.NewHTTPClientFactory(5 * time.Second)
	client := NewBackendClient(backend.server.URL, factory, 5*time.Second)
	history := NewExportHistory(filepath.Join(t.TempDir(), "export-history.json"))
	return NewStore(client, history)
}

func TestFetchPriceBooksPopulatesState(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	snap, err := store.FetchPriceBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.PriceBooks, 3)
	assert.False(t, snap.Loading[ConcernPriceBooks])
	assert.Empty(t, snap.Errors[ConcernPriceBooks])
}

func TestPriceBooksUsesHeldCollection(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	_, err := store.FetchPriceBooks(context.Background())
	require.NoError(t, err)
	_, err = store.PriceBooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, backend.hitCount("list"))
}

func TestFetchPriceBooksFailureSetsErrorBanner(t *testing.T) {
	backend := newFakeBackend(t)
	backend.failAll = true
	store := newTestStore(t, backend)

	snap, err := store.FetchPriceBooks(context.Background())
	require.Error(t, err)
	assert.NotEmpty(t, snap.Errors[ConcernPriceBooks])
	assert.False(t, snap.Loading[ConcernPriceBooks])
}

func TestFetchProductsCachesPerBook(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	first, err := store.FetchProducts(context.Background(), "pb-1")
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := store.FetchProducts(context.Background(), "pb-1")
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, backend.hitCount("products"))
}

func TestFetchProductsEmptyCollection(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	// pb-2 has product_count 0 and no item rows; the view still renders.
	items, err := store.FetchProducts(context.Background(), "pb-2")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCompareGuardBlocksIdenticalSelection(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	snap, err := store.ComparePriceBooks(context.Background(), "pb-1", "pb-2")
	require.NoError(t, err)
	require.NotNil(t, snap.Comparison)
	require.Equal(t, 1, backend.hitCount("compare"))

	// Identical ids must be rejected before any request is issued and the
	// held result must stay untouched.
	snap, err = store.ComparePriceBooks(context.Background(), "pb-1", "pb-1")
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryValidation, shared.CategoryOf(err))
	assert.Equal(t, 1, backend.hitCount("compare"))
	require.NotNil(t, snap.Comparison)
	assert.Equal(t, "2025-B", snap.Comparison.OldEdition)
	assert.Len(t, snap.Comparison.Changes, 3)
}

func TestCompareGuardBlocksMissingSelection(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	_, err := store.ComparePriceBooks(context.Background(), "", "pb-2")
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryValidation, shared.CategoryOf(err))
	assert.Equal(t, 0, backend.hitCount("compare"))
}

func TestExportRecordsHistoryEntry(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	books, err := store.PriceBooks(context.Background())
	require.NoError(t, err)

	artifact, err := store.ExportPriceBook(context.Background(), &books[0], models.ExportFormatExcel)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx-bytes"), artifact.Data)
	assert.Equal(t, "pricebook.xlsx", artifact.Filename)

	entries := store.ExportHistoryEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "pb-1", entries[0].PriceBookID)
	assert.Equal(t, "Acme Casework", entries[0].Manufacturer)
	assert.Equal(t, models.ExportFormatExcel, entries[0].Format)
	assert.Equal(t, "completed", entries[0].Status)
	assert.Equal(t, int64(len("xlsx-bytes")), entries[0].FileSize)
}

func TestExportBusyFlagClearsBetweenRuns(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	books, err := store.PriceBooks(context.Background())
	require.NoError(t, err)

	_, err = store.ExportPriceBook(context.Background(), &books[0], models.ExportFormatCSV)
	require.NoError(t, err)
	_, err = store.ExportPriceBook(context.Background(), &books[0], models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.hitCount("export"))
}

func TestPublishDryRunShowsPreview(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	snap, result, err := store.Publish(context.Background(), "pb-1", true)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, PublishDryRunShown, snap.PublishState)
	require.NotNil(t, snap.PublishPreview)
	assert.Equal(t, 70, snap.PublishPreview.RowsUnchanged)
	assert.Equal(t, 1, snap.PublishPreview.WarningCount)

	// A dry run must not touch the publish history.
	assert.Equal(t, 0, backend.hitCount("history"))
}

func TestRealPublishRefreshesHistory(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	snap, result, err := store.Publish(context.Background(), "pb-1", false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, PublishIdle, snap.PublishState)
	assert.Nil(t, snap.PublishPreview)
	assert.Equal(t, 1, backend.hitCount("history"))
	assert.Len(t, snap.PublishHistory, 1)
}

func TestPublishFailureReturnsToIdle(t *testing.T) {
	backend := newFakeBackend(t)
	backend.failPublish = true
	store := newTestStore(t, backend)

	snap, _, err := store.Publish(context.Background(), "pb-1", true)
	require.Error(t, err)
	assert.Equal(t, PublishIdle, snap.PublishState)
	assert.Nil(t, snap.PublishPreview)
	// The publish screen keeps no inline error state; the failure only lands
	// in the logs.
	assert.Empty(t, snap.Errors["publish"])
}

func TestDeleteRefreshesList(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	_, err := store.FetchPriceBooks(context.Background())
	require.NoError(t, err)

	snap, err := store.DeletePriceBook(context.Background(), "pb-3")
	require.NoError(t, err)
	assert.Len(t, snap.PriceBooks, 2)
	for _, book := range snap.PriceBooks {
		assert.NotEqual(t, "pb-3", book.ID)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	snap, err := store.FetchPriceBooks(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, snap.PriceBooks)

	// Mutating a snapshot must not leak into the store.
	snap.PriceBooks[0].Manufacturer = "mutated"
	fresh := store.Snapshot()
	assert.Equal(t, "Acme Casework", fresh.PriceBooks[0].Manufacturer)
}

func TestFetchSourceDocument(t *testing.T) {
	backend := newFakeBackend(t)
	store := newTestStore(t, backend)

	artifact, err := store.FetchSourceDocument(context.Background(), "uploads/acme-2026.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.Equal(t, []byte("%PDF-fake"), artifact.Data)
}
