package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
	"github.com/dancodes91/arc-pdf-tool-sub003/shared"
)

const backendServiceName = "BackendClient"

// Artifact is a downloadable file produced by the backend, streamed through
// the dashboard untouched.
type Artifact struct {
	Data        []byte
	ContentType string
	Filename    string
}

// BackendClient is the typed REST client for the price-book backend. All
// business logic lives behind these endpoints; the client only shuttles JSON
// and file bytes.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

// NewBackendClient creates a backend client rooted at baseURL using a pooled
// HTTP client from the factory.
func NewBackendClient(baseURL string, factory *shared.HTTPClientFactory, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  factory.CreateClient(timeout),
	}
}

// ListPriceBooks fetches the full price-book collection.
func (c *BackendClient) ListPriceBooks(ctx context.Context) ([]models.PriceBook, error) {
	var books []models.PriceBook
	if err := c.getJSON(ctx, "/api/pricebooks", "list_pricebooks", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetPriceBook fetches one price book's metadata. A missing book returns
// (nil, nil).
func (c *BackendClient) GetPriceBook(ctx context.Context, id string) (*models.PriceBook, error) {
	var book models.PriceBook
	err := c.getJSON(ctx, "/api/pricebooks/"+url.PathEscape(id), "get_pricebook", &book)
	if err != nil {
		if shared.CategoryOf(err) == shared.ErrorCategoryNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// ListProducts fetches the item collection of the given price book.
func (c *BackendClient) ListProducts(ctx context.Context, bookID string) ([]models.Product, error) {
	var products []models.Product
	path := "/api/pricebooks/" + url.PathEscape(bookID) + "/products"
	if err := c.getJSON(ctx, path, "list_products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// DeletePriceBook removes a price book by id.
func (c *BackendClient) DeletePriceBook(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/pricebooks/"+url.PathEscape(id), nil)
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryNetwork, "REQUEST_BUILD_FAILED", backendServiceName, "delete_pricebook", false)
	}

	resp, err := c.do(req, "delete_pricebook")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// ExportPriceBook requests an export artifact for a book in the given format.
func (c *BackendClient) ExportPriceBook(ctx context.Context, id, format string) (*Artifact, error) {
	path := fmt.Sprintf("%s/api/pricebooks/%s/export?format=%s", c.baseURL, url.PathEscape(id), url.QueryEscape(format))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "REQUEST_BUILD_FAILED", backendServiceName, "export_pricebook", false)
	}

	resp, err := c.do(req, "export_pricebook")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "RESPONSE_READ_FAILED", backendServiceName, "export_pricebook", true)
	}

	return &Artifact{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
	}, nil
}

// ComparePriceBooks asks the backend to diff two price book versions.
func (c *BackendClient) ComparePriceBooks(ctx context.Context, oldID, newID string) (*models.ComparisonResult, error) {
	body := map[string]string{"old_id": oldID, "new_id": newID}
	var result models.ComparisonResult
	if err := c.postJSON(ctx, "/api/compare", "compare_pricebooks", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PublishToBaserow runs a publish against the backend, dry or real.
func (c *BackendClient) PublishToBaserow(ctx context.Context, bookID string, dryRun bool) (*models.PublishResult, error) {
	body := map[string]interface{}{"pricebook_id": bookID, "dry_run": dryRun}
	var result models.PublishResult
	if err := c.postJSON(ctx, "/api/publish", "publish_pricebook", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchPublishHistory fetches the collection of prior publish runs.
func (c *BackendClient) FetchPublishHistory(ctx context.Context) ([]models.PublishRun, error) {
	var runs []models.PublishRun
	if err := c.getJSON(ctx, "/api/publish/history", "fetch_publish_history", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// FetchSourceDocument streams the original source document referenced by a
// stored relative path.
func (c *BackendClient) FetchSourceDocument(ctx context.Context, relPath string) (*Artifact, error) {
	cleaned := strings.TrimLeft(relPath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+cleaned, nil)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "REQUEST_BUILD_FAILED", backendServiceName, "fetch_source_document", false)
	}

	resp, err := c.do(req, "fetch_source_document")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "RESPONSE_READ_FAILED", backendServiceName, "fetch_source_document", true)
	}

	return &Artifact{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
	}, nil
}

func (c *BackendClient) getJSON(ctx context.Context, path, operation string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryNetwork, "REQUEST_BUILD_FAILED", backendServiceName, operation, false)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryBackend, "RESPONSE_DECODE_FAILED", backendServiceName, operation, false)
	}
	return nil
}

func (c *BackendClient) postJSON(ctx context.Context, path, operation string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryValidation, "REQUEST_ENCODE_FAILED", backendServiceName, operation, false)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryNetwork, "REQUEST_BUILD_FAILED", backendServiceName, operation, false)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryBackend, "RESPONSE_DECODE_FAILED", backendServiceName, operation, false)
	}
	return nil
}

// do executes the request and maps transport and status failures to service
// errors. The caller owns the response body on success.
func (c *BackendClient) do(req *http.Request, operation string) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "BACKEND_UNREACHABLE", backendServiceName, operation, true)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}

	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	category := shared.ErrorCategoryBackend
	if resp.StatusCode == http.StatusNotFound {
		category = shared.ErrorCategoryNotFound
	}

	return nil, shared.NewServiceError(
		category,
		fmt.Sprintf("HTTP_%d", resp.StatusCode),
		fmt.Sprintf("backend returned %d for %s: %s", resp.StatusCode, operation, strings.TrimSpace(string(snippet))),
		backendServiceName,
		operation,
		resp.StatusCode >= http.StatusInternalServerError,
		nil,
	)
}

func filenameFromDisposition(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
