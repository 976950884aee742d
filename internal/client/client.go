// Package client implements the HTTP client for the document-analysis
// backend: batch creation (file and text), polling fetches, listing, and
// deletion. Payloads are validated into domain types before anything else
// sees them.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/harper/simscan/internal/domain"
)

// DefaultTimeout bounds each individual request. A timeout is reported the
// same way as any other transport failure.
const DefaultTimeout = 30 * time.Second

// ErrNotFound indicates the batch does not exist on the backend, usually
// because it was deleted.
var ErrNotFound = errors.New("batch not found")

// FetchError indicates a network or HTTP failure talking to the backend.
type FetchError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
// Parameters: none.
// Returns:
//   - string: description including operation and HTTP status when known.
func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
}

// Unwrap exposes the underlying cause for errors.Is matching, e.g.
// errors.Is(err, ErrNotFound).
// Parameters: none.
// Returns:
//   - error: wrapped cause, may be nil.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config holds client configuration.
type Config struct {
	BaseURL string        // e.g. http://localhost:8000/api
	Timeout time.Duration // per-request bound; DefaultTimeout when zero
}

// Client talks to the analysis backend.
type Client struct {
	http *resty.Client
}

// apiError is the backend's non-2xx response body.
type apiError struct {
	Error string `json:"error"`
}

// New creates a backend client.
// Parameters:
//   - cfg: client configuration including the API base URL.
//
// Returns:
//   - *Client: initialized client.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New()
	rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	rc.SetTimeout(timeout)
	rc.SetHeader("Accept", "application/json")

	return &Client{http: rc}
}

// Upload is one file to submit with a batch.
type Upload struct {
	Name   string
	Reader io.Reader
}

// CreateBatch uploads files and creates a new analysis batch. The backend
// responds with the freshly queued batch snapshot.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - files: files to analyze; at least one is required.
//   - name: optional batch display name.
//   - provider: detection provider; the backend defaults it when empty.
//   - opts: detection tuning options, sent as a JSON string form field.
//
// Returns:
//   - *domain.Batch: the created batch with status queued.
//   - error: *FetchError on transport/HTTP failure, *domain.NormalizationError
//     on a malformed response.
func (c *Client) CreateBatch(ctx context.Context, files []Upload, name, provider string, opts domain.Options) (*domain.Batch, error) {
	if len(files) == 0 {
		return nil, errors.New("no files provided")
	}

	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	req := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name":     name,
			"provider": provider,
			"options":  string(optsJSON),
		})
	for _, f := range files {
		req.SetFileReader("files", f.Name, f.Reader)
	}

	resp, err := req.Post("/batches/")
	if err != nil {
		return nil, &FetchError{Op: "create batch", Err: err}
	}
	if err := checkStatus("create batch", resp); err != nil {
		return nil, err
	}
	return domain.NormalizeBatch(resp.Body())
}

// CreateTextBatch creates a batch from pasted text entries. Entries are
// pre-flighted client-side with the backend's own rules so obvious mistakes
// fail before any upload happens.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: optional batch display name.
//   - entries: author/text pairs; at least two, none blank.
//   - opts: detection tuning options.
//
// Returns:
//   - *domain.Batch: the created batch with status queued.
//   - error: validation, transport, or normalization failure.
func (c *Client) CreateTextBatch(ctx context.Context, name string, entries []domain.TextEntry, opts domain.Options) (*domain.Batch, error) {
	if len(entries) < 2 {
		return nil, errors.New("at least 2 text entries are required")
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Author) == "" {
			return nil, fmt.Errorf("entry %d is missing an author name", i+1)
		}
		if strings.TrimSpace(e.Text) == "" {
			return nil, fmt.Errorf("entry %d (%s) has no text", i+1, e.Author)
		}
	}

	body := map[string]any{
		"name":    name,
		"entries": entries,
		"options": opts,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/batches/text/")
	if err != nil {
		return nil, &FetchError{Op: "create text batch", Err: err}
	}
	if err := checkStatus("create text batch", resp); err != nil {
		return nil, err
	}
	return domain.NormalizeBatch(resp.Body())
}

// GetBatch fetches the current snapshot of a batch, documents and results
// included once the backend has produced them. This is the polling fetch.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: batch identifier.
//
// Returns:
//   - *domain.Batch: validated snapshot.
//   - error: *FetchError (errors.Is ErrNotFound on 404), or
//     *domain.NormalizationError on a malformed payload.
func (c *Client) GetBatch(ctx context.Context, id string) (*domain.Batch, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/batches/" + id + "/")
	if err != nil {
		return nil, &FetchError{Op: "get batch", Err: err}
	}
	if err := checkStatus("get batch", resp); err != nil {
		return nil, err
	}
	return domain.NormalizeBatch(resp.Body())
}

// ListBatches fetches one page of the batch history.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - page: 1-based page number; pages hold 20 summaries.
//
// Returns:
//   - *domain.BatchPage: page of batch summaries.
//   - error: *FetchError on failure.
func (c *Client) ListBatches(ctx context.Context, page int) (*domain.BatchPage, error) {
	req := c.http.R().SetContext(ctx)
	if page > 1 {
		req.SetQueryParam("page", strconv.Itoa(page))
	}

	resp, err := req.Get("/batches/")
	if err != nil {
		return nil, &FetchError{Op: "list batches", Err: err}
	}
	if err := checkStatus("list batches", resp); err != nil {
		return nil, err
	}

	var result domain.BatchPage
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode batch list: %w", err)
	}
	if result.Results == nil {
		result.Results = []domain.BatchSummary{}
	}
	return &result, nil
}

// DeleteBatch removes a batch and its stored files.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: batch identifier.
//
// Returns:
//   - error: *FetchError on failure; errors.Is ErrNotFound on 404.
func (c *Client) DeleteBatch(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/batches/" + id + "/")
	if err != nil {
		return &FetchError{Op: "delete batch", Err: err}
	}
	return checkStatus("delete batch", resp)
}

// checkStatus converts a non-2xx response into a *FetchError, pulling the
// backend's error message out of the body when present.
func checkStatus(op string, resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}

	ferr := &FetchError{Op: op, StatusCode: code}
	if code == http.StatusNotFound {
		ferr.Err = ErrNotFound
	}

	var body apiError
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		ferr.Message = body.Error
	} else if len(resp.Body()) > 0 {
		ferr.Message = string(resp.Body())
	}
	return ferr
}
