// Package client is the read-only fetcher for the admin backend's query
// surface. It validates collection names against the shared whitelist
// before touching the network, and distinguishes endpoint-absent (retry
// against the alternate path prefix) from server and transport failures.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/mygymhq/adminboard/internal/explorer/collections"
	"github.com/mygymhq/adminboard/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ErrCollectionNotAllowed is returned before any network call when the
// requested collection is not on the shared whitelist.
var ErrCollectionNotAllowed = errors.New("collection not allowed")

// FetchError is a non-2xx response from the backend.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed with status %d", e.StatusCode)
}

// NotFound reports whether the endpoint was absent, the only failure class
// that triggers the alternate-prefix retry.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// NetworkError is an unreachable backend (transport-level failure).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CollectionPage is one page of raw documents. Docs are ordered most
// recently created first (descending creation-derived id). Total is a
// store-reported estimate and may be stale relative to Docs.
type CollectionPage struct {
	Name     string           `json:"name"`
	Page     int              `json:"page"`
	PageSize int              `json:"limit"`
	Total    int              `json:"total"`
	Docs     []map[string]any `json:"docs"`
}

// DashboardStats mirrors the backend's KPI card counts; each one is an
// approximation.
type DashboardStats struct {
	TotalActivities        int `json:"totalActivities"`
	TotalDailyStepsRecords int `json:"totalDailyStepsRecords"`
	TotalExercises         int `json:"totalExercises"`
	ActiveChallenges       int `json:"activeChallenges"`
	OpenCarts              int `json:"openCarts"`
	TotalConversations     int `json:"totalConversations"`
}

type CollectionMeta struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	// the backend may or may not mount its routes under /api; on a 404
	// from the primary prefix a request is retried once against the
	// alternate one, and the working prefix is remembered. The loader
	// fetches through one shared Client concurrently, hence the mutex.
	mu        sync.Mutex
	apiPrefix string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		apiPrefix:  "/api",
	}
}

// FetchPage requests one page of raw documents for a whitelisted
// collection. Page and size must be positive; the store enforces the
// actual skip/limit bounds.
func (c *Client) FetchPage(ctx context.Context, name string, page, size int) (*CollectionPage, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "explorer.client.fetchPage")
	defer span.End()
	span.SetAttributes(attribute.String("collection", name))

	if !collections.Allowed(name) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotAllowed, name)
	}
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("invalid page params: page %d, size %d", page, size)
	}

	path := fmt.Sprintf("/collections/%s?page=%d&limit=%d", name, page, size)
	var collPage CollectionPage
	if err := c.getJSON(ctx, path, &collPage); err != nil {
		return nil, err
	}

	return &collPage, nil
}

// FetchDashboard returns the KPI card counts.
func (c *Client) FetchDashboard(ctx context.Context) (*DashboardStats, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "explorer.client.fetchDashboard")
	defer span.End()

	var stats DashboardStats
	if err := c.getJSON(ctx, "/dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchMeta returns per-collection document counts across the store.
func (c *Client) FetchMeta(ctx context.Context) ([]CollectionMeta, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "explorer.client.fetchMeta")
	defer span.End()

	var meta []CollectionMeta
	if err := c.getJSON(ctx, "/meta", &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	prefix := c.currentPrefix()
	err := c.tryGetJSON(ctx, prefix+path, dest)

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.NotFound() {
		// endpoint absent under the current prefix: retry once against
		// the alternate one. Other error classes are never retried.
		alternate := alternatePrefix(prefix)
		log.Debugf("explorer client: %s%s not found, retrying with prefix [%s]", prefix, path, alternate)
		if retryErr := c.tryGetJSON(ctx, alternate+path, dest); retryErr == nil {
			c.rememberPrefix(alternate)
			return nil
		}
		return err
	}

	return err
}

func (c *Client) currentPrefix() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiPrefix
}

func (c *Client) rememberPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiPrefix = prefix
}

func alternatePrefix(prefix string) string {
	if prefix == "" {
		return "/api"
	}
	return ""
}

func (c *Client) tryGetJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FetchError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
