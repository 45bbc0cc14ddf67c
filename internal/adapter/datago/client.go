// Package datago adapts Korean government tabular statistics endpoints
// (KOSIS and the data.go.kr service family) to the pipeline's uniform row
// format. It owns request shaping, bounded retry with exponential backoff,
// response-shape validation, and the on-disk response cache.
package datago

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/hanriverdata/regionpulse/internal/source"
)

const (
	maxRetries  = 4
	baseBackoff = 2 * time.Second
	pageSize    = 1000
	maxPages    = 50
)

// SourceFormatError reports a response body that is not a homogeneous row
// array. Callers treat it as zero rows for the table, not as a fatal error.
type SourceFormatError struct {
	SourceID string
	TableID  string
	Reason   string
}

func (e *SourceFormatError) Error() string {
	return fmt.Sprintf("source %s table %s: malformed response: %s", e.SourceID, e.TableID, e.Reason)
}

// Fetcher retrieves one URL. The signature identifies the request without
// its credential, so cache keys never embed API keys.
type Fetcher interface {
	Fetch(ctx context.Context, fullURL, signature string) ([]byte, error)
}

// HTTPFetcher performs the network call with bounded retries.
type HTTPFetcher struct {
	httpClient *http.Client
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewHTTPFetcher creates a fetcher with a per-call timeout. Pass a nil clock
// to use real time.
func NewHTTPFetcher(timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *HTTPFetcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		clock:      clock,
		logger:     logger,
	}
}

// Fetch retrieves the URL, retrying transient failures with exponential
// backoff (2s, 4s, 8s, 16s). The last error surfaces after retries exhaust.
func (f *HTTPFetcher) Fetch(ctx context.Context, fullURL, signature string) ([]byte, error) {
	var lastErr error
	backoff := baseBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			f.logger.Warn("retrying request", "signature", signature, "attempt", attempt, "backoff", backoff)
			if !sleepWithClock(ctx, f.clock, backoff) {
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		body, err := f.fetchOnce(ctx, fullURL)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, lastErr
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return io.ReadAll(resp.Body)
}

// CachedFetcher decorates a Fetcher with the disk cache.
type CachedFetcher struct {
	inner  Fetcher
	cache  *Cache
	bypass bool
}

// NewCachedFetcher wraps inner with cache. With bypass set, reads skip the
// cache but fresh responses are still written back.
func NewCachedFetcher(inner Fetcher, cache *Cache, bypass bool) *CachedFetcher {
	return &CachedFetcher{inner: inner, cache: cache, bypass: bypass}
}

func (c *CachedFetcher) Fetch(ctx context.Context, fullURL, signature string) ([]byte, error) {
	key := cacheKey(signature)
	if !c.bypass {
		if body, ok, err := c.cache.Get(key); err == nil && ok {
			return body, nil
		}
	}
	body, err := c.inner.Fetch(ctx, fullURL, signature)
	if err != nil {
		return nil, err
	}
	// Best effort: a failed write degrades to refetching next run.
	c.cache.Put(key, body) //nolint:errcheck
	return body, nil
}

func cacheKey(signature string) string {
	sum := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(sum[:16])
}

// Client shapes requests for one source and maps responses to uniform rows.
type Client struct {
	src     source.Source
	apiKey  string
	fetcher Fetcher
	logger  *slog.Logger
}

// NewClient creates a client for one source. apiKey may be empty only when
// the source declares no credential requirement.
func NewClient(src source.Source, apiKey string, fetcher Fetcher, logger *slog.Logger) *Client {
	return &Client{src: src, apiKey: apiKey, fetcher: fetcher, logger: logger}
}

// FetchTable retrieves all rows of one table. Tables marked yearly get the
// whole [startYear, endYear] window; snapshot tables get the end year only.
// A malformed body returns a SourceFormatError; the caller degrades it to
// zero rows.
func (c *Client) FetchTable(ctx context.Context, spec source.TableSpec, startYear, endYear int) ([]domain.Row, error) {
	if !c.src.Paged {
		raw, err := c.fetchPage(ctx, spec, startYear, endYear, 0)
		if err != nil {
			return nil, err
		}
		return c.mapRows(spec, raw)
	}

	var rows []domain.Row
	for page := 1; page <= maxPages; page++ {
		raw, err := c.fetchPage(ctx, spec, startYear, endYear, page)
		if err != nil {
			return nil, err
		}
		mapped, err := c.mapRows(spec, raw)
		if err != nil {
			return nil, err
		}
		rows = append(rows, mapped...)
		if len(mapped) < pageSize {
			break
		}
	}
	return rows, nil
}

func (c *Client) fetchPage(ctx context.Context, spec source.TableSpec, startYear, endYear, page int) ([]map[string]any, error) {
	fullURL, signature := c.buildURL(spec, startYear, endYear, page)
	body, err := c.fetcher.Fetch(ctx, fullURL, signature)
	if err != nil {
		return nil, err
	}
	raw, reason := extractRowArray(body)
	if reason != "" {
		return nil, &SourceFormatError{SourceID: c.src.ID, TableID: spec.ID, Reason: reason}
	}
	return raw, nil
}

// buildURL assembles the request and its credential-free signature.
func (c *Client) buildURL(spec source.TableSpec, startYear, endYear, page int) (string, string) {
	params := url.Values{}
	params.Set("tblId", spec.TableID)
	for k, v := range spec.Params {
		params.Set(k, v)
	}
	if spec.Yearly {
		params.Set("startPrdDe", strconv.Itoa(startYear))
		params.Set("endPrdDe", strconv.Itoa(endYear))
	} else {
		params.Set("year", strconv.Itoa(endYear))
	}
	if page > 0 {
		params.Set("pageNo", strconv.Itoa(page))
		params.Set("numOfRows", strconv.Itoa(pageSize))
	}

	signature := c.src.BaseURL + "?" + params.Encode()

	keyParam := c.src.KeyParam
	if keyParam == "" {
		keyParam = "serviceKey"
	}
	params.Set(keyParam, c.apiKey)
	return c.src.BaseURL + "?" + params.Encode(), signature
}

// mapRows projects raw objects onto the uniform row format using the table's
// declared keys. Rows missing the region or value key are dropped here; the
// extractor counts the rest of the skips.
func (c *Client) mapRows(spec source.TableSpec, raw []map[string]any) ([]domain.Row, error) {
	rows := make([]domain.Row, 0, len(raw))
	for _, obj := range raw {
		row := domain.Row{
			RegionLabel: stringField(obj, spec.RegionKey),
			ParentLabel: stringField(obj, spec.ParentKey),
			Item:        stringField(obj, spec.ItemKey),
			Value:       stringField(obj, spec.ValueKey),
			Period:      stringField(obj, spec.PeriodKey),
		}
		if row.RegionLabel == "" || row.Value == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// extractRowArray accepts either a bare JSON array or the wrapper envelopes
// the data.go.kr family nests rows in. Returns a non-empty reason on failure.
func extractRowArray(body []byte) ([]map[string]any, string) {
	var arr []map[string]any
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, ""
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, "not a JSON array or object"
	}
	// Known envelopes: {response:{body:{items:{item:[...]}}}}, {items:[...]},
	// {row:[...]}, {data:[...]}.
	for _, path := range [][]string{
		{"response", "body", "items", "item"},
		{"items"},
		{"row"},
		{"data"},
	} {
		if arr, ok := descend(obj, path); ok {
			return arr, ""
		}
	}
	return nil, "no row array found in envelope"
}

func descend(obj map[string]any, path []string) ([]map[string]any, bool) {
	cur := any(obj)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	items, ok := cur.([]any)
	if !ok {
		return nil, false
	}
	rows := make([]map[string]any, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, m)
	}
	return rows, true
}

func stringField(obj map[string]any, key string) string {
	if key == "" {
		return ""
	}
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func sleepWithClock(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-clock.After(d):
		return true
	}
}
