// Package csdb is the HTTP client for the CSDB backend that serves the Data
// Module catalog, previews, raw XML, applicability and media resources.
package csdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultBurst     = 5
	defaultMediaTTL  = 10 * time.Minute
	defaultMaxMedia  = 8 << 20
	maxDocumentBytes = 64 << 20
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables client-side limiting
	Burst             int
	UserAgent         string
	OnlyDMC           bool
	MediaTTL          time.Duration
	MediaMaxBytes     int64

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to a CSDB backend. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	onlyDMC   bool
	maxMedia  int64

	http    *http.Client
	limiter *rate.Limiter
	media   *gocache.Cache
	log     zerolog.Logger
}

// New creates a Client for the backend at opts.BaseURL.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.MediaTTL <= 0 {
		opts.MediaTTL = defaultMediaTTL
	}
	if opts.MediaMaxBytes <= 0 {
		opts.MediaMaxBytes = defaultMaxMedia
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		onlyDMC:   opts.OnlyDMC,
		maxMedia:  opts.MediaMaxBytes,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, opts.Burst),
		media:     gocache.New(opts.MediaTTL, 2*opts.MediaTTL),
		log:       logging.Component("csdb"),
	}, nil
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResourceURL returns the fetch URL of a media resource.
func (c *Client) ResourceURL(urn string) string {
	return preview.ResourceURL(c.baseURL, urn)
}

// ListDocuments fetches the catalog.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentSummary, error) {
	q := url.Values{"only_dmc": {strconv.FormatBool(c.onlyDMC)}}

	var resp catalogResponse
	if err := c.getJSON(ctx, "/dms", q, &resp); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return resp.Items, nil
}

// Preview fetches and decodes the preview of the Data Module at path.
func (c *Client) Preview(ctx context.Context, path string) (*preview.Model, error) {
	ctx = logging.WithDMPath(ctx, path)

	body, _, err := c.do(ctx, http.MethodGet, "/dm-preview", url.Values{"path": {path}}, nil, maxDocumentBytes)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", path, err)
	}

	m, err := preview.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", path, err)
	}
	return m, nil
}

// RawMarkup fetches the raw XML of the Data Module at path.
func (c *Client) RawMarkup(ctx context.Context, path string) (*RawMarkup, error) {
	ctx = logging.WithDMPath(ctx, path)

	var resp RawMarkup
	if err := c.getJSON(ctx, "/dm", url.Values{"path": {path}}, &resp); err != nil {
		return nil, fmt.Errorf("raw markup %s: %w", path, err)
	}
	return &resp, nil
}

// Evaluate reports whether the Data Module at path applies to labels.
func (c *Client) Evaluate(ctx context.Context, path string, labels []string) (*EvalResult, error) {
	ctx = logging.WithDMPath(ctx, path)
	q := url.Values{
		"path":     {path},
		"selected": {strings.Join(labels, ",")},
	}

	var resp EvalResult
	if err := c.getJSON(ctx, "/dm-eval", q, &resp); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	return &resp, nil
}

// Resolve computes the applicable set for labels.
func (c *Client) Resolve(ctx context.Context, labels []string) (*ResolveResult, error) {
	if labels == nil {
		labels = []string{}
	}

	payload, err := json.Marshal(resolveRequest{Selected: labels})
	if err != nil {
		return nil, err
	}

	body, _, err := c.do(ctx, http.MethodPost, "/resolve", nil, payload, maxDocumentBytes)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	var resp ResolveResult
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("resolve: decode: %w", err)
	}
	return &resp, nil
}

// Resource fetches a media resource. Successful fetches are cached by URN.
func (c *Client) Resource(ctx context.Context, urn string) (*Resource, error) {
	if v, ok := c.media.Get(urn); ok {
		return v.(*Resource), nil
	}

	body, header, err := c.do(ctx, http.MethodGet, "/icn", url.Values{"urn": {urn}}, nil, c.maxMedia)
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", urn, err)
	}

	res := &Resource{
		URN:         urn,
		ContentType: header.Get("Content-Type"),
		Data:        body,
	}
	c.media.Set(urn, res, gocache.DefaultExpiration)
	return res, nil
}

// Health probes the backend.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := c.getJSON(ctx, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	body, _, err := c.do(ctx, http.MethodGet, path, q, nil, maxDocumentBytes)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// do performs one rate-limited request and returns the body of a 2xx response.
// Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload []byte, limit int64) ([]byte, http.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	requestID := logging.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logging.WithRequestID(ctx, requestID)
	}

	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Ctx(ctx).Err(err).Str("method", method).Str("path", path).Msg("csdb request failed")
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	truncated := int64(len(body)) > limit
	if truncated {
		body = body[:limit]
	}

	c.log.Debug().Ctx(ctx).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Int("bytes", len(body)).
		Msg("csdb request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, newAPIError(resp.StatusCode, body)
	}
	if truncated {
		return nil, nil, fmt.Errorf("%w: body exceeds %d bytes", ErrTooLarge, limit)
	}

	return body, resp.Header, nil
}
