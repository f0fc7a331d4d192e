package books

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/time/rate"

	"bookstats/internal/domain"
)

const (
	// DefaultBaseURL is the Google Books API endpoint
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	// DefaultMaxResults is the result cap sent with every request
	DefaultMaxResults = 40

	maxBodyBytes  = 8 << 20
	maxErrorBytes = 512
)

// volumesResponse mirrors the JSON shape of GET /volumes
type volumesResponse struct {
	Items []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	Description   string   `json:"description,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	InfoLink      string   `json:"infoLink,omitempty"`
	ImageLinks    *struct {
		Thumbnail string `json:"thumbnail,omitempty"`
	} `json:"imageLinks,omitempty"`
}

// Client represents a Google Books API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	limiter    *rate.Limiter
	logger     zerolog.Logger
	sanitizer  *bluemonday.Policy
	schema     *gojsonschema.Schema
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at another endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAPIKey sets the key query parameter
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithMaxResults sets the maxResults query parameter
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit paces outbound requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new Google Books client
func NewClient(opts ...Option) (*Client, error) {
	schema, err := newValidator()
	if err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		maxResults: DefaultMaxResults,
		logger:     zerolog.Nop(),
		sanitizer:  bluemonday.StrictPolicy(),
		schema:     schema,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "books").Logger()

	return c, nil
}

// Search queries the volumes endpoint. An absent items field yields an
// empty, non-nil slice.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Volume, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	log := c.logger.With().
		Str("query", query).
		Str("request_id", RequestIDFrom(ctx)).
		Logger()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	reqURL, err := c.volumesURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	log.Debug().Msg("requesting volumes")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBytes {
			snippet = snippet[:maxErrorBytes]
		}
		log.Warn().Int("status_code", resp.StatusCode).Msg("volumes request rejected")
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(snippet)}
	}

	if err := validate(c.schema, body); err != nil {
		return nil, err
	}

	var payload volumesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	volumes := make([]domain.Volume, 0, len(payload.Items))
	for _, item := range payload.Items {
		volumes = append(volumes, c.toVolume(item))
	}

	log.Debug().
		Int("count", len(volumes)).
		Dur("duration", time.Since(start)).
		Msg("volumes received")

	return volumes, nil
}

func (c *Client) volumesURL(query string) (string, error) {
	u, err := url.Parse(c.baseURL + "/volumes")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(c.maxResults))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) toVolume(item volumeItem) domain.Volume {
	info := item.VolumeInfo
	v := domain.Volume{
		ID:            item.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		InfoLink:      info.InfoLink,
	}
	if info.ImageLinks != nil {
		v.Thumbnail = info.ImageLinks.Thumbnail
	}
	if info.Description != "" {
		v.Description = strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(info.Description)))
	}
	return v
}

type requestIDKey struct{}

// ContextWithRequestID tags ctx with a request ID for logging
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored in ctx, or ""
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
