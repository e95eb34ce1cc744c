package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/nluyan/pkgpad/internal/branding"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 30 * time.Second

// FeedError reports a failure confined to one feed: the feed is
// unreachable, rejects the request, or answers with something that is not a
// NuGet V3 document. Callers may skip the feed and continue.
type FeedError struct {
	Source     string // service index URL of the feed
	StatusCode int    // 0 when no HTTP response was received
	Err        error
}

func (e *FeedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registry %s: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("registry %s: %v", e.Source, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// Client talks to NuGet V3 feeds. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	cacheDir   string
	cacheAge   time.Duration

	group   singleflight.Group
	mu      sync.RWMutex
	indexes map[string]*ServiceIndex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout bounds each request made with the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithCacheDir persists resolved service indexes under dir. Empty disables
// the disk cache; indexes are still kept in memory.
func WithCacheDir(dir string) Option {
	return func(cl *Client) {
		cl.cacheDir = dir
	}
}

// WithCacheMaxAge sets how long a persisted service index stays valid.
func WithCacheMaxAge(d time.Duration) Option {
	return func(cl *Client) {
		cl.cacheAge = d
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  branding.UserAgent(),
		cacheAge:   DefaultCacheMaxAge,
		indexes:    make(map[string]*ServiceIndex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON issues a GET and decodes a JSON body into out. A 404 is returned
// as errNotFound so callers can decide whether absence is an error.
func (c *Client) getJSON(ctx context.Context, source, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FeedError{Source: source, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &FeedError{Source: source, Err: fmt.Errorf("fetching %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &FeedError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response for %s", url),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &FeedError{Source: source, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FeedError{Source: source, Err: fmt.Errorf("parsing %s: %w", url, err)}
	}
	return nil
}

var errNotFound = errors.New("not found")
