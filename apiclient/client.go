package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// SessionExpiredHandler is invoked after a failed refresh has cleared the
// stored tokens. A UI would navigate to its login view here.
type SessionExpiredHandler func(reason error)

// Client sends requests to the dashboard API with the stored bearer token and
// recovers from an expired access token by refreshing it once per request.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	store          sessions.Store
	limiter        *rate.Limiter
	coalesce       bool
	refreshGroup   singleflight.Group
	sessionExpired SessionExpiredHandler
	logger         zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-attempt timeout of the underlying HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit caps outbound requests (refresh calls included). A
// non-positive rps leaves requests unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRefreshCoalescing makes concurrent requests that expire together share a
// single refresh call per refresh token instead of each refreshing on its own.
func WithRefreshCoalescing(enabled bool) Option {
	return func(c *Client) {
		c.coalesce = enabled
	}
}

// WithSessionExpiredHandler is called after the tokens are cleared because the session cannot be renewed
func WithSessionExpiredHandler(h SessionExpiredHandler) Option {
	return func(c *Client) {
		c.sessionExpired = h
	}
}

// WithLogger sets the logger used for request and refresh events
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the API rooted at baseURL, reading and writing
// tokens through store.
func New(baseURL string, store sessions.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("[apiclient New] session store is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "[apiclient New] invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("[apiclient New] base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Store returns the session store the client reads tokens from
func (c *Client) Store() sessions.Store {
	return c.store
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request describes one API call. Path is relative to the base URL and Body,
// when non-nil, is sent as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// Response is a fully read API response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// Decode unmarshals the JSON body into out
func (r *Response) Decode(out interface{}) error {
	if out == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return errors.Wrap(err, "[Response Decode]")
	}
	return nil
}

// Do sends req and decodes a successful JSON response into out (which may be nil)
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// Get is a convenience wrapper around Do
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post is a convenience wrapper around Do
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) endpoint(path string, query url.Values) string {
	target := strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}
