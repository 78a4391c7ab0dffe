package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the hosted status backend.
const DefaultBaseURL = "https://ffajobchange-puppeteer.onrender.com/api"

const getStatusPath = "/get-status"

// StatusFetcher is the transport interface used by the lookup runner.
type StatusFetcher interface {
	FetchCharacterData(ctx context.Context, characterID string) (StatusData, error)
}

// StatusData is the backend's JSON response, returned without shape validation.
type StatusData = map[string]any

// statusRequest is the POST body for /get-status.
type statusRequest struct {
	CharacterID string `json:"characterId"`
}

// Client is a concrete implementation of StatusFetcher.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	log        *logrus.Entry
}

var _ StatusFetcher = (*Client)(nil)

// ClientOption mutates Client configuration.
type ClientOption func(*Client)

// WithBaseURL configures the API base URL for production or tests.
func WithBaseURL(base string) ClientOption { //nolint:ireturn
	return func(c *Client) {
		if base == "" {
			return
		}
		if u, err := url.Parse(base); err == nil {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption { //nolint:ireturn
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero means no client-side timeout; the
// backend can take well over a minute to wake up.
func WithTimeout(d time.Duration) ClientOption { //nolint:ireturn
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption { //nolint:ireturn
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient constructs a new Client with defaults.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent(),
		log:        logrus.WithField("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == nil {
		u, err := url.Parse(DefaultBaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid default baseURL: %w", err)
		}
		c.baseURL = u
	}
	if c.baseURL.Scheme != "http" && c.baseURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: base URL must be http(s), got %q", ErrValidation, c.baseURL.String())
	}
	return c, nil
}

// FetchCharacterData implements POST /get-status.
// 2xx => the decoded body as-is; anything else => RemoteError.
func (c *Client) FetchCharacterData(ctx context.Context, characterID string) (StatusData, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(statusRequest{CharacterID: characterID}); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.buildURL(getStatusPath), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get-status request: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"status":    resp.StatusCode,
		"elapsed":   time.Since(start).Truncate(time.Millisecond),
		"character": characterID,
	}).Debug("get-status response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, handleHTTPError(resp)
	}

	var data StatusData
	if err := decodeJSON(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("decode get-status response: %w", err)
	}
	return data, nil
}

// handleHTTPError turns a non-2xx response into a RemoteError, preferring
// the server's own error text. It consumes the response body.
func handleHTTPError(resp *http.Response) error {
	var e errorBody
	_ = decodeJSON(resp.Body, &e)
	return RemoteError{StatusCode: resp.StatusCode, Message: e.Error}
}

// --- Helpers ---

func defaultUserAgent() string {
	return fmt.Sprintf("ffa-status/%s (%s; %s)", BuildVersion, runtime.GOOS, runtime.GOARCH)
}

// joinURLPath joins two URL paths with exactly one slash boundary.
func joinURLPath(basePath, addPath string) string {
	switch {
	case basePath == "" || basePath == "/":
		return addPath
	case addPath == "":
		return basePath
	case hasTrailingSlash(basePath) && hasLeadingSlash(addPath):
		return basePath + addPath[1:]
	case !hasTrailingSlash(basePath) && !hasLeadingSlash(addPath):
		return basePath + "/" + addPath
	default:
		return basePath + addPath
	}
}

func hasTrailingSlash(p string) bool { return len(p) > 0 && p[len(p)-1] == '/' }
func hasLeadingSlash(p string) bool  { return len(p) > 0 && p[0] == '/' }

func (c *Client) buildURL(path string) string {
	u := *c.baseURL
	u.Path = joinURLPath(u.Path, path)
	u.RawQuery = ""
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, fullURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	if id, ok := RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-Id", id)
	}
	return req, nil
}

func decodeJSON[T any](r io.Reader, out *T) error {
	dec := json.NewDecoder(r)
	return dec.Decode(out)
}
