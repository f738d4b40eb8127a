package albumapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Repository is the read surface screens depend on. *Client implements it;
// tests substitute their own.
type Repository interface {
	FetchAllAlbums(ctx context.Context) ([]Album, error)
	FetchAlbumByID(ctx context.Context, id string) (Album, error)
}

// Ensure Client implements Repository at compile time.
var _ Repository = (*Client)(nil)

// Client talks to the album catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the catalog used when no override is configured.
	DefaultBaseURL   = "https://music.juanfrausto.com/api/"
	defaultUserAgent = "sleeve/0.1"
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for baseURL using the shared httpClient.
func NewClient(baseURL string, httpClient *http.Client, opts ...ClientOption) (*Client, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchAllAlbums retrieves every album in server order.
func (c *Client) FetchAllAlbums(ctx context.Context) ([]Album, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Album
	if err := c.getJSON(ctx, "list albums", &url.URL{Path: "albums"}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchAlbumByID retrieves a single album.
func (c *Client) FetchAlbumByID(ctx context.Context, id string) (Album, error) {
	if c == nil {
		return Album{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return Album{}, ErrEmptyID
	}
	if id == "." || id == ".." {
		return Album{}, ErrInvalidID
	}
	rel := &url.URL{
		Path:    "albums/" + id,
		RawPath: "albums/" + url.PathEscape(id),
	}
	var payload Album
	if err := c.getJSON(ctx, "get album", rel, &payload); err != nil {
		return Album{}, err
	}
	return payload, nil
}

func (c *Client) getJSON(ctx context.Context, op string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel).String()
	fail := func(err error) error {
		return &FetchError{Op: op, URL: reqURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fail(&TransportError{Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(&TransportError{Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(&HTTPStatusError{StatusCode: resp.StatusCode})
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(dest); err != nil {
		return fail(&DecodeError{Err: err})
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fail(&DecodeError{Err: errors.New("unexpected data after JSON body")})
	}
	return nil
}

// ParseBaseURL validates an API root and normalizes it to end in a slash so
// relative endpoint paths resolve beneath it.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api base %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		u.RawPath = ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

type requestIDKey struct{}

// WithRequestID returns a context whose requests carry id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
