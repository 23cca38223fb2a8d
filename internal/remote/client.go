package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher is implemented by *Client and replaced by fakes in tests.
type Fetcher interface {
	FetchEntities(ctx context.Context, query EntityQuery) (EntityBatch, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

var _ Fetcher = (*Client)(nil)

// ErrNilClient is returned by methods called on a nil *Client.
var ErrNilClient = errors.New("client is nil")

// Client talks to a relay that exposes captured entities over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7520"
	defaultUserAgent = "pulsar/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the relay address requests are sent to.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// Health reports whether the relay is up.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// EntityQuery configures /api/entities requests.
type EntityQuery struct {
	// Since is the last sequence already received; 0 fetches from the start.
	Since uint64
	Limit int
}

// FetchEntities retrieves entities recorded after query.Since.
func (c *Client) FetchEntities(ctx context.Context, query EntityQuery) (EntityBatch, error) {
	if c == nil {
		return EntityBatch{}, ErrNilClient
	}
	values := url.Values{}
	if query.Since > 0 {
		values.Set("since", strconv.FormatUint(query.Since, 10))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	rel := &url.URL{Path: "/api/entities", RawQuery: values.Encode()}
	var payload EntityBatch
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return EntityBatch{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
