// Package fetch is the HTTP collaborator for the scrape pipeline: a
// client with a browser header profile, a fixed timeout, and 2xx status
// enforcement. The pipeline consumes it through the khobor.Fetcher and
// media.Fetcher interfaces.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnexpectedStatus indicates a response with a status outside the 2xx
// range. Wrapped errors carry the actual code.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// DefaultTimeout bounds every request issued by a default Client.
const DefaultTimeout = 30 * time.Second

// The scraped sites serve reduced markup to unknown agents, so the
// default profile mimics a desktop browser asking for Bengali content.
const (
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultAcceptLanguage = "bn,en;q=0.9,en-US;q=0.8"
)

// Client fetches pages and media over HTTP. Construct with NewClient; the
// zero value has no underlying http.Client.
type Client struct {
	http           *http.Client
	userAgent      string
	acceptLanguage string
}

// NewClient returns a Client with the default timeout and header profile.
func NewClient() *Client {
	return NewClientWithTimeout(DefaultTimeout)
}

// NewClientWithTimeout returns a Client with a custom per-request timeout.
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		http:           &http.Client{Timeout: timeout},
		userAgent:      defaultUserAgent,
		acceptLanguage: defaultAcceptLanguage,
	}
}

// SetUserAgent overrides the User-Agent header sent with every request.
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// Get fetches url and returns the whole response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.Stream(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// Stream fetches url and hands the response body to the caller, who owns
// closing it. Any non-2xx status is an ErrUnexpectedStatus.
func (c *Client) Stream(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.acceptLanguage)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d fetching %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}
	return resp.Body, nil
}
