package fetcher

import (
	"context"
	"time"

	"resty.dev/v3"
)

// DefaultUserAgent is sent with every request unless overridden
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const maxRedirects = 5

// Getter downloads the body behind a URL
type Getter interface {
	Get(ctx context.Context, stage Stage, rawURL string) ([]byte, error)
}

// Client is an HTTP client with a fixed User-Agent and no retries
type Client struct {
	http *resty.Client
}

// NewClient creates a client. An empty userAgent selects DefaultUserAgent and
// a zero timeout leaves requests bounded only by the caller's context.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	c := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	if timeout > 0 {
		c.SetTimeout(timeout)
	}

	return &Client{http: c}
}

// Get fetches rawURL and returns its body. Transport failures and non-2xx
// responses are returned as *FetchError.
func (c *Client) Get(ctx context.Context, stage Stage, rawURL string) ([]byte, error) {
	res, err := c.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		fe := &FetchError{Stage: stage, URL: rawURL, Err: err}
		if res != nil {
			fe.StatusCode = res.StatusCode()
		}
		return nil, fe
	}

	if code := res.StatusCode(); code < 200 || code > 299 {
		return nil, &FetchError{Stage: stage, URL: rawURL, StatusCode: code, Err: ErrUnexpectedStatus}
	}

	return res.Bytes(), nil
}

// Close releases idle connections held by the client
func (c *Client) Close() error {
	return c.http.Close()
}
