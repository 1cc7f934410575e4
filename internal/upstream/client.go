// Package upstream performs outbound fetches against the anime site and the
// hosts it links to: header profiles, per-host proxy routing, body limits.
package upstream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultUserAgent is the browser-like agent the upstream site accepts.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultTimeout bounds every outbound request when none is configured.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBodySize caps every response body.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024
)

// ErrBodyTooLarge is returned when a response body exceeds the client limit.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// Client fetches upstream resources. The zero value is not usable; use New.
type Client struct {
	http      *http.Client
	policy    ProxyPolicy
	userAgent string
	maxBody   int64
}

// Option configures a Client.
type Option func(*Client)

// WithProxyPolicy routes matching hosts through a prefix proxy.
func WithProxyPolicy(p ProxyPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// New wraps httpClient. A nil httpClient gets a client with DefaultTimeout.
func New(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	c := &Client{http: httpClient, userAgent: DefaultUserAgent, maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient builds the outbound *http.Client. When socks5Addr is set the
// transport dials through that SOCKS5 proxy.
func NewHTTPClient(timeout time.Duration, socks5Addr string) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}
	if socks5Addr != "" {
		dialer, err := proxy.SOCKS5("tcp", socks5Addr, nil, &net.Dialer{Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("creating SOCKS5 dialer: %w", err)
		}
		cd, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer for %s does not support contexts", socks5Addr)
		}
		transport.Proxy = nil
		transport.DialContext = cd.DialContext
	}
	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

// UserAgent returns the agent sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// AjaxHeaders mimic the site's own XHR calls.
func (c *Client) AjaxHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.userAgent)
	h.Set("X-Requested-With", "XMLHttpRequest")
	return h
}

// PageHeaders are used for plain HTML and playlist fetches.
func (c *Client) PageHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.userAgent)
	return h
}

// Fetch GETs rawURL with the given headers and returns the body. The URL is
// rewritten by the proxy policy first. Non-2xx responses yield *StatusError;
// bodies over the size limit yield ErrBodyTooLarge.
func (c *Client) Fetch(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	target := c.policy.Rewrite(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, c.maxBody)
	}
	return body, nil
}

// ParseHeaderList parses "Key: Value; Other: Value" into a header set.
// Malformed items are skipped.
func ParseHeaderList(s string) http.Header {
	h := http.Header{}
	for _, item := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" {
			continue
		}
		h.Add(k, v)
	}
	return h
}
