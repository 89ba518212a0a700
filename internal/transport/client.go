package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"

	"github.com/nao1215/webrecon/internal/model"
)

const (
	// DefaultTimeout bounds a single request when neither the request nor
	// the client sets a timeout.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent is sent when a request sets no User-Agent header.
	DefaultUserAgent = "webrecon/1.0"

	maxRedirects = 10
)

// Client is an HTTP transport with per-proxy connection pools.
// It is safe for concurrent use.
type Client struct {
	timeout         time.Duration
	maxBodySize     int64
	userAgent       string
	insecureTLS     bool
	followRedirects bool
	limiter         *rate.Limiter
	logger          *slog.Logger

	mu      sync.Mutex
	clients map[string]*http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodySize sets how many bytes of a body are read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithInsecureTLS disables certificate verification.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) {
		c.insecureTLS = insecure
	}
}

// WithFollowRedirects controls whether redirects are followed. When false
// the 3xx response itself is returned.
func WithFollowRedirects(follow bool) Option {
	return func(c *Client) {
		c.followRedirects = follow
	}
}

// WithRateLimit caps the request rate across all goroutines sharing the
// client. A non-positive rps disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:         DefaultTimeout,
		maxBodySize:     DefaultMaxBodySize,
		userAgent:       DefaultUserAgent,
		followRedirects: true,
		logger:          slog.Default(),
		clients:         make(map[string]*http.Client),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send performs one request. Any HTTP status is returned as a response;
// an error means no response was obtained.
func (c *Client) Send(ctx context.Context, req *model.HTTPRequest) (*model.HTTPResponse, error) {
	if req == nil || req.URL == "" {
		return nil, ErrInvalidRequest
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	client, err := c.httpClient(req.Proxy)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "method", httpReq.Method, "url", httpReq.URL.String(), "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	return &model.HTTPResponse{
		URL:         resp.Request.URL.String(),
		Status:      resp.StatusCode,
		ContentType: contentType,
		Headers:     firstValues(resp.Header),
		Body:        decodeBody(raw, contentType),
		Length:      len(raw),
	}, nil
}

func firstValues(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// buildRequest converts a model request into an *http.Request.
func (c *Client) buildRequest(ctx context.Context, req *model.HTTPRequest) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequest, req.URL)
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var (
		body        io.Reader
		contentType string
	)
	if len(req.Form) > 0 {
		switch req.Encoding {
		case model.BodyJSON:
			data, err := json.Marshal(req.Form)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(data)
			contentType = "application/json"
		default:
			form := url.Values{}
			for k, v := range req.Form {
				form.Set(k, v)
			}
			body = strings.NewReader(form.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	names := make([]string, 0, len(req.Cookies))
	for name := range req.Cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: req.Cookies[name]})
	}

	return httpReq, nil
}

// httpClient returns the cached client for a proxy, creating it on first use.
func (c *Client) httpClient(proxyURL string) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[proxyURL]; ok {
		return client, nil
	}

	tr, err := newTransport(proxyURL, c.insecureTLS)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Transport: tr,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if !c.followRedirects || len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	c.clients[proxyURL] = client
	return client, nil
}

// newTransport builds an *http.Transport routed through proxyURL, which may be empty.
func newTransport(proxyURL string, insecure bool) (*http.Transport, error) {
	tr := &http.Transport{
		Proxy:               nil,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure, //nolint:gosec // opt-in for self-signed targets
		},
	}
	if proxyURL == "" {
		return tr, nil
	}

	u, err := ParseProxy(proxyURL)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https":
		tr.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			tr.DialContext = cd.DialContext
		} else {
			tr.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}
	return tr, nil
}

// ParseProxy validates a proxy URL.
func ParseProxy(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, raw)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
		return u, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}
}

// decodeBody converts raw bytes to UTF-8 using the declared or sniffed charset.
func decodeBody(raw []byte, contentType string) string {
	if len(raw) == 0 {
		return ""
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
