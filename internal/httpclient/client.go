package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rsilvagit/go-manga/internal/parser"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Safari/605.1.15",
}

// Options configures the HTTP client.
type Options struct {
	ProxyURL  string
	Timeout   time.Duration
	UserAgent string // fixed User-Agent; empty rotates through a built-in pool
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: %s returned HTTP %d", e.URL, e.StatusCode)
}

// Client fetches HTML documents with browser-like headers. It implements
// parser.Fetcher and is safe for concurrent use.
type Client struct {
	inner     *http.Client
	userAgent string
	log       *slog.Logger
}

var _ parser.Fetcher = (*Client)(nil)

// New creates a Client with the given options.
func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("httpclient: invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		inner:     &http.Client{Transport: transport, Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		log:       opts.Logger,
	}, nil
}

// Do executes the request with browser headers set.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: request failed: %w", err)
	}
	return resp, nil
}

// Fetch loads req and parses the response body as HTML. The returned
// document's Url is the final URL after redirects.
func (c *Client) Fetch(ctx context.Context, req *parser.Request) (*goquery.Document, error) {
	hreq, err := newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.log.Debug("fetched", "url", req.URL.String(), "status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: parsing HTML: %w", err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

func newRequest(ctx context.Context, req *parser.Request) (*http.Request, error) {
	if req == nil || req.URL == nil {
		return nil, parser.ErrNullArgument
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	if method == http.MethodGet || req.Form == nil {
		hreq, err := http.NewRequestWithContext(ctx, method, req.URL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("httpclient: building request: %w", err)
		}
		return hreq, nil
	}

	hreq, err := http.NewRequestWithContext(ctx, method, req.URL.String(), strings.NewReader(req.Form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("httpclient: building request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return hreq, nil
}

func (c *Client) setHeaders(req *http.Request) {
	ua := c.userAgent
	if ua == "" {
		ua = userAgents[rand.Intn(len(userAgents))]
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// Accept-Encoding is left to http.Transport, which only decompresses
	// transparently when it set the header itself.
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
