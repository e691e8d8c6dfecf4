package parser

import (
	"context"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher loads and parses the HTML document behind a request.
// Implementations must be safe for concurrent use. Errors are returned to
// callers of the parser untouched.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (*goquery.Document, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req *Request) (*goquery.Document, error)

func (f FetcherFunc) Fetch(ctx context.Context, req *Request) (*goquery.Document, error) {
	return f(ctx, req)
}

// Request describes a document to fetch. Form is sent url-encoded when
// Method is POST.
type Request struct {
	Method string
	URL    *url.URL
	Form   url.Values
}

// Get returns a GET request for u.
func Get(u *url.URL) *Request {
	return &Request{Method: http.MethodGet, URL: u}
}

// PostForm returns a form POST request for u.
func PostForm(u *url.URL, form url.Values) *Request {
	return &Request{Method: http.MethodPost, URL: u, Form: form}
}
