package parser

import (
	"context"
	"iter"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rsilvagit/go-manga/internal/model"
)

var _ Parser = (*Core)(nil)

// Core implements Parser on top of an Extractor: validate the URL, fetch
// the document, hand it to the matching hook. It never retries or caches;
// a failed fetch is returned as the Fetcher reported it.
//
// A Core holds no mutable state and is safe for concurrent use.
type Core struct {
	base    *url.URL
	ex      Extractor
	fetcher Fetcher
	log     *slog.Logger
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the logger used for fetch tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Core) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a Core for the site at baseURL.
func New(baseURL string, ex Extractor, f Fetcher, opts ...Option) (*Core, error) {
	u, err := ParseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return NewFromURL(u, ex, f, opts...)
}

// NewFromURL is New for an already parsed base URL.
func NewFromURL(base *url.URL, ex Extractor, f Fetcher, opts ...Option) (*Core, error) {
	if base == nil || ex == nil || f == nil {
		return nil, ErrNullArgument
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, ErrInvalidURL
	}
	b := *base
	c := &Core{base: &b, ex: ex, fetcher: f, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("parser", c.base.Host)
	return c, nil
}

// BaseURL returns a copy of the configured base URL.
func (c *Core) BaseURL() *url.URL {
	b := *c.base
	return &b
}

// Equal reports whether c and p serve the same site.
func (c *Core) Equal(p Parser) bool { return Equal(c, p) }

// Owns reports whether u belongs to this parser's site.
func (c *Core) Owns(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Host, c.base.Host)
}

func (c *Core) check(u *url.URL) error {
	if u == nil {
		return ErrNullArgument
	}
	if !u.IsAbs() || u.Host == "" {
		return ErrInvalidURL
	}
	if !c.Owns(u) {
		return &BaseHostMismatchError{Expected: c.base.Host, Actual: u.Host}
	}
	return nil
}

func (c *Core) fetch(ctx context.Context, req *Request) (*goquery.Document, error) {
	c.log.Debug("fetching document", "method", req.Method, "url", req.URL.String())
	return c.fetcher.Fetch(ctx, req)
}

func (c *Core) searchRequest(query string) *Request {
	if sr, ok := c.ex.(SearchRequester); ok {
		return sr.SearchRequest(c.BaseURL(), query)
	}
	ref := &url.URL{Path: "/search", RawQuery: url.Values{"q": {query}}.Encode()}
	return Get(c.base.ResolveReference(ref))
}

// Search fetches the site's search page for query when the sequence is
// consumed. Results keep the site's ordering.
func (c *Core) Search(ctx context.Context, query string) iter.Seq2[model.MangaObject, error] {
	return func(yield func(model.MangaObject, error) bool) {
		doc, err := c.fetch(ctx, c.searchRequest(query))
		if err != nil {
			yield(model.MangaObject{}, err)
			return
		}
		results, err := c.ex.ExtractSearch(doc, c.BaseURL())
		if err != nil {
			yield(model.MangaObject{}, err)
			return
		}
		for _, m := range results {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func (c *Core) GetManga(ctx context.Context, u *url.URL) (model.MangaObject, error) {
	if err := c.check(u); err != nil {
		return model.MangaObject{}, err
	}
	doc, err := c.fetch(ctx, Get(u))
	if err != nil {
		return model.MangaObject{}, err
	}
	return c.ex.ExtractManga(doc, u)
}

func (c *Core) GetMangaString(ctx context.Context, raw string) (model.MangaObject, error) {
	u, err := ParseURL(raw)
	if err != nil {
		return model.MangaObject{}, err
	}
	return c.GetManga(ctx, u)
}

func (c *Core) GetMangaOf(ctx context.Context, m *model.MangaObject) (model.MangaObject, error) {
	u, err := MangaURL(m)
	if err != nil {
		return model.MangaObject{}, err
	}
	return c.GetManga(ctx, u)
}

func (c *Core) GetChapters(ctx context.Context, u *url.URL) ([]model.Chapter, error) {
	if err := c.check(u); err != nil {
		return nil, err
	}
	doc, err := c.fetch(ctx, Get(u))
	if err != nil {
		return nil, err
	}
	chapters, err := c.ex.ExtractChapters(doc, u)
	if err != nil {
		return nil, err
	}
	model.SortChapters(chapters)
	return chapters, nil
}

func (c *Core) GetChaptersString(ctx context.Context, raw string) ([]model.Chapter, error) {
	u, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}
	return c.GetChapters(ctx, u)
}

func (c *Core) GetChaptersOf(ctx context.Context, m *model.MangaObject) ([]model.Chapter, error) {
	u, err := MangaURL(m)
	if err != nil {
		return nil, err
	}
	return c.GetChapters(ctx, u)
}

// GetPages yields the pages of the chapter at u in display order. When the
// extractor is a PageFollower, following reader documents are fetched one
// at a time, and only once every page of the previous one was consumed.
func (c *Core) GetPages(ctx context.Context, u *url.URL) (iter.Seq2[model.Page, error], error) {
	if err := c.check(u); err != nil {
		return nil, err
	}
	follower, _ := c.ex.(PageFollower)

	return func(yield func(model.Page, error) bool) {
		seen := map[string]bool{}
		next := u
		for next != nil && !seen[next.String()] {
			seen[next.String()] = true

			doc, err := c.fetch(ctx, Get(next))
			if err != nil {
				yield(model.Page{}, err)
				return
			}
			pages, err := c.ex.ExtractPages(doc, next)
			if err != nil {
				yield(model.Page{}, err)
				return
			}
			for _, p := range pages {
				if !yield(p, nil) {
					return
				}
			}

			if follower == nil {
				return
			}
			n, ok := follower.NextPage(doc, next)
			if !ok {
				return
			}
			if err := c.check(n); err != nil {
				yield(model.Page{}, err)
				return
			}
			next = n
		}
	}, nil
}

func (c *Core) GetPagesString(ctx context.Context, raw string) (iter.Seq2[model.Page, error], error) {
	u, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}
	return c.GetPages(ctx, u)
}

func (c *Core) GetPagesOf(ctx context.Context, ch *model.Chapter) (iter.Seq2[model.Page, error], error) {
	u, err := ChapterURL(ch)
	if err != nil {
		return nil, err
	}
	return c.GetPages(ctx, u)
}
