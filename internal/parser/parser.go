package parser

import (
	"context"
	"iter"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/rsilvagit/go-manga/internal/model"
)

// Source is the operation surface shared by a single Parser and the
// registry that dispatches between parsers.
//
// Each verb accepts a URL, a raw string or a previously returned object.
// The string and object forms convert their argument and call the URL form.
type Source interface {
	// Search queries the site. An empty query is valid and returns whatever
	// the site lists for it.
	Search(ctx context.Context, query string) iter.Seq2[model.MangaObject, error]

	GetManga(ctx context.Context, u *url.URL) (model.MangaObject, error)
	GetMangaString(ctx context.Context, raw string) (model.MangaObject, error)
	GetMangaOf(ctx context.Context, m *model.MangaObject) (model.MangaObject, error)

	// GetChapters returns chapters in ascending reading order.
	GetChapters(ctx context.Context, u *url.URL) ([]model.Chapter, error)
	GetChaptersString(ctx context.Context, raw string) ([]model.Chapter, error)
	GetChaptersOf(ctx context.Context, m *model.MangaObject) ([]model.Chapter, error)

	// GetPages validates its argument immediately and returns a lazy
	// sequence; documents are fetched only while the sequence is consumed.
	GetPages(ctx context.Context, u *url.URL) (iter.Seq2[model.Page, error], error)
	GetPagesString(ctx context.Context, raw string) (iter.Seq2[model.Page, error], error)
	GetPagesOf(ctx context.Context, c *model.Chapter) (iter.Seq2[model.Page, error], error)
}

// Parser is a Source bound to one site.
type Parser interface {
	Source
	BaseURL() *url.URL
}

// Equal reports whether a and b serve the same site. Parser identity is
// its base URL.
func Equal(a, b Parser) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.BaseURL().String() == b.BaseURL().String()
}

// Extractor is the site-specific half of a parser. Hooks are pure: they
// read an already fetched document and never fetch themselves. Relative
// links must be resolved against u (or the base URL for search).
type Extractor interface {
	ExtractSearch(doc *goquery.Document, base *url.URL) ([]model.MangaObject, error)
	ExtractManga(doc *goquery.Document, u *url.URL) (model.MangaObject, error)
	// ExtractChapters may return chapters in any order.
	ExtractChapters(doc *goquery.Document, u *url.URL) ([]model.Chapter, error)
	ExtractPages(doc *goquery.Document, u *url.URL) ([]model.Page, error)
}

// SearchRequester is implemented by extractors whose search endpoint does
// not follow the default GET <base>/search?q=<query> shape.
type SearchRequester interface {
	SearchRequest(base *url.URL, query string) *Request
}

// PageFollower is implemented by extractors for sites that show one page
// of a chapter per document. NextPage returns the next reader document, if
// any.
type PageFollower interface {
	NextPage(doc *goquery.Document, u *url.URL) (*url.URL, bool)
}

// MangaURL returns the URL a manga was read from.
func MangaURL(m *model.MangaObject) (*url.URL, error) {
	if m == nil || m.URL == nil {
		return nil, ErrNullArgument
	}
	return m.URL, nil
}

// ChapterURL returns the URL a chapter was read from.
func ChapterURL(c *model.Chapter) (*url.URL, error) {
	if c == nil || c.URL == nil {
		return nil, ErrNullArgument
	}
	return c.URL, nil
}
