// Package client dispatches manga operations to the parser registered for
// the target URL's host.
package client

import (
	"context"
	"iter"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/rsilvagit/go-manga/internal/model"
	"github.com/rsilvagit/go-manga/internal/parser"
)

var _ parser.Source = (*Client)(nil)

// Client is a registry of parsers keyed by their base host.
//
// Operations are safe to call concurrently with each other, but Add and
// Remove must not race with them; callers that mutate the registry while
// it is in use must synchronize externally.
type Client struct {
	parsers []parser.Parser
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used to report failing parsers during search.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Client holding parsers, in order, without duplicates.
func New(parsers []parser.Parser, opts ...Option) *Client {
	c := &Client{log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	for _, p := range parsers {
		c.Add(p)
	}
	return c
}

// Add registers p. Adding a parser equal to one already present is a no-op.
func (c *Client) Add(p parser.Parser) {
	if p == nil || c.indexOf(p) >= 0 {
		return
	}
	c.parsers = append(c.parsers, p)
}

// Remove unregisters p and reports whether it was present.
func (c *Client) Remove(p parser.Parser) bool {
	if p == nil {
		return false
	}
	return c.removeAt(c.indexOf(p))
}

// RemoveURL unregisters the parser serving u's host.
func (c *Client) RemoveURL(u *url.URL) bool {
	if u == nil {
		return false
	}
	return c.removeAt(c.indexOfHost(u.Host))
}

// RemoveString is RemoveURL for a raw URL.
func (c *Client) RemoveString(raw string) (bool, error) {
	u, err := parser.ParseURL(raw)
	if err != nil {
		return false, err
	}
	return c.RemoveURL(u), nil
}

// RemoveType unregisters the first parser of type T.
func RemoveType[T parser.Parser](c *Client) bool {
	return c.removeAt(slices.IndexFunc(c.parsers, isType[T]))
}

// Parsers returns the registered parsers in registration order.
func (c *Client) Parsers() []parser.Parser {
	return slices.Clone(c.parsers)
}

// Parser returns the parser whose base host equals u's host.
func (c *Client) Parser(u *url.URL) (parser.Parser, error) {
	if u == nil {
		return nil, parser.ErrNullArgument
	}
	i := c.indexOfHost(u.Host)
	if i < 0 {
		return nil, &parser.ParserNotFoundError{URL: u}
	}
	return c.parsers[i], nil
}

// ParserString is Parser for a raw URL.
func (c *Client) ParserString(raw string) (parser.Parser, error) {
	u, err := parser.ParseURL(raw)
	if err != nil {
		return nil, err
	}
	return c.Parser(u)
}

// ParserOf returns the first registered parser of type T.
func ParserOf[T parser.Parser](c *Client) (T, bool) {
	i := slices.IndexFunc(c.parsers, isType[T])
	if i < 0 {
		var zero T
		return zero, false
	}
	return c.parsers[i].(T), true
}

func isType[T parser.Parser](p parser.Parser) bool {
	_, ok := p.(T)
	return ok
}

func (c *Client) indexOf(p parser.Parser) int {
	return slices.IndexFunc(c.parsers, func(q parser.Parser) bool { return parser.Equal(p, q) })
}

func (c *Client) indexOfHost(host string) int {
	return slices.IndexFunc(c.parsers, func(p parser.Parser) bool {
		return strings.EqualFold(p.BaseURL().Host, host)
	})
}

func (c *Client) removeAt(i int) bool {
	if i < 0 {
		return false
	}
	c.parsers = slices.Delete(c.parsers, i, i+1)
	return true
}

// Search runs query against every registered parser, one after another in
// registration order. A parser that fails contributes a single error
// element to the sequence; the remaining parsers are still queried unless
// the consumer stops.
func (c *Client) Search(ctx context.Context, query string) iter.Seq2[model.MangaObject, error] {
	parsers := c.Parsers()
	return func(yield func(model.MangaObject, error) bool) {
		for _, p := range parsers {
			for m, err := range p.Search(ctx, query) {
				if err != nil {
					c.log.Warn("search failed", "parser", p.BaseURL().Host, "err", err)
				}
				if !yield(m, err) {
					return
				}
			}
		}
	}
}

func (c *Client) GetManga(ctx context.Context, u *url.URL) (model.MangaObject, error) {
	p, err := c.Parser(u)
	if err != nil {
		return model.MangaObject{}, err
	}
	return p.GetManga(ctx, u)
}

func (c *Client) GetMangaString(ctx context.Context, raw string) (model.MangaObject, error) {
	u, err := parser.ParseURL(raw)
	if err != nil {
		return model.MangaObject{}, err
	}
	return c.GetManga(ctx, u)
}

func (c *Client) GetMangaOf(ctx context.Context, m *model.MangaObject) (model.MangaObject, error) {
	u, err := parser.MangaURL(m)
	if err != nil {
		return model.MangaObject{}, err
	}
	return c.GetManga(ctx, u)
}

func (c *Client) GetChapters(ctx context.Context, u *url.URL) ([]model.Chapter, error) {
	p, err := c.Parser(u)
	if err != nil {
		return nil, err
	}
	return p.GetChapters(ctx, u)
}

func (c *Client) GetChaptersString(ctx context.Context, raw string) ([]model.Chapter, error) {
	u, err := parser.ParseURL(raw)
	if err != nil {
		return nil, err
	}
	return c.GetChapters(ctx, u)
}

func (c *Client) GetChaptersOf(ctx context.Context, m *model.MangaObject) ([]model.Chapter, error) {
	u, err := parser.MangaURL(m)
	if err != nil {
		return nil, err
	}
	return c.GetChapters(ctx, u)
}

func (c *Client) GetPages(ctx context.Context, u *url.URL) (iter.Seq2[model.Page, error], error) {
	p, err := c.Parser(u)
	if err != nil {
		return nil, err
	}
	return p.GetPages(ctx, u)
}

func (c *Client) GetPagesString(ctx context.Context, raw string) (iter.Seq2[model.Page, error], error) {
	u, err := parser.ParseURL(raw)
	if err != nil {
		return nil, err
	}
	return c.GetPages(ctx, u)
}

func (c *Client) GetPagesOf(ctx context.Context, ch *model.Chapter) (iter.Seq2[model.Page, error], error) {
	u, err := parser.ChapterURL(ch)
	if err != nil {
		return nil, err
	}
	return c.GetPages(ctx, u)
}
