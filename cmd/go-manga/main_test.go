package main

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsilvagit/go-manga/internal/client"
	"github.com/rsilvagit/go-manga/internal/filter"
	"github.com/rsilvagit/go-manga/internal/model"
	"github.com/rsilvagit/go-manga/internal/output"
	"github.com/rsilvagit/go-manga/internal/parser"
)

// stubSite serves fixed search cards and manga pages keyed by URL.
type stubSite struct {
	cards   []model.MangaObject
	details map[string]model.MangaObject
}

func (s stubSite) ExtractSearch(*goquery.Document, *url.URL) ([]model.MangaObject, error) {
	return s.cards, nil
}

func (s stubSite) ExtractManga(_ *goquery.Document, u *url.URL) (model.MangaObject, error) {
	return s.details[u.String()], nil
}

func (stubSite) ExtractChapters(*goquery.Document, *url.URL) ([]model.Chapter, error) {
	return nil, nil
}

func (stubSite) ExtractPages(*goquery.Document, *url.URL) ([]model.Page, error) {
	return nil, nil
}

type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(_ context.Context, req *parser.Request) (*goquery.Document, error) {
	f.calls.Add(1)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html></html>"))
	if err != nil {
		return nil, err
	}
	doc.Url = req.URL
	return doc, nil
}

func names(list ...string) []model.Data[model.Name] {
	out := make([]model.Data[model.Name], 0, len(list))
	for _, n := range list {
		out = append(out, model.NewData(model.NewName(n, nil), nil))
	}
	return out
}

func card(t *testing.T, raw, title string, authors ...string) model.MangaObject {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return model.MangaObject{
		Data:    model.NewData(model.NewName(title, u), u),
		Authors: names(authors...),
	}
}

func newCommand(t *testing.T, f parser.Fetcher, sites map[string]stubSite, opts filter.Options, limit int) *command {
	t.Helper()
	var parsers []parser.Parser
	for _, base := range []string{"http://a.example", "http://b.example"} {
		site, ok := sites[base]
		if !ok {
			continue
		}
		p, err := parser.New(base, site, f)
		require.NoError(t, err)
		parsers = append(parsers, p)
	}
	return &command{
		client: client.New(parsers),
		filter: opts,
		limit:  limit,
		stderr: io.Discard,
	}
}

func titles(list []model.MangaObject) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.Title()
	}
	return out
}

func TestCollect_LimitCountsFilteredResults(t *testing.T) {
	sites := map[string]stubSite{
		"http://a.example": {cards: []model.MangaObject{
			card(t, "http://a.example/1", "A1", "alice"),
			card(t, "http://a.example/2", "A2", "alice"),
			card(t, "http://a.example/3", "A3", "alice"),
		}},
		"http://b.example": {cards: []model.MangaObject{
			card(t, "http://b.example/1", "B1", "bob"),
		}},
	}

	cmd := newCommand(t, &countingFetcher{}, sites, filter.Options{Author: "bob"}, 3)
	assert.Equal(t, []string{"B1"}, titles(cmd.collect(context.Background(), "x")))
}

func TestCollect_StopsAtLimit(t *testing.T) {
	sites := map[string]stubSite{
		"http://a.example": {cards: []model.MangaObject{
			card(t, "http://a.example/1", "A1"),
			card(t, "http://a.example/2", "A2"),
		}},
		"http://b.example": {cards: []model.MangaObject{
			card(t, "http://b.example/1", "B1"),
		}},
	}
	f := &countingFetcher{}

	cmd := newCommand(t, f, sites, filter.Options{}, 2)
	assert.Equal(t, []string{"A1", "A2"}, titles(cmd.collect(context.Background(), "x")))
	assert.Equal(t, int32(1), f.calls.Load(), "second site must not be searched")
}

func TestCollect_GenreUsesMangaPage(t *testing.T) {
	berserk := card(t, "http://a.example/berserk", "Berserk")
	yotsuba := card(t, "http://a.example/yotsuba", "Yotsuba")

	full := berserk
	full.Genres = names("Action", "Horror")
	calm := yotsuba
	calm.Genres = names("Comedy")

	sites := map[string]stubSite{
		"http://a.example": {
			cards: []model.MangaObject{berserk, yotsuba},
			details: map[string]model.MangaObject{
				"http://a.example/berserk": full,
				"http://a.example/yotsuba": calm,
			},
		},
	}
	f := &countingFetcher{}

	cmd := newCommand(t, f, sites, filter.Options{Genre: "action"}, 0)
	got := cmd.collect(context.Background(), "x")

	require.Len(t, got, 1)
	assert.Equal(t, "Berserk", got[0].Title())
	assert.Equal(t, []string{"Action", "Horror"}, model.Names(got[0].Genres))
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestRun_SearchWithGenre(t *testing.T) {
	berserk := card(t, "http://a.example/berserk", "Berserk")
	full := berserk
	full.Genres = names("Action")

	sites := map[string]stubSite{
		"http://a.example": {
			cards:   []model.MangaObject{berserk},
			details: map[string]model.MangaObject{"http://a.example/berserk": full},
		},
	}

	var buf bytes.Buffer
	cmd := newCommand(t, &countingFetcher{}, sites, filter.Options{Genre: "action"}, 0)
	cmd.writers = []output.ResultWriter{output.NewPrinter(&buf)}

	require.NoError(t, cmd.run(context.Background(), "search", "berserk"))
	assert.Contains(t, buf.String(), "Berserk")
	assert.NotContains(t, buf.String(), "No manga found.")
}

func TestCollect_SkipsFailingDetails(t *testing.T) {
	sites := map[string]stubSite{
		"http://a.example": {cards: []model.MangaObject{
			card(t, "http://b.example/elsewhere", "Foreign"),
		}},
	}
	var warnings bytes.Buffer

	cmd := newCommand(t, &countingFetcher{}, sites, filter.Options{Genre: "action"}, 0)
	cmd.stderr = &warnings

	assert.Empty(t, cmd.collect(context.Background(), "x"))
	assert.Contains(t, warnings.String(), "Warning: no supported site serves")
}
