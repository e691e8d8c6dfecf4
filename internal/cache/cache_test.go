package cache

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsilvagit/go-manga/internal/parser"
)

type countingFetcher struct {
	calls    atomic.Int32
	err      error
	redirect *url.URL
}

func (c *countingFetcher) Fetch(_ context.Context, req *parser.Request) (*goquery.Document, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<h1>` + req.URL.Path + `</h1>`))
	if err != nil {
		return nil, err
	}
	doc.Url = req.URL
	if c.redirect != nil {
		doc.Url = c.redirect
	}
	return doc, nil
}

func setup(t *testing.T, next parser.Fetcher) (*Fetcher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return Wrap(client, time.Hour, next, nil), mr
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFetch_CachesGET(t *testing.T) {
	next := &countingFetcher{}
	f, mr := setup(t, next)
	ctx := context.Background()
	u := mustURL(t, "https://a.example/series/1")

	first, err := f.Fetch(ctx, parser.Get(u))
	require.NoError(t, err)
	second, err := f.Fetch(ctx, parser.Get(u))
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, first.Find("h1").Text(), second.Find("h1").Text())
	assert.Equal(t, u, second.Url)
	assert.True(t, mr.Exists(buildKey(u.String())))
	assert.Equal(t, time.Hour, mr.TTL(buildKey(u.String())))
}

func TestFetch_HitKeepsFinalURL(t *testing.T) {
	final := mustURL(t, "https://a.example/series/1-one-piece")
	next := &countingFetcher{redirect: final}
	f, _ := setup(t, next)
	ctx := context.Background()
	u := mustURL(t, "https://a.example/series/1")

	miss, err := f.Fetch(ctx, parser.Get(u))
	require.NoError(t, err)
	hit, err := f.Fetch(ctx, parser.Get(u))
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, final.String(), miss.Url.String())
	assert.Equal(t, miss.Url.String(), hit.Url.String())
}

func TestFetch_BypassesPOST(t *testing.T) {
	next := &countingFetcher{}
	f, mr := setup(t, next)
	ctx := context.Background()
	req := parser.PostForm(mustURL(t, "https://a.example/search"), url.Values{"q": {"x"}})

	_, err := f.Fetch(ctx, req)
	require.NoError(t, err)
	_, err = f.Fetch(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.calls.Load())
	assert.Empty(t, mr.Keys())
}

func TestFetch_ErrorsPassThroughUncached(t *testing.T) {
	boom := errors.New("boom")
	next := &countingFetcher{err: boom}
	f, mr := setup(t, next)

	_, err := f.Fetch(context.Background(), parser.Get(mustURL(t, "https://a.example/x")))
	assert.Same(t, boom, err)
	assert.Empty(t, mr.Keys())
}

func TestFetch_RedisDownFallsThrough(t *testing.T) {
	next := &countingFetcher{}
	f, mr := setup(t, next)
	mr.Close()

	doc, err := f.Fetch(context.Background(), parser.Get(mustURL(t, "https://a.example/x")))
	require.NoError(t, err)
	assert.Equal(t, "/x", doc.Find("h1").Text())
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestBuildKey(t *testing.T) {
	a := buildKey("https://a.example/1")
	assert.True(t, strings.HasPrefix(a, "gomanga:doc:"))
	assert.Equal(t, a, buildKey("https://a.example/1"))
	assert.NotEqual(t, a, buildKey("https://a.example/2"))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not-a-redis-url", time.Hour, &countingFetcher{}, nil)
	assert.Error(t, err)
}
