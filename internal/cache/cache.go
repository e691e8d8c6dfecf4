package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/redis/go-redis/v9"

	"github.com/rsilvagit/go-manga/internal/parser"
)

// Fetcher is a parser.Fetcher that keeps GET documents in Redis.
// POST requests always go to the wrapped Fetcher. Redis failures are
// logged and never fail a fetch.
type Fetcher struct {
	next   parser.Fetcher
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

var _ parser.Fetcher = (*Fetcher)(nil)

// Hash fields of a cache entry.
const (
	fieldURL  = "url"
	fieldHTML = "html"
)

// New connects to Redis at the given URL and returns a caching Fetcher
// around next.
// URL format: redis://localhost:6379
func New(redisURL string, ttl time.Duration, next parser.Fetcher, log *slog.Logger) (*Fetcher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return Wrap(client, ttl, next, log), nil
}

// Wrap builds a caching Fetcher on an existing Redis client.
func Wrap(client *redis.Client, ttl time.Duration, next parser.Fetcher, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{next: next, client: client, ttl: ttl, log: log}
}

// Fetch returns the cached document for req when present, otherwise fetches
// it and stores its HTML and final URL with the configured TTL. Cached
// documents carry the same Url as the fetch that produced them.
func (f *Fetcher) Fetch(ctx context.Context, req *parser.Request) (*goquery.Document, error) {
	if req == nil || req.URL == nil {
		return nil, parser.ErrNullArgument
	}
	if req.Method != "" && req.Method != http.MethodGet {
		return f.next.Fetch(ctx, req)
	}

	key := buildKey(req.URL.String())

	if doc, ok := f.lookup(ctx, key, req.URL); ok {
		return doc, nil
	}

	doc, err := f.next.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	f.store(ctx, key, doc, req.URL)
	return doc, nil
}

func (f *Fetcher) lookup(ctx context.Context, key string, reqURL *url.URL) (*goquery.Document, bool) {
	entry, err := f.client.HGetAll(ctx, key).Result()
	if err != nil {
		f.log.Warn("cache: read failed", "url", reqURL.String(), "err", err)
		return nil, false
	}
	html, ok := entry[fieldHTML]
	if !ok {
		return nil, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		f.log.Warn("cache: dropping unreadable entry", "url", reqURL.String(), "err", err)
		return nil, false
	}
	doc.Url = reqURL
	if raw := entry[fieldURL]; raw != "" {
		if u, err := url.Parse(raw); err == nil {
			doc.Url = u
		}
	}
	f.log.Debug("cache hit", "url", reqURL.String())
	return doc, true
}

func (f *Fetcher) store(ctx context.Context, key string, doc *goquery.Document, reqURL *url.URL) {
	html, err := doc.Html()
	if err != nil {
		return
	}
	final := reqURL
	if doc.Url != nil {
		final = doc.Url
	}

	pipe := f.client.TxPipeline()
	pipe.HSet(ctx, key, fieldURL, final.String(), fieldHTML, html)
	pipe.Expire(ctx, key, f.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		f.log.Warn("cache: write failed", "url", reqURL.String(), "err", err)
	}
}

// Close closes the Redis connection.
func (f *Fetcher) Close() error {
	return f.client.Close()
}

func buildKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("gomanga:doc:%x", hash[:8])
}
