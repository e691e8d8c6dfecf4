package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rsilvagit/go-manga/internal/cache"
	"github.com/rsilvagit/go-manga/internal/client"
	"github.com/rsilvagit/go-manga/internal/config"
	"github.com/rsilvagit/go-manga/internal/filter"
	"github.com/rsilvagit/go-manga/internal/httpclient"
	"github.com/rsilvagit/go-manga/internal/model"
	"github.com/rsilvagit/go-manga/internal/output"
	"github.com/rsilvagit/go-manga/internal/parser"
	"github.com/rsilvagit/go-manga/internal/site"
)

func loadEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: go-manga [flags] <command> <arg>

Commands:
  search <query>    search every supported site ("" lists what the sites show by default)
  manga <url>       show a series
  chapters <url>    list a series' chapters in reading order
  pages <url>       list the images of a chapter

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	loadEnv(".env")

	timeout := flag.Duration("timeout", 0, "Timeout for the whole command (default MANGA_TIMEOUT)")
	genre := flag.String("genre", "", "Keep search results with any of these genres (comma-separated)")
	author := flag.String("author", "", "Keep search results by any of these people (comma-separated)")
	limit := flag.Int("limit", 0, "Stop after this many search results (0 = all)")
	proxy := flag.String("proxy", "", "HTTP proxy URL (default MANGA_PROXY_URL)")
	discordWebhook := flag.String("discord-webhook", "", "Discord webhook URL (default DISCORD_WEBHOOK_URL)")
	telegramToken := flag.String("telegram-token", "", "Telegram bot token (default TELEGRAM_TOKEN)")
	telegramChatID := flag.String("telegram-chat-id", "", "Telegram chat ID (default TELEGRAM_CHAT_ID)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	cfg.ProxyURL = orDefault(*proxy, cfg.ProxyURL)
	cfg.DiscordWebhookURL = orDefault(*discordWebhook, cfg.DiscordWebhookURL)
	cfg.TelegramToken = orDefault(*telegramToken, cfg.TelegramToken)
	cfg.TelegramChatID = orDefault(*telegramChatID, cfg.TelegramChatID)

	log := newLogger(cfg)
	slog.SetDefault(log)

	c, closeFn, err := buildClient(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	console := output.NewConsolePrinter()
	cmd := &command{
		client:  c,
		writers: writers(cfg, console),
		pages:   console,
		filter:  filter.Options{Genre: *genre, Author: *author},
		limit:   *limit,
	}
	if err := cmd.run(ctx, flag.Arg(0), strings.Join(flag.Args()[1:], " ")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		closeFn()
		os.Exit(1)
	}
}

// buildClient wires the HTTP fetcher, the optional Redis cache and every
// site parser into one client.
func buildClient(cfg *config.Config, log *slog.Logger) (*client.Client, func(), error) {
	hc, err := httpclient.New(httpclient.Options{
		ProxyURL:  cfg.ProxyURL,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	})
	if err != nil {
		return nil, nil, err
	}

	var fetcher parser.Fetcher = hc
	closeFn := func() {}
	if cfg.RedisURL != "" {
		cf, err := cache.New(cfg.RedisURL, cfg.CacheTTL, hc, log)
		if err != nil {
			log.Warn("document cache disabled", "err", err)
		} else {
			fetcher = cf
			closeFn = func() { cf.Close() }
		}
	}

	parsers, err := site.All(fetcher, parser.WithLogger(log))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return client.New(parsers, client.WithLogger(log)), closeFn, nil
}

func orDefault(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return fallback
}

// writers returns the console plus every notifier that is configured.
func writers(cfg *config.Config, console *output.ConsolePrinter) []output.ResultWriter {
	ws := []output.ResultWriter{console}
	if cfg.DiscordWebhookURL != "" {
		ws = append(ws, output.NewDiscordWriter(cfg.DiscordWebhookURL, nil))
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		ws = append(ws, output.NewTelegramWriter(cfg.TelegramToken, cfg.TelegramChatID, nil))
	}
	return ws
}

type command struct {
	client  *client.Client
	writers []output.ResultWriter
	pages   output.PageWriter
	filter  filter.Options
	limit   int
	stderr  io.Writer
}

// write hands the result to every writer. Notifier failures are reported
// but do not fail the command once the console has printed.
func (c *command) write(fn func(output.ResultWriter) error) error {
	for i, w := range c.writers {
		if err := fn(w); err != nil {
			if i == 0 {
				return err
			}
			fmt.Fprintf(os.Stderr, "Warning: sending results: %v\n", err)
		}
	}
	return nil
}

var errUsage = errors.New("missing argument")

func (c *command) run(ctx context.Context, verb, arg string) error {
	switch verb {
	case "search":
		return c.search(ctx, arg)
	case "manga":
		if arg == "" {
			return errUsage
		}
		m, err := c.client.GetMangaString(ctx, arg)
		if err != nil {
			return err
		}
		return c.write(func(w output.ResultWriter) error { return w.WriteManga(m) })
	case "chapters":
		if arg == "" {
			return errUsage
		}
		chapters, err := c.client.GetChaptersString(ctx, arg)
		if err != nil {
			return err
		}
		return c.write(func(w output.ResultWriter) error { return w.WriteChapters(chapters) })
	case "pages":
		if arg == "" {
			return errUsage
		}
		return c.listPages(ctx, arg)
	default:
		return fmt.Errorf("unknown command %q", verb)
	}
}

func (c *command) search(ctx context.Context, query string) error {
	start := time.Now()
	results := c.collect(ctx, query)
	if err := c.write(func(w output.ResultWriter) error { return w.WriteSearch(results) }); err != nil {
		return err
	}
	slog.Debug("search done", "query", query, "results", len(results), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// collect gathers distinct search results that pass the filters, stopping
// once limit of them were found. When a filter needs fields the result
// cards lack, each candidate's manga page is fetched first.
func (c *command) collect(ctx context.Context, query string) []model.MangaObject {
	seen := make(map[string]bool)
	var results []model.MangaObject

	for m, err := range c.client.Search(ctx, query) {
		if err != nil {
			c.warn(err)
			continue
		}
		key := m.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if c.filter.NeedsDetails() && m.URL != nil {
			full, err := c.client.GetMangaOf(ctx, &m)
			if err != nil {
				c.warn(err)
				continue
			}
			m = full
		}
		if !filter.Match(m, c.filter) {
			continue
		}

		results = append(results, m)
		if c.limit > 0 && len(results) >= c.limit {
			break
		}
	}
	return results
}

func (c *command) warn(err error) {
	w := c.stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Warning: %s\n", describe(err))
}

func (c *command) listPages(ctx context.Context, raw string) error {
	seq, err := c.client.GetPagesString(ctx, raw)
	if err != nil {
		return err
	}
	n := 0
	for p, err := range seq {
		if err != nil {
			return err
		}
		n++
		if err := c.pages.WritePage(n, p); err != nil {
			return err
		}
	}
	return nil
}

// describe turns the core failure kinds into user-facing messages.
func describe(err error) string {
	var (
		notFound *parser.ParserNotFoundError
		mismatch *parser.BaseHostMismatchError
		status   *httpclient.StatusError
	)
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("no supported site serves %s", notFound.URL)
	case errors.As(err, &mismatch):
		return fmt.Sprintf("%s is not a %s address", mismatch.Actual, mismatch.Expected)
	case errors.Is(err, parser.ErrInvalidURL):
		return fmt.Sprintf("not a valid absolute URL (%v)", err)
	case errors.Is(err, errUsage):
		return "missing argument; run with -h for usage"
	case errors.As(err, &status):
		return fmt.Sprintf("site answered HTTP %d for %s", status.StatusCode, status.URL)
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	default:
		return err.Error()
	}
}
