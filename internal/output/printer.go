package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rsilvagit/go-manga/internal/model"
)

// ResultWriter defines how scrape results are presented.
type ResultWriter interface {
	WriteSearch(list []model.MangaObject) error
	WriteManga(m model.MangaObject) error
	WriteChapters(chapters []model.Chapter) error
}

// PageWriter presents chapter pages one at a time, as they are fetched.
type PageWriter interface {
	WritePage(n int, p model.Page) error
}

var (
	_ ResultWriter = (*ConsolePrinter)(nil)
	_ PageWriter   = (*ConsolePrinter)(nil)
)

// ConsolePrinter writes results as aligned text tables.
type ConsolePrinter struct {
	out io.Writer
}

// NewConsolePrinter writes to stdout.
func NewConsolePrinter() *ConsolePrinter {
	return &ConsolePrinter{out: os.Stdout}
}

// NewPrinter writes to w.
func NewPrinter(w io.Writer) *ConsolePrinter {
	return &ConsolePrinter{out: w}
}

func (cp *ConsolePrinter) WriteSearch(list []model.MangaObject) error {
	if len(list) == 0 {
		fmt.Fprintln(cp.out, "No manga found.")
		return nil
	}

	w := tabwriter.NewWriter(cp.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tTITLE\tAUTHORS\tURL")
	fmt.Fprintln(w, "------\t-----\t-------\t---")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.Source(), m.Title(), strings.Join(model.Names(m.Authors), ", "), urlString(m.URL))
	}
	return w.Flush()
}

func (cp *ConsolePrinter) WriteManga(m model.MangaObject) error {
	w := tabwriter.NewWriter(cp.out, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s\t%s\n", label, value)
		}
	}
	row("Title", m.Title())
	if orig := m.Value.Original.Value; orig != "" && orig != m.Title() {
		row("Original", orig)
	}
	row("Source", m.Source())
	row("URL", urlString(m.URL))
	row("Authors", strings.Join(model.Names(m.Authors), ", "))
	row("Artists", strings.Join(model.Names(m.Illustrators), ", "))
	row("Genres", strings.Join(model.Names(m.Genres), ", "))
	if !m.Released.Value.IsZero() {
		row("Released", m.Released.Value.Format("2006"))
	}
	if c, ok := m.Cover(); ok {
		row("Cover", c.String())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if m.Description != "" {
		fmt.Fprintf(cp.out, "\n%s\n", m.Description)
	}
	return nil
}

func (cp *ConsolePrinter) WriteChapters(chapters []model.Chapter) error {
	if len(chapters) == 0 {
		fmt.Fprintln(cp.out, "No chapters found.")
		return nil
	}

	w := tabwriter.NewWriter(cp.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tADDED\tURL")
	fmt.Fprintln(w, "-\t-----\t-----\t---")
	for _, c := range chapters {
		fmt.Fprintf(w, "%g\t%s\t%s\t%s\n", c.Number, c.Value.String(), date(c.Added), urlString(c.URL))
	}
	return w.Flush()
}

func (cp *ConsolePrinter) WritePage(n int, p model.Page) error {
	_, err := fmt.Fprintf(cp.out, "%3d  %s\n", n, urlString(p.URL))
	return err
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
