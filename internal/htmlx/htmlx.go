// Package htmlx holds small goquery helpers shared by the site extractors.
package htmlx

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rsilvagit/go-manga/internal/model"
)

// NormSpace collapses runs of whitespace into single spaces.
func NormSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

// Text returns the whitespace-normalized text of sel.
func Text(sel *goquery.Selection) string { return NormSpace(sel.Text()) }

// Resolve resolves href against base. Protocol-relative links get https.
func Resolve(base *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "#") {
		return nil, false
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	if base == nil {
		return ref, ref.IsAbs()
	}
	return base.ResolveReference(ref), true
}

// Attr resolves the named attribute of the first node in sel.
func Attr(sel *goquery.Selection, attr string, base *url.URL) (*url.URL, bool) {
	v, ok := sel.First().Attr(attr)
	if !ok {
		return nil, false
	}
	return Resolve(base, v)
}

// Split splits s on any of seps, trimming and dropping blanks and
// duplicates while keeping first-seen order.
func Split(s string, seps string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return strings.ContainsRune(seps, r) })
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = NormSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// After returns the text after the first ':' of s, trimmed.
func After(s string) string {
	if _, v, ok := strings.Cut(s, ":"); ok {
		return NormSpace(v)
	}
	return NormSpace(s)
}

// Names turns each anchor in sel into a named link.
func Names(sel *goquery.Selection, base *url.URL) []model.Data[model.Name] {
	var out []model.Data[model.Name]
	seen := map[string]bool{}
	sel.Each(func(_ int, a *goquery.Selection) {
		name := Text(a)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		u, _ := Attr(a, "href", base)
		out = append(out, model.NewData(model.NewName(name, u), u))
	})
	return out
}

// PlainNames is Names for text without links; every entry is attributed
// to from.
func PlainNames(names []string, from *url.URL) []model.Data[model.Name] {
	out := make([]model.Data[model.Name], 0, len(names))
	for _, n := range names {
		out = append(out, model.NewData(model.NewName(n, from), from))
	}
	return out
}

var chapterNumRE = regexp.MustCompile(`(?i)\b(?:chapter|ch\.?|c)\s*(\d+(?:\.\d+)?)`)
var trailingNumRE = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*$`)

// ChapterNumber finds the chapter number in a link text or path such as
// "Chapter 12.5: Title", "chapter_12.5" or "Vol.2 Ch.12".
func ChapterNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "_", " ")
	m := chapterNumRE.FindStringSubmatch(s)
	if m == nil {
		m = trailingNumRE.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
