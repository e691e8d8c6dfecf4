// Package mangakakalot reads mangakakalot.com.
package mangakakalot

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rsilvagit/go-manga/internal/htmlx"
	"github.com/rsilvagit/go-manga/internal/model"
	"github.com/rsilvagit/go-manga/internal/parser"
)

// BaseURL is the site root.
const BaseURL = "https://mangakakalot.com"

// Parser serves mangakakalot.com.
type Parser struct {
	*parser.Core
}

// New returns a Parser fetching through f.
func New(f parser.Fetcher, opts ...parser.Option) (*Parser, error) {
	core, err := parser.New(BaseURL, Extractor{}, f, opts...)
	if err != nil {
		return nil, err
	}
	return &Parser{Core: core}, nil
}

// Extractor implements the mangakakalot hooks.
type Extractor struct{}

var errNoTitle = errors.New("mangakakalot: title not found")

// SearchRequest uses /search/story/<words_joined_by_underscore>.
func (Extractor) SearchRequest(base *url.URL, query string) *parser.Request {
	words := strings.Fields(strings.ToLower(query))
	ref := &url.URL{Path: "/search/story/" + strings.Join(words, "_")}
	return parser.Get(base.ResolveReference(ref))
}

func (Extractor) ExtractSearch(doc *goquery.Document, base *url.URL) ([]model.MangaObject, error) {
	var out []model.MangaObject
	doc.Find(".panel_story_list .story_item").Each(func(_ int, s *goquery.Selection) {
		link := s.Find(".story_name a").First()
		u, ok := htmlx.Attr(link, "href", base)
		title := htmlx.Text(link)
		if !ok || title == "" {
			return
		}

		m := model.MangaObject{Data: model.NewData(model.NewName(title, u), u)}
		if img, ok := htmlx.Attr(s.Find("img"), "src", base); ok {
			m.Covers = []model.Cover{{Small: model.NewData(img, u)}}
		}
		s.Find(".story_item_right span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
			text := htmlx.Text(span)
			if !strings.HasPrefix(strings.ToLower(text), "author") {
				return true
			}
			m.Authors = htmlx.PlainNames(htmlx.Split(htmlx.After(text), ","), u)
			return false
		})
		out = append(out, m)
	})
	return out, nil
}

func (Extractor) ExtractManga(doc *goquery.Document, u *url.URL) (model.MangaObject, error) {
	info := doc.Find("ul.manga-info-text").First()
	title := htmlx.Text(info.Find("h1").First())
	if title == "" {
		return model.MangaObject{}, errNoTitle
	}

	name := model.Name{Localized: model.NewData(title, u)}
	if alt := htmlx.Split(htmlx.After(info.Find("h2.story-alternative").Text()), ";,"); len(alt) > 0 {
		name.Original = model.NewData(alt[0], u)
	}

	m := model.MangaObject{
		Data:        model.NewData(name, u),
		Description: htmlx.Text(doc.Find("#noidungm")),
	}

	info.Find("li").Each(func(_ int, li *goquery.Selection) {
		head := strings.ToLower(htmlx.Text(li))
		switch {
		case strings.HasPrefix(head, "author"):
			m.Authors = htmlx.Names(li.Find("a"), u)
		case strings.HasPrefix(head, "genres"):
			m.Genres = htmlx.Names(li.Find("a"), u)
		}
	})

	if img, ok := htmlx.Attr(doc.Find(".manga-info-pic img"), "src", u); ok {
		m.Covers = []model.Cover{model.NewCover(img, u)}
	}
	return m, nil
}

// Chapter rows carry their upload time in the title attribute.
const addedLayout = "Jan-02-2006 15:04"

// ExtractChapters returns rows as listed, newest first.
func (Extractor) ExtractChapters(doc *goquery.Document, u *url.URL) ([]model.Chapter, error) {
	var out []model.Chapter
	doc.Find(".chapter-list .row").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("span a").First()
		cu, ok := htmlx.Attr(a, "href", u)
		if !ok {
			return
		}
		title := htmlx.Text(a)

		ch := model.Chapter{Data: model.NewData(model.NewName(title, cu), cu)}
		if n, ok := htmlx.ChapterNumber(title); ok {
			ch.Number = n
		} else if n, ok := htmlx.ChapterNumber(cu.Path); ok {
			ch.Number = n
		}
		if added, ok := row.Find("span[title]").Last().Attr("title"); ok {
			if t, err := time.Parse(addedLayout, strings.TrimSpace(added)); err == nil {
				ch.Added = t
			}
		}
		out = append(out, ch)
	})
	return out, nil
}

func (Extractor) ExtractPages(doc *goquery.Document, u *url.URL) ([]model.Page, error) {
	var out []model.Page
	doc.Find(".container-chapter-reader img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := htmlx.Attr(img, "src", u); ok {
			out = append(out, model.NewPage(src))
		}
	})
	return out, nil
}
