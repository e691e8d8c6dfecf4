// Package mangatown reads mangatown.com. Its reader shows one image per
// document, so pages are collected by following the "next page" links.
package mangatown

import (
	"errors"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rsilvagit/go-manga/internal/htmlx"
	"github.com/rsilvagit/go-manga/internal/model"
	"github.com/rsilvagit/go-manga/internal/parser"
)

// BaseURL is the site root.
const BaseURL = "https://www.mangatown.com"

// Parser serves mangatown.com.
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

// Extractor implements the mangatown hooks.
type Extractor struct{}

var errNoTitle = errors.New("mangatown: title not found")

// SearchRequest posts the query to the advanced search form.
func (Extractor) SearchRequest(base *url.URL, query string) *parser.Request {
	form := url.Values{
		"name":        {strings.TrimSpace(query)},
		"name_method": {"cw"},
	}
	return parser.PostForm(base.ResolveReference(&url.URL{Path: "/search"}), form)
}

func (Extractor) ExtractSearch(doc *goquery.Document, base *url.URL) ([]model.MangaObject, error) {
	var out []model.MangaObject
	doc.Find("ul.manga_pic_list > li").Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a.manga_cover").First()
		u, ok := htmlx.Attr(link, "href", base)
		if !ok {
			return
		}
		title := htmlx.NormSpace(link.AttrOr("title", ""))
		if title == "" {
			title = htmlx.Text(li.Find("p.title a"))
		}
		if title == "" {
			return
		}

		m := model.MangaObject{Data: model.NewData(model.NewName(title, u), u)}
		if img, ok := htmlx.Attr(link.Find("img"), "src", base); ok {
			m.Covers = []model.Cover{{Medium: model.NewData(img, u)}}
		}
		li.Find("p.view").Each(func(_ int, p *goquery.Selection) {
			if strings.HasPrefix(strings.ToLower(htmlx.Text(p)), "author") {
				m.Authors = htmlx.Names(p.Find("a"), base)
			}
		})
		out = append(out, m)
	})
	return out, nil
}

func (Extractor) ExtractManga(doc *goquery.Document, u *url.URL) (model.MangaObject, error) {
	title := htmlx.Text(doc.Find(".title-top").First())
	if title == "" {
		return model.MangaObject{}, errNoTitle
	}

	name := model.Name{English: model.NewData(title, u)}
	m := model.MangaObject{
		Description: htmlx.Text(doc.Find("#show").First()),
	}

	doc.Find(".detail_info ul li").Each(func(_ int, li *goquery.Selection) {
		label := strings.ToLower(strings.TrimSuffix(htmlx.Text(li.Find("b").First()), ":"))
		switch label {
		case "alternative name":
			if alt := htmlx.Split(htmlx.After(htmlx.Text(li)), ";"); len(alt) > 0 {
				name.Original = model.NewData(alt[0], u)
			}
		case "genre(s)":
			m.Genres = htmlx.Names(li.Find("a"), u)
		case "author(s)":
			m.Authors = htmlx.Names(li.Find("a"), u)
			m.Writers = m.Authors
		case "artist(s)":
			m.Illustrators = htmlx.Names(li.Find("a"), u)
		case "demographic":
			m.Magazines = htmlx.Names(li.Find("a"), u)
		case "released":
			if y, err := strconv.Atoi(htmlx.After(htmlx.Text(li))); err == nil {
				m.Released = model.NewData(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), u)
			}
		}
	})
	m.Data = model.NewData(name, u)

	if img, ok := htmlx.Attr(doc.Find(".detail_info img").First(), "src", u); ok {
		m.Covers = []model.Cover{model.NewCover(img, u)}
	}
	return m, nil
}

const addedLayout = "Jan 2,2006"

// ExtractChapters returns rows as listed, newest first.
func (Extractor) ExtractChapters(doc *goquery.Document, u *url.URL) ([]model.Chapter, error) {
	var out []model.Chapter
	doc.Find("ul.chapter_list > li").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		cu, ok := htmlx.Attr(a, "href", u)
		if !ok {
			return
		}
		label := htmlx.Text(a)
		if extra := htmlx.Text(li.Find("span").Not(".time").Not(".new").First()); extra != "" {
			label += " " + extra
		}

		ch := model.Chapter{Data: model.NewData(model.NewName(label, cu), cu)}
		if n, ok := htmlx.ChapterNumber(cu.Path); ok {
			ch.Number = n
		} else if n, ok := htmlx.ChapterNumber(htmlx.Text(a)); ok {
			ch.Number = n
		}
		if t, err := time.Parse(addedLayout, htmlx.Text(li.Find("span.time"))); err == nil {
			ch.Added = t
		}
		out = append(out, ch)
	})
	return out, nil
}

// ExtractPages returns the single image shown by a reader document.
func (Extractor) ExtractPages(doc *goquery.Document, u *url.URL) ([]model.Page, error) {
	img, ok := htmlx.Attr(doc.Find("#viewer img#image"), "src", u)
	if !ok {
		return nil, nil
	}
	return []model.Page{model.NewPage(img)}, nil
}

// NextPage follows the reader's next link while it stays in the chapter.
func (Extractor) NextPage(doc *goquery.Document, u *url.URL) (*url.URL, bool) {
	next, ok := htmlx.Attr(doc.Find("a.next_page"), "href", u)
	if !ok {
		return nil, false
	}
	if !strings.HasPrefix(next.Path, chapterDir(u.Path)) {
		return nil, false
	}
	return next, true
}

// chapterDir returns the chapter directory of a reader path:
// /manga/x/c001/ and /manga/x/c001/3.html both give /manga/x/c001/.
func chapterDir(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return path.Dir(p) + "/"
}
