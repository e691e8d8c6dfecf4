package model

import (
	"strings"
	"time"
)

// UnknownSource is reported by Source when a manga carries no URL.
const UnknownSource = "unknown"

// MangaObject is a series as described by one site. Its embedded Data holds
// the series Name and the page it was read from.
type MangaObject struct {
	Data[Name]

	Authors      []Data[Name]
	Genres       []Data[Name]
	Writers      []Data[Name]
	Illustrators []Data[Name]
	Magazines    []Data[Name]
	Publishers   []Data[Name]

	Released Data[time.Time]
	Volumes  Data[int]
	Covers   []Cover

	Description string
}

// Source returns the host the manga was scraped from.
func (m MangaObject) Source() string {
	if m.URL == nil || m.URL.Host == "" {
		return UnknownSource
	}
	return m.URL.Host
}

// Title is the display name of the series.
func (m MangaObject) Title() string { return m.Value.String() }

// Cover returns the first cover listed, if any.
func (m MangaObject) Cover() (Cover, bool) {
	if len(m.Covers) == 0 {
		return Cover{}, false
	}
	return m.Covers[0], true
}

// Names renders a list of names for display, skipping blanks.
func Names(list []Data[Name]) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		if s := strings.TrimSpace(d.Value.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Key returns a deduplication key for this manga.
// Uses the URL when available, otherwise falls back to source+title.
func (m MangaObject) Key() string {
	if m.URL != nil {
		return strings.ToLower(m.URL.String())
	}
	return strings.ToLower(m.Source() + "|" + m.Title())
}
