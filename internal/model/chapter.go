package model

import (
	"net/url"
	"slices"
	"time"
)

// Chapter is one readable unit of a series.
type Chapter struct {
	Data[Name]

	// Number is the chapter's position in reading order (1, 2, 10.5 ...).
	// Zero means the site did not expose one.
	Number float64
	Added  time.Time
	Cover  *Cover
}

// Page is a single image of a chapter. URL is the image location; Value is
// rarely used.
type Page = Data[any]

// NewPage returns a page pointing at img.
func NewPage(img *url.URL) Page {
	return Page{URL: img}
}

// SortChapters orders chapters for reading: by number, then by date added.
// Chapters that compare equal keep their relative order.
func SortChapters(chapters []Chapter) {
	slices.SortStableFunc(chapters, compareChapters)
}

func compareChapters(a, b Chapter) int {
	switch {
	case a.Number < b.Number:
		return -1
	case a.Number > b.Number:
		return 1
	}
	return a.Added.Compare(b.Added)
}
