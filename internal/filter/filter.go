package filter

import (
	"strings"

	"github.com/rsilvagit/go-manga/internal/model"
)

// Options holds all filter criteria. Empty fields mean "no filter".
type Options struct {
	Genre  string // comma-separated, any may match
	Author string // comma-separated, matched against authors, writers and illustrators
}

// Apply filters a slice of manga, returning only those that match all criteria.
func Apply(list []model.MangaObject, opts Options) []model.MangaObject {
	if opts.isEmpty() {
		return list
	}

	var result []model.MangaObject
	for _, m := range list {
		if Match(m, opts) {
			result = append(result, m)
		}
	}
	return result
}

// Match reports whether m meets every criterion in opts.
func Match(m model.MangaObject, opts Options) bool {
	if opts.Genre != "" && !containsAny(joined(m.Genres), opts.Genre) {
		return false
	}
	if opts.Author != "" {
		people := joined(m.Authors) + " " + joined(m.Writers) + " " + joined(m.Illustrators)
		if !containsAny(people, opts.Author) {
			return false
		}
	}
	return true
}

func joined(list []model.Data[model.Name]) string {
	return strings.ToLower(strings.Join(model.Names(list), " | "))
}

// containsAny checks if text contains any of the comma-separated terms.
func containsAny(text, terms string) bool {
	for _, term := range strings.Split(terms, ",") {
		term = strings.TrimSpace(strings.ToLower(term))
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// NeedsDetails reports whether opts inspect fields that sites only fill on
// the manga page, not on search result cards.
func (o Options) NeedsDetails() bool {
	return o.Genre != ""
}

func (o Options) isEmpty() bool {
	return o.Genre == "" && o.Author == ""
}
