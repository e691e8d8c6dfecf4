package output

import (
	"strings"
	"unicode/utf8"

	"github.com/rsilvagit/go-manga/internal/model"
)

// chunk packs header and entries into messages no longer than limit bytes.
// An entry is never split across messages.
func chunk(header string, entries []string, limit int) []string {
	var (
		msgs    []string
		current strings.Builder
	)
	current.WriteString(header)
	for _, e := range entries {
		if current.Len() > 0 && current.Len()+len(e) > limit {
			msgs = append(msgs, current.String())
			current.Reset()
		}
		current.WriteString(e)
	}
	if current.Len() > 0 {
		msgs = append(msgs, current.String())
	}
	return msgs
}

func joinNames(list []model.Data[model.Name]) string {
	return strings.Join(model.Names(list), ", ")
}

// truncate shortens s to at most limit bytes without splitting a UTF-8
// sequence, marking the cut with "...".
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
