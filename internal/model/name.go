package model

import (
	"net/url"
	"strings"
)

// Name holds the alternative titles a site may publish for the same thing.
type Name struct {
	Localized Data[string]
	English   Data[string]
	Original  Data[string]
}

// NewName builds a Name whose only representation is the localized one.
func NewName(localized string, u *url.URL) Name {
	return Name{Localized: NewData(localized, u)}
}

// String returns the first non-blank of localized, english and original.
func (n Name) String() string {
	for _, d := range []Data[string]{n.Localized, n.English, n.Original} {
		if s := strings.TrimSpace(d.Value); s != "" {
			return d.Value
		}
	}
	return ""
}

// Equal compares all three representations, provenance included.
func (n Name) Equal(o Name) bool {
	return n.Localized.Equal(o.Localized) &&
		n.English.Equal(o.English) &&
		n.Original.Equal(o.Original)
}
