package model

import "net/url"

// Cover holds up to three resolutions of the same image.
type Cover struct {
	Large  Data[*url.URL]
	Medium Data[*url.URL]
	Small  Data[*url.URL]
}

// NewCover builds a Cover with a single known resolution, stored as Large.
func NewCover(img, from *url.URL) Cover {
	return Cover{Large: NewData(img, from)}
}

// URL returns the largest available image, or nil when none is known.
func (c Cover) URL() *url.URL {
	for _, d := range []Data[*url.URL]{c.Large, c.Medium, c.Small} {
		if d.Value != nil {
			return d.Value
		}
	}
	return nil
}

func (c Cover) String() string {
	if u := c.URL(); u != nil {
		return u.String()
	}
	return ""
}

func (c Cover) Equal(o Cover) bool {
	return urlData(c.Large).Equal(urlData(o.Large)) &&
		urlData(c.Medium).Equal(urlData(o.Medium)) &&
		urlData(c.Small).Equal(urlData(o.Small))
}

// urlData swaps the pointer value for its string form so Equal compares
// addresses rather than pointers.
func urlData(d Data[*url.URL]) Data[string] {
	s := ""
	if d.Value != nil {
		s = d.Value.String()
	}
	return Data[string]{Value: s, URL: d.URL}
}
