package model

import (
	"fmt"
	"net/url"
	"reflect"
)

// Data pairs an extracted value with the URL it was read from.
// URL may be nil when the source page gave no usable link.
type Data[T any] struct {
	Value T
	URL   *url.URL
}

// NewData returns a Data for value attributed to u.
func NewData[T any](value T, u *url.URL) Data[T] {
	return Data[T]{Value: value, URL: u}
}

// Equal reports whether d and o carry the same value from the same URL.
func (d Data[T]) Equal(o Data[T]) bool {
	return sameURL(d.URL, o.URL) && valueEqual(d.Value, o.Value)
}

func (d Data[T]) String() string {
	if d.URL == nil {
		return fmt.Sprint(d.Value)
	}
	return fmt.Sprintf("%v (%s)", d.Value, d.URL)
}

func sameURL(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// valueEqual prefers a type's own Equal method (time.Time, Name, Cover)
// over reflect.DeepEqual.
func valueEqual[T any](a, b T) bool {
	if eq, ok := any(a).(interface{ Equal(T) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
