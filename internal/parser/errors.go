package parser

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrNullArgument reports a required URL, object or collaborator that was nil.
	ErrNullArgument = errors.New("parser: required argument is nil")

	// ErrInvalidURL reports a string that is not an absolute URL.
	ErrInvalidURL = errors.New("parser: invalid url")
)

// BaseHostMismatchError is returned when a parser is handed a URL that
// belongs to another site.
type BaseHostMismatchError struct {
	Expected string
	Actual   string
}

func (e *BaseHostMismatchError) Error() string {
	return fmt.Sprintf("parser: host %q does not match base host %q", e.Actual, e.Expected)
}

// ParserNotFoundError is returned when no registered parser serves a URL.
type ParserNotFoundError struct {
	URL *url.URL
}

func (e *ParserNotFoundError) Error() string {
	if e.URL == nil {
		return "parser: no parser registered"
	}
	return fmt.Sprintf("parser: no parser registered for %s", e.URL)
}

// ParseURL parses raw as an absolute URL with a host.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	return u, nil
}
