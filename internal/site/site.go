// Package site lists the parsers for every supported site.
package site

import (
	"github.com/rsilvagit/go-manga/internal/parser"
	"github.com/rsilvagit/go-manga/internal/site/mangakakalot"
	"github.com/rsilvagit/go-manga/internal/site/mangatown"
)

// All returns a parser for every supported site, sharing one fetcher.
func All(f parser.Fetcher, opts ...parser.Option) ([]parser.Parser, error) {
	kakalot, err := mangakakalot.New(f, opts...)
	if err != nil {
		return nil, err
	}
	town, err := mangatown.New(f, opts...)
	if err != nil {
		return nil, err
	}
	return []parser.Parser{kakalot, town}, nil
}
