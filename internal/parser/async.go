package parser

import (
	"context"
	"errors"
	"iter"
	"net/url"

	"github.com/rsilvagit/go-manga/internal/model"
)

// Future is the pending result of an operation started by Async.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on its own goroutine and returns its future result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the result is available or ctx is done. Giving up on
// the wait does not stop the underlying operation; cancel the context
// passed to the operation for that.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Collect drains seq. Values are kept even when some elements carry errors;
// a single error is returned as is, several are joined in the order they
// were seen.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var (
		out  []T
		errs []error
	)
	for v, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, v)
	}
	if len(errs) == 1 {
		return out, errs[0]
	}
	return out, errors.Join(errs...)
}

func collectPages(seq iter.Seq2[model.Page, error], err error) ([]model.Page, error) {
	if err != nil {
		return nil, err
	}
	return Collect(seq)
}

// Async exposes the operations of a Source without blocking the caller.
// Each call starts one goroutine around the blocking form; results are the
// same as the blocking form would return for the same input. Sequences are
// collected before the future resolves.
type Async struct {
	src Source
}

// NewAsync wraps src, which may be a single parser or a registry.
func NewAsync(src Source) Async { return Async{src: src} }

func (a Async) Search(ctx context.Context, query string) *Future[[]model.MangaObject] {
	return Go(func() ([]model.MangaObject, error) { return Collect(a.src.Search(ctx, query)) })
}

func (a Async) GetManga(ctx context.Context, u *url.URL) *Future[model.MangaObject] {
	return Go(func() (model.MangaObject, error) { return a.src.GetManga(ctx, u) })
}

func (a Async) GetMangaString(ctx context.Context, raw string) *Future[model.MangaObject] {
	return Go(func() (model.MangaObject, error) { return a.src.GetMangaString(ctx, raw) })
}

func (a Async) GetMangaOf(ctx context.Context, m *model.MangaObject) *Future[model.MangaObject] {
	return Go(func() (model.MangaObject, error) { return a.src.GetMangaOf(ctx, m) })
}

func (a Async) GetChapters(ctx context.Context, u *url.URL) *Future[[]model.Chapter] {
	return Go(func() ([]model.Chapter, error) { return a.src.GetChapters(ctx, u) })
}

func (a Async) GetChaptersString(ctx context.Context, raw string) *Future[[]model.Chapter] {
	return Go(func() ([]model.Chapter, error) { return a.src.GetChaptersString(ctx, raw) })
}

func (a Async) GetChaptersOf(ctx context.Context, m *model.MangaObject) *Future[[]model.Chapter] {
	return Go(func() ([]model.Chapter, error) { return a.src.GetChaptersOf(ctx, m) })
}

func (a Async) GetPages(ctx context.Context, u *url.URL) *Future[[]model.Page] {
	return Go(func() ([]model.Page, error) { return collectPages(a.src.GetPages(ctx, u)) })
}

func (a Async) GetPagesString(ctx context.Context, raw string) *Future[[]model.Page] {
	return Go(func() ([]model.Page, error) { return collectPages(a.src.GetPagesString(ctx, raw)) })
}

func (a Async) GetPagesOf(ctx context.Context, c *model.Chapter) *Future[[]model.Page] {
	return Go(func() ([]model.Page, error) { return collectPages(a.src.GetPagesOf(ctx, c)) })
}
