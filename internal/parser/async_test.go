package parser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsilvagit/go-manga/internal/model"
	"github.com/rsilvagit/go-manga/internal/parser"
)

func TestAsync_MatchesBlockingForm(t *testing.T) {
	ctx := context.Background()
	c := newCore(t, listExtractor{}, newFakeFetcher(fixtures()))
	async := parser.NewAsync(c)

	wantManga, err := c.GetManga(ctx, mustURL(t, seriesURL))
	require.NoError(t, err)
	gotManga, err := async.GetMangaString(ctx, seriesURL).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantManga, gotManga)

	wantChapters, err := c.GetChapters(ctx, mustURL(t, seriesURL))
	require.NoError(t, err)
	gotChapters, err := async.GetChaptersOf(ctx, &wantManga).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantChapters, gotChapters)

	seq, err := c.GetPages(ctx, mustURL(t, chapter1URL))
	require.NoError(t, err)
	wantPages, err := parser.Collect(seq)
	require.NoError(t, err)
	gotPages, err := async.GetPages(ctx, mustURL(t, chapter1URL)).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantPages, gotPages)

	wantSearch, err := parser.Collect(c.Search(ctx, "sample"))
	require.NoError(t, err)
	gotSearch, err := async.Search(ctx, "sample").Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantSearch, gotSearch)
}

func TestAsync_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	async := parser.NewAsync(newCore(t, listExtractor{}, newFakeFetcher(nil)))

	_, err := async.GetPagesString(ctx, "nope").Wait(ctx)
	assert.ErrorIs(t, err, parser.ErrInvalidURL)

	_, err = async.GetMangaOf(ctx, nil).Wait(ctx)
	assert.ErrorIs(t, err, parser.ErrNullArgument)

	_, err = async.GetChapters(ctx, mustURL(t, "https://b.example/x")).Wait(ctx)
	var mismatch *parser.BaseHostMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestFuture_WaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	f := parser.Go(func() (int, error) {
		<-release
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-f.Done()
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCollect_KeepsValuesAndJoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	seq := func(yield func(int, error) bool) {
		_ = yield(1, nil) && yield(0, errA) && yield(2, nil) && yield(0, errB)
	}

	got, err := parser.Collect(seq)
	assert.Equal(t, []int{1, 2}, got)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestCollect_SingleErrorUnwrapped(t *testing.T) {
	errA := errors.New("a")

	got, err := parser.Collect(func(yield func(model.Page, error) bool) {
		yield(model.Page{}, errA)
	})
	assert.Empty(t, got)
	assert.Same(t, errA, err)
}
