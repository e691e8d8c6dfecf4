package model_test

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsilvagit/go-manga/internal/model"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestName_StringPrecedence(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		t.Run(fmt.Sprintf("mask_%03b", mask), func(t *testing.T) {
			var n model.Name
			want := ""
			if mask&4 != 0 {
				n.Original.Value = "original"
				want = "original"
			}
			if mask&2 != 0 {
				n.English.Value = "english"
				want = "english"
			}
			if mask&1 != 0 {
				n.Localized.Value = "localized"
				want = "localized"
			}
			assert.Equal(t, want, n.String())
		})
	}
}

func TestName_BlankCountsAsAbsent(t *testing.T) {
	n := model.Name{
		Localized: model.NewData("   ", nil),
		English:   model.NewData("", nil),
		Original:  model.NewData("ワンピース", nil),
	}
	assert.Equal(t, "ワンピース", n.String())
}

func TestCover_URLPrecedence(t *testing.T) {
	large := mustURL(t, "https://img.example/l.jpg")
	medium := mustURL(t, "https://img.example/m.jpg")
	small := mustURL(t, "https://img.example/s.jpg")

	for mask := 0; mask < 8; mask++ {
		t.Run(fmt.Sprintf("mask_%03b", mask), func(t *testing.T) {
			var c model.Cover
			var want *url.URL
			if mask&4 != 0 {
				c.Small.Value = small
				want = small
			}
			if mask&2 != 0 {
				c.Medium.Value = medium
				want = medium
			}
			if mask&1 != 0 {
				c.Large.Value = large
				want = large
			}
			assert.Equal(t, want, c.URL())
		})
	}
}

func TestData_Equal(t *testing.T) {
	a := model.NewData("x", mustURL(t, "https://a.example/1"))
	b := model.NewData("x", mustURL(t, "https://a.example/1"))
	c := model.NewData("x", mustURL(t, "https://a.example/2"))
	d := model.NewData("y", mustURL(t, "https://a.example/1"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.True(t, model.NewData(3, nil).Equal(model.NewData(3, nil)))
	assert.False(t, model.NewData(3, nil).Equal(model.NewData(3, mustURL(t, "https://a.example"))))
}

func TestData_EqualUsesTimeEqual(t *testing.T) {
	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("JST", 9*60*60))

	assert.True(t, model.NewData(utc, nil).Equal(model.NewData(local, nil)))
}

func TestData_String(t *testing.T) {
	assert.Equal(t, "x", model.NewData("x", nil).String())
	assert.Equal(t, "x (https://a.example/1)", model.NewData("x", mustURL(t, "https://a.example/1")).String())
}

func TestMangaObject_Source(t *testing.T) {
	m := model.MangaObject{Data: model.NewData(model.NewName("t", nil), mustURL(t, "https://a.example/series/1"))}
	assert.Equal(t, "a.example", m.Source())

	assert.Equal(t, model.UnknownSource, model.MangaObject{}.Source())
}

func TestMangaObject_TitleAndCover(t *testing.T) {
	u := mustURL(t, "https://a.example/series/1")
	img := mustURL(t, "https://img.example/c.jpg")
	m := model.MangaObject{
		Data:   model.NewData(model.Name{English: model.NewData("Title", u)}, u),
		Covers: []model.Cover{model.NewCover(img, u)},
	}

	assert.Equal(t, "Title", m.Title())
	c, ok := m.Cover()
	require.True(t, ok)
	assert.Equal(t, img, c.URL())

	_, ok = model.MangaObject{}.Cover()
	assert.False(t, ok)
}

func TestNames_SkipsBlank(t *testing.T) {
	list := []model.Data[model.Name]{
		model.NewData(model.NewName("Oda", nil), nil),
		model.NewData(model.NewName(" ", nil), nil),
		model.NewData(model.Name{Original: model.NewData("尾田", nil)}, nil),
	}
	assert.Equal(t, []string{"Oda", "尾田"}, model.Names(list))
}

func TestSortChapters(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	chapters := []model.Chapter{
		{Data: model.NewData(model.NewName("c3", nil), nil), Number: 3, Added: day(3)},
		{Data: model.NewData(model.NewName("c2.5", nil), nil), Number: 2.5, Added: day(2)},
		{Data: model.NewData(model.NewName("c1", nil), nil), Number: 1, Added: day(1)},
	}

	model.SortChapters(chapters)

	got := make([]string, 0, len(chapters))
	for _, c := range chapters {
		got = append(got, c.Value.String())
	}
	assert.Equal(t, []string{"c1", "c2.5", "c3"}, got)
}

func TestSortChapters_FallsBackToDate(t *testing.T) {
	newer := model.Chapter{Data: model.NewData(model.NewName("newer", nil), nil), Added: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	older := model.Chapter{Data: model.NewData(model.NewName("older", nil), nil), Added: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	chapters := []model.Chapter{newer, older}

	model.SortChapters(chapters)

	assert.Equal(t, "older", chapters[0].Value.String())
	assert.Equal(t, "newer", chapters[1].Value.String())
}
