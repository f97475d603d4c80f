package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fygallery/internal/scan"
	"fygallery/internal/store"
)

// failingStore wraps a real store and fails Insert for one path.
type failingStore struct {
	ImageStore
	failPath string
}

func (f *failingStore) Insert(ctx context.Context, path string) (store.ImageRecord, error) {
	if path == f.failPath {
		return store.ImageRecord{}, errors.New("disk full")
	}
	return f.ImageStore.Insert(ctx, path)
}

// fakeScanner returns a fixed list of paths.
type fakeScanner struct {
	paths []string
}

func (f *fakeScanner) Run(dir string, logger zerolog.Logger) <-chan scan.FileItem {
	ch := make(chan scan.FileItem)
	go func() {
		defer close(ch)
		for _, p := range f.paths {
			ch <- scan.NewFileItem(p, nil)
		}
	}()
	return ch
}

func newTestGallery(t *testing.T) (*Gallery, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewGallery(s, scan.NewFileScanner(), zerolog.Nop()), s
}

func TestAddImagesAndRecords(t *testing.T) {
	g, _ := newTestGallery(t)
	ctx := context.Background()

	n, err := g.AddImages(ctx, []string{"a.png", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := g.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.ImageRecord{{ID: 1, Path: "a.png"}, {ID: 2, Path: "b.png"}}, records)

	require.NoError(t, g.Remove(ctx, 1))
	records, err = g.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.ImageRecord{{ID: 2, Path: "b.png"}}, records)
}

func TestAddImagesStopsAtFirstError(t *testing.T) {
	g, s := newTestGallery(t)
	g.Store = &failingStore{ImageStore: s, failPath: "bad.png"}
	ctx := context.Background()

	n, err := g.AddImages(ctx, []string{"a.png", "bad.png", "c.png"})
	assert.Error(t, err)
	assert.Equal(t, 1, n)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.ImageRecord{{ID: 1, Path: "a.png"}}, records)
}

func TestAddImagesRejectsEmptyPath(t *testing.T) {
	g, _ := newTestGallery(t)
	_, err := g.AddImages(context.Background(), []string{""})
	assert.ErrorIs(t, err, store.ErrEmptyPath)
}

func TestRemoveUnknownID(t *testing.T) {
	g, _ := newTestGallery(t)
	ctx := context.Background()
	_, err := g.AddImages(ctx, []string{"a.png"})
	require.NoError(t, err)

	require.NoError(t, g.Remove(ctx, 99))
	records, err := g.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRecord(t *testing.T) {
	g, _ := newTestGallery(t)
	ctx := context.Background()
	_, err := g.AddImages(ctx, []string{"a.png"})
	require.NoError(t, err)

	rec, err := g.Record(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a.png", rec.Path)

	_, err = g.Record(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSlideshowRecords(t *testing.T) {
	g, _ := newTestGallery(t)
	ctx := context.Background()

	_, err := g.SlideshowRecords(ctx)
	assert.ErrorIs(t, err, ErrEmptyGallery)

	_, err = g.AddImages(ctx, []string{"x.jpg", "y.jpg"})
	require.NoError(t, err)
	records, err := g.SlideshowRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "x.jpg", records[0].Path)
}

func TestImportDirectory(t *testing.T) {
	g, _ := newTestGallery(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"one.png", "nested/two.jpg", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644))
	}

	n, err := g.ImportDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := g.Records(context.Background())
	require.NoError(t, err)
	var paths []string
	for _, rec := range records {
		paths = append(paths, rec.Path)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "one.png"),
		filepath.Join(dir, "nested", "two.jpg"),
	}, paths)
}

func TestImportDirectoryContinuesPastFailures(t *testing.T) {
	g, s := newTestGallery(t)
	g.Store = &failingStore{ImageStore: s, failPath: "/b.png"}
	g.FileScan = &fakeScanner{paths: []string{"/a.png", "/b.png", "/c.png"}}

	n, err := g.ImportDirectory(context.Background(), "/anywhere")
	assert.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestImportDirectoryCanceled(t *testing.T) {
	g, _ := newTestGallery(t)
	g.FileScan = &fakeScanner{paths: []string{"/a.png", "/b.png"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := g.ImportDirectory(ctx, "/anywhere")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestImportDirectoryRequiresDir(t *testing.T) {
	g, _ := newTestGallery(t)
	_, err := g.ImportDirectory(context.Background(), "")
	assert.Error(t, err)
}

func TestCleanMissing(t *testing.T) {
	g, _ := newTestGallery(t)
	ctx := context.Background()
	present := filepath.Join(t.TempDir(), "present.png")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0644))

	_, err := g.AddImages(ctx, []string{present, "/gone/one.png", "/gone/two.png"})
	require.NoError(t, err)

	removed, err := g.CleanMissing(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	records, err := g.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.ImageRecord{{ID: 1, Path: present}}, records)
}

func TestFilter(t *testing.T) {
	records := []store.ImageRecord{
		{ID: 1, Path: "/photos/Beach-2021.png"},
		{ID: 2, Path: "/photos/mountain.jpg"},
		{ID: 3, Path: "/beach/cat.bmp"},
	}

	tests := []struct {
		term string
		want []int64
	}{
		{"", []int64{1, 2, 3}},
		{"   ", []int64{1, 2, 3}},
		{"beach", []int64{1}},
		{"BCH", []int64{1}},
		{"mtn", []int64{2}},
		{".bmp", []int64{3}},
		{"zebra", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var got []int64
			for _, rec := range Filter(records, tt.term) {
				got = append(got, rec.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
