package scan

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileItem(t *testing.T) {
	info, err := os.Stat(".")
	require.NoError(t, err)

	item := NewFileItem("test/path", info)
	assert.Equal(t, "test/path", item.Path)
	assert.NotNil(t, item.Info)
}

func TestIsImage(t *testing.T) {
	s := NewFileScanner()
	tests := []struct {
		name     string
		expected bool
	}{
		{"image.PNG", true},
		{"image.jpg", true},
		{"image.jpeg", true},
		{"image.bmp", true},
		{"image.gif", true},
		{"image.txt", false},
		{"image.webp", false},
		{"image", false},
		{".jpeg", true},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, s.IsImage(test.name), "IsImage(%s)", test.name)
	}
}

func TestCustomExtensions(t *testing.T) {
	s := NewFileScanner("PNG", " .webp ", "")
	assert.True(t, s.IsImage("a.png"))
	assert.True(t, s.IsImage("b.WEBP"))
	assert.False(t, s.IsImage("c.jpg"))
	assert.ElementsMatch(t, []string{".png", ".webp"}, s.Extensions())
}

func collect(t *testing.T, ch <-chan FileItem) FileItems {
	t.Helper()
	var items FileItems
	timeout := time.After(5 * time.Second)
	for {
		select {
		case item, ok := <-ch:
			if !ok {
				return items
			}
			items = append(items, item)
		case <-timeout:
			t.Fatal("timed out waiting for scan results")
			return items
		}
	}
}

func TestRun(t *testing.T) {
	rootDir := t.TempDir()

	subDir := filepath.Join(rootDir, "sub1")
	subSubDir := filepath.Join(subDir, "subsub")
	require.NoError(t, os.MkdirAll(subSubDir, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(rootDir, "sub2"), 0755))

	topImage1 := filepath.Join(rootDir, "image1.png")
	topImage2 := filepath.Join(rootDir, "image2.JPG")
	topBitmap := filepath.Join(rootDir, "scan.bmp")
	subImage := filepath.Join(subDir, "image3.jpeg")
	subSubImage := filepath.Join(subSubDir, "image4.PNG")

	files := map[string]int{
		topImage1:                             10,
		topImage2:                             10,
		topBitmap:                             10,
		filepath.Join(rootDir, "document.txt"): 10,
		filepath.Join(rootDir, "empty.gif"):    0, // skipped
		subImage:                              10,
		filepath.Join(subDir, "notes.md"):      10,
		subSubImage:                           10,
	}
	for path, size := range files {
		content := make([]byte, size)
		require.NoError(t, os.WriteFile(path, content, 0644))
	}

	expected := []string{topImage1, topImage2, topBitmap, subImage, subSubImage}
	sort.Strings(expected)

	items := collect(t, NewFileScanner().Run(rootDir, zerolog.Nop()))

	var found []string
	for _, item := range items {
		found = append(found, item.Path)
		assert.True(t, filepath.IsAbs(item.Path), "path %s is not absolute", item.Path)
		require.NotNil(t, item.Info, "FileItem for %s has nil FileInfo", item.Path)
		assert.False(t, item.Info.IsDir())
		assert.NotZero(t, item.Info.Size())
	}
	sort.Strings(found)
	assert.Equal(t, expected, found)
}

func TestRunMissingDirectory(t *testing.T) {
	items := collect(t, NewFileScanner().Run(filepath.Join(t.TempDir(), "nope"), zerolog.Nop()))
	assert.Empty(t, items)
}
