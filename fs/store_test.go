package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/fs"
	"github.com/fwojciec/fpx/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		photo fpx.Photo
		want  string
	}{
		{
			name:  "simple name",
			photo: fpx.Photo{ID: 296328931, Name: "Natasha"},
			want:  "296328931-natasha.md",
		},
		{
			name:  "punctuation collapses to single dashes",
			photo: fpx.Photo{ID: 7, Name: "Golden Hour!  At the pier..."},
			want:  "7-golden-hour-at-the-pier.md",
		},
		{
			name:  "keeps non-ascii letters",
			photo: fpx.Photo{ID: 8, Name: "Été à Paris"},
			want:  "8-été-à-paris.md",
		},
		{
			name:  "empty name",
			photo: fpx.Photo{ID: 9},
			want:  "9.md",
		},
		{
			name:  "name without letters",
			photo: fpx.Photo{ID: 10, Name: "***"},
			want:  "10.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fs.PhotoPath(&tt.photo))
		})
	}
}

func TestFormatPhoto(t *testing.T) {
	t.Parallel()

	photo := &fpx.Photo{
		ID:      296328931,
		Name:    `Natasha "Tash"`,
		TakenAt: "2019-03-09T16:02:11-05:00",
		Images: []fpx.Image{
			{Size: fpx.ImageSizeSmall, URL: "https://example.com/s.jpg"},
			{Size: fpx.ImageSizeLarge, URL: "https://example.com/l.jpg"},
		},
		User: fpx.User{Username: "SeanArcher"},
	}

	got := fs.FormatPhoto(photo, "Studio session.")

	assert.Contains(t, got, "---\nid: 296328931\n")
	assert.Contains(t, got, `name: "Natasha \"Tash\""`)
	assert.Contains(t, got, `user: "SeanArcher"`)
	assert.Contains(t, got, "url: https://500px.com/photo/296328931\n")
	assert.Contains(t, got, "image: https://example.com/l.jpg\n")
	assert.Contains(t, got, "taken: 2019-03-09T16:02:11-05:00\n---\n\n")
	assert.Contains(t, got, "Studio session.")
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	photos := []*fpx.Photo{
		{ID: 1, Name: "First", User: fpx.User{Username: "a"}},
		{ID: 2, Name: "Second", User: fpx.User{Username: "b"}},
	}

	t.Run("commit moves photos and index into place", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		store := fs.NewFileStore(baseDir, "popular", nil)
		ctx := context.Background()

		for _, p := range photos {
			require.NoError(t, store.Save(ctx, p))
		}
		require.NoError(t, store.Commit())

		_, err := os.Stat(filepath.Join(baseDir, "popular.tmp"))
		assert.True(t, os.IsNotExist(err))

		data, err := os.ReadFile(filepath.Join(baseDir, "popular", "1-first.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "id: 1\n")

		index, err := os.ReadFile(filepath.Join(baseDir, "popular", "index.md"))
		require.NoError(t, err)
		assert.Equal(t, "# popular\n\n- [First](1-first.md) by @a\n- [Second](2-second.md) by @b\n", string(index))
	})

	t.Run("commit replaces previous export", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		stale := filepath.Join(baseDir, "popular", "99-stale.md")
		require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
		require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

		store := fs.NewFileStore(baseDir, "popular", nil)
		require.NoError(t, store.Save(context.Background(), photos[0]))
		require.NoError(t, store.Commit())

		_, err := os.Stat(stale)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("abort leaves previous export untouched", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		existing := filepath.Join(baseDir, "popular", "1-first.md")
		require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
		require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

		store := fs.NewFileStore(baseDir, "popular", nil)
		require.NoError(t, store.Save(context.Background(), photos[1]))
		require.NoError(t, store.Abort())

		data, err := os.ReadFile(existing)
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
		_, err = os.Stat(filepath.Join(baseDir, "popular.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("converts descriptions", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "converted: " + html, nil
			},
		}
		store := fs.NewFileStore(baseDir, "popular", conv)

		require.NoError(t, store.Save(context.Background(), &fpx.Photo{ID: 3, Description: "<p>x</p>"}))
		require.NoError(t, store.Commit())

		data, err := os.ReadFile(filepath.Join(baseDir, "popular", "3.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "converted: <p>x</p>")
	})

	t.Run("converter failure fails save", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(string) (string, error) {
				return "", errors.New("bad html")
			},
		}
		store := fs.NewFileStore(t.TempDir(), "popular", conv)

		err := store.Save(context.Background(), photos[0])

		assert.EqualError(t, err, "bad html")
	})

	t.Run("rejects photo without id", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir(), "popular", nil)

		err := store.Save(context.Background(), &fpx.Photo{Name: "x"})

		assert.Equal(t, fpx.EINVALID, fpx.ErrorCode(err))
	})
}
