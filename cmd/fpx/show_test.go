package main_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/fpx"
	main "github.com/fwojciec/fpx/cmd/fpx"
	"github.com/fwojciec/fpx/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	photos := map[int64]*fpx.Photo{
		1: {
			ID:          1,
			Name:        "Natasha",
			Description: "<p>Studio</p>",
			User:        fpx.User{Username: "SeanArcher", Fullname: "Sean Archer"},
			Images:      []fpx.Image{{Size: fpx.ImageSizeLarge, URL: "https://example.com/l.jpg"}},
		},
		2: {ID: 2, Name: "Dunes", User: fpx.User{Username: "sand"}},
	}
	finder := &mock.PhotoFinder{
		FindPhotoByIDFn: func(_ context.Context, id int64) (*fpx.Photo, error) {
			if p, ok := photos[id]; ok {
				return p, nil
			}
			return nil, fpx.Errorf(fpx.ENOTFOUND, "photo not found")
		},
	}
	converter := &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			if html == "<p>Studio</p>" {
				return "Studio", nil
			}
			return html, nil
		},
	}

	t.Run("prints details in argument order", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Finder = finder
		deps.Converter = converter
		cmd := &main.ShowCmd{IDs: []int64{2, 1}, Concurrency: 2}

		require.NoError(t, cmd.Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "Natasha\nby Sean Archer (@SeanArcher)\n")
		assert.Contains(t, out, "\nStudio\n")
		assert.Contains(t, out, "https://example.com/l.jpg")
		assert.Less(t, strings.Index(out, "Dunes"), strings.Index(out, "Natasha"))
	})

	t.Run("uses text converter for plain output", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Finder = finder
		deps.Converter = converter
		deps.TextConverter = &mock.Converter{
			ConvertFn: func(string) (string, error) { return "plain studio", nil },
		}
		cmd := &main.ShowCmd{IDs: []int64{1}, Concurrency: 1, Plain: true}

		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "\nplain studio\n")
	})

	t.Run("fails when a photo is missing", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps(nil)
		deps.Finder = finder
		deps.Converter = converter
		cmd := &main.ShowCmd{IDs: []int64{1, 99}, Concurrency: 4}

		err := cmd.Run(deps)

		assert.Equal(t, fpx.ENOTFOUND, fpx.ErrorCode(err))
		assert.Contains(t, stderr.String(), "photo not found")
		assert.Empty(t, stdout.String())
	})
}
