package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/fpx/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts paragraph with emphasis", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Studio session, <b>natural light</b>.</p>`)

		require.NoError(t, err)
		assert.Equal(t, "Studio session, **natural light**.", md)
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`Follow me on <a href="https://example.com/me">my site</a>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[my site](https://example.com/me)")
	})

	t.Run("converts line breaks", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>First</p><p>Second</p>`)

		require.NoError(t, err)
		assert.Equal(t, "First\n\nSecond", md)
	})

	t.Run("returns plain text unchanged", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert("  Golden hour\nat the pier  ")

		require.NoError(t, err)
		assert.Equal(t, "Golden hour\nat the pier", md)
	})

	t.Run("blank input converts to empty string", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(" \n\t ")

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}
