package crawl_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taralika/scrape2md/crawl"
)

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("pops in FIFO order", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		require.True(t, f.Push("https://example.com/a", 0))
		require.True(t, f.Push("https://example.com/b", 1))
		require.True(t, f.Push("https://example.com/c", 1))

		task, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, "https://example.com/a", task.URL)
		assert.Equal(t, 0, task.Depth)

		task, _ = f.Pop()
		assert.Equal(t, "https://example.com/b", task.URL)

		task, _ = f.Pop()
		assert.Equal(t, "https://example.com/c", task.URL)

		_, ok = f.Pop()
		assert.False(t, ok)
	})

	t.Run("rejects already seen URLs", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		require.True(t, f.Push("https://example.com/a", 0))
		assert.False(t, f.Push("https://example.com/a", 5))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("popped URLs stay seen", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		f.Push("https://example.com/a", 0)
		_, _ = f.Pop()

		assert.True(t, f.Seen("https://example.com/a"))
		assert.False(t, f.Push("https://example.com/a", 1))
	})

	t.Run("tracks length", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier()
		assert.Equal(t, 0, f.Len())

		for i := 0; i < 100; i++ {
			f.Push(fmt.Sprintf("https://example.com/page/%d", i), 1)
		}
		assert.Equal(t, 100, f.Len())
	})
}
