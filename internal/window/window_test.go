package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(length int, defaultHeight float64, opts ...Option) *Engine {
	opts = append([]Option{
		WithLength(length),
		WithDefaultHeight(defaultHeight),
		WithNotifyDelay(0),
	}, opts...)
	return New(opts...)
}

func TestCalculateVisibleIndices(t *testing.T) {
	t.Parallel()

	t.Run("top of list", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()

		assert.Equal(t, 0, e.VisibleIndexTop())
		assert.Equal(t, 4, e.VisibleLength())
		assert.Equal(t, 0.0, e.PaddingTop())
		assert.InDelta(t, 99600, e.PaddingBottom(), 1e-9)
	})

	t.Run("mid-item scroll offset", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100, WithScrollTop(120))
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()

		assert.Equal(t, 1, e.VisibleIndexTop())
		assert.Equal(t, 5, e.VisibleLength())
		assert.InDelta(t, 100, e.PaddingTop(), 1e-9)
		assert.InDelta(t, 99400, e.PaddingBottom(), 1e-9)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(0, 100)
		e.CalculateVisibleIndices()

		assert.Equal(t, 0, e.VisibleIndexTop())
		assert.Equal(t, 0, e.VisibleLength())
		assert.Equal(t, 0.0, e.PaddingTop())
		assert.Equal(t, 0.0, e.PaddingBottom())
	})

	t.Run("scrolled past the end", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(10, 100, WithScrollTop(5000))
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()

		assert.Equal(t, 10, e.VisibleIndexTop())
		assert.Equal(t, 0, e.VisibleLength())
		assert.InDelta(t, 1000, e.PaddingTop(), 1e-9)
		assert.Equal(t, 0.0, e.PaddingBottom())
	})

	t.Run("rebuilds total height from measurements", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(10, 100)
		e.UpdateViewportHeight(250)
		e.CalculateVisibleIndices()
		e.UpdateHeightAtIndex(0, 40)
		e.UpdateHeightAtIndex(9, 160)
		e.CalculateVisibleIndices()

		assert.InDelta(t, 1000+60-60, e.TotalHeight(), 1e-9)
		assert.InDelta(t, e.PaddingTop()+e.sumRange(e.VisibleIndexTop(), e.bottomIndex())+e.PaddingBottom(),
			e.TotalHeight(), 1e-9)
	})
}

func TestVisibleLengthHelper(t *testing.T) {
	t.Parallel()

	t.Run("counts a fully clipped first item", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(100, 10, WithScrollTop(10))
		e.UpdateViewportHeight(30)
		e.CalculateVisibleIndices()

		// scrollTop sits exactly at the boundary: item 1 is the top item and
		// is not clipped at all, so exactly three items fill 30 units.
		assert.Equal(t, 1, e.VisibleIndexTop())
		assert.Equal(t, 3, e.VisibleLength())
	})

	t.Run("partial clip adds one more item", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(100, 10, WithScrollTop(15))
		e.UpdateViewportHeight(30)
		e.CalculateVisibleIndices()

		assert.Equal(t, 1, e.VisibleIndexTop())
		assert.Equal(t, 4, e.VisibleLength())
	})
}

func TestUpdateScrollPosition(t *testing.T) {
	t.Parallel()

	t.Run("first call delegates to a full computation", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100)
		e.UpdateViewportHeight(400)
		e.UpdateScrollPosition(120)

		assert.Equal(t, 1, e.VisibleIndexTop())
		assert.Equal(t, 5, e.VisibleLength())
		assert.InDelta(t, 100, e.PaddingTop(), 1e-9)
		assert.InDelta(t, 99400, e.PaddingBottom(), 1e-9)
	})

	t.Run("incremental matches direct jump", func(t *testing.T) {
		t.Parallel()
		for _, offsets := range [][]float64{
			{0, 120, 250, 990, 1000, 5030, 99600},
			{99600, 5030, 1000, 990, 250, 120, 0},
			{0, 50000, 49999.5, 60000, 0, 100000},
		} {
			e := newTestEngine(1000, 100)
			e.UpdateViewportHeight(400)
			e.CalculateVisibleIndices()
			for _, top := range offsets {
				e.UpdateScrollPosition(top)

				ref := newTestEngine(1000, 100, WithScrollTop(top))
				ref.UpdateViewportHeight(400)
				ref.CalculateVisibleIndices()

				assert.Equal(t, ref.VisibleIndexTop(), e.VisibleIndexTop(), "top at offset %v", top)
				assert.Equal(t, ref.VisibleLength(), e.VisibleLength(), "length at offset %v", top)
				assert.InDelta(t, ref.PaddingTop(), e.PaddingTop(), 1e-6, "paddingTop at offset %v", top)
				assert.InDelta(t, ref.PaddingBottom(), e.PaddingBottom(), 1e-6, "paddingBottom at offset %v", top)
			}
		}
	})

	t.Run("monotonic sweep is symmetric", func(t *testing.T) {
		t.Parallel()
		const (
			length        = 40
			defaultHeight = 7
			viewport      = 23
		)
		e := newTestEngine(length, defaultHeight)
		e.UpdateViewportHeight(viewport)
		e.CalculateVisibleIndices()

		total := int(e.TotalHeight())
		check := func(top int) {
			ref := newTestEngine(length, defaultHeight, WithScrollTop(float64(top)))
			ref.UpdateViewportHeight(viewport)
			ref.CalculateVisibleIndices()
			require.Equal(t, ref.VisibleIndexTop(), e.VisibleIndexTop(), "top at offset %d", top)
			require.Equal(t, ref.VisibleLength(), e.VisibleLength(), "length at offset %d", top)
			require.InDelta(t, ref.PaddingTop(), e.PaddingTop(), 1e-6, "paddingTop at offset %d", top)
			require.InDelta(t, ref.PaddingBottom(), e.PaddingBottom(), 1e-6, "paddingBottom at offset %d", top)
		}
		for top := 0; top <= total; top++ {
			e.UpdateScrollPosition(float64(top))
			check(top)
		}
		for top := total; top >= 0; top-- {
			e.UpdateScrollPosition(float64(top))
			check(top)
		}
	})

	t.Run("padding bottom is zero at the end of the list", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(50, 10)
		e.UpdateViewportHeight(45)
		e.CalculateVisibleIndices()
		for _, top := range []float64{455, 460, 470, 500} {
			e.UpdateScrollPosition(top)
			if e.bottomIndex() == e.Length()-1 {
				assert.Equal(t, 0.0, e.PaddingBottom(), "offset %v", top)
			}
		}
	})
}

func TestUpdateViewportHeight(t *testing.T) {
	t.Parallel()

	t.Run("grows the window in place", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		e.UpdateViewportHeight(600)

		assert.Equal(t, 0, e.VisibleIndexTop())
		assert.Equal(t, 6, e.VisibleLength())
		assert.InDelta(t, 99400, e.PaddingBottom(), 1e-9)
	})

	t.Run("shrinks the window and returns heights to the padding", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100)
		e.UpdateViewportHeight(600)
		e.CalculateVisibleIndices()
		e.UpdateViewportHeight(400)

		assert.Equal(t, 4, e.VisibleLength())
		assert.InDelta(t, 99600, e.PaddingBottom(), 1e-9)
	})
}

func TestUpdateLength(t *testing.T) {
	t.Parallel()

	t.Run("append keeps the window and grows the bottom padding", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		e.UpdateLength(1100)

		assert.Equal(t, 0, e.VisibleIndexTop())
		assert.Equal(t, 4, e.VisibleLength())
		assert.InDelta(t, 110000, e.TotalHeight(), 1e-9)
		assert.InDelta(t, 109600, e.PaddingBottom(), 1e-9)
	})

	t.Run("append into a short list extends the window", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(2, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		require.Equal(t, 2, e.VisibleLength())
		require.Equal(t, 0.0, e.PaddingBottom())

		e.UpdateLength(1000)

		assert.Equal(t, 4, e.VisibleLength())
		assert.InDelta(t, 99600, e.PaddingBottom(), 1e-9)
	})

	t.Run("append that stays inside the window keeps padding at zero", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(3, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		e.UpdateLength(4)

		assert.Equal(t, 4, e.VisibleLength())
		assert.Equal(t, 0.0, e.PaddingBottom())
	})

	t.Run("removal falls back to a full recompute", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100, WithScrollTop(50000))
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		e.UpdateLength(10)

		ref := newTestEngine(10, 100, WithScrollTop(50000))
		ref.UpdateViewportHeight(400)
		ref.CalculateVisibleIndices()

		assert.Equal(t, ref.VisibleIndexTop(), e.VisibleIndexTop())
		assert.Equal(t, ref.VisibleLength(), e.VisibleLength())
		assert.InDelta(t, ref.PaddingTop(), e.PaddingTop(), 1e-9)
		assert.InDelta(t, ref.PaddingBottom(), e.PaddingBottom(), 1e-9)
	})
}

func TestUpdateHeightAtIndex(t *testing.T) {
	t.Parallel()

	t.Run("below the window only moves the bottom padding", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()

		top, length := e.VisibleIndexTop(), e.VisibleLength()
		padTop, padBottom := e.PaddingTop(), e.PaddingBottom()
		total := e.TotalHeight()

		e.UpdateHeightAtIndex(500, 250)

		assert.Equal(t, top, e.VisibleIndexTop())
		assert.Equal(t, length, e.VisibleLength())
		assert.Equal(t, padTop, e.PaddingTop())
		assert.InDelta(t, padBottom+150, e.PaddingBottom(), 1e-9)
		assert.InDelta(t, total+150, e.TotalHeight(), 1e-9)
	})

	t.Run("above the window moves the top padding", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100, WithScrollTop(1050))
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		require.Equal(t, 10, e.VisibleIndexTop())

		e.UpdateHeightAtIndex(0, 80)

		assert.InDelta(t, 980, e.PaddingTop(), 1e-9)
		assert.InDelta(t, 1050, e.ScrollTop(), 1e-9)
	})

	t.Run("growth above the window drags the scroll offset along", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100, WithScrollTop(1000))
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		require.Equal(t, 10, e.VisibleIndexTop())
		require.InDelta(t, 1000, e.PaddingTop(), 1e-9)

		e.UpdateHeightAtIndex(0, 150)

		assert.InDelta(t, 1050, e.PaddingTop(), 1e-9)
		assert.InDelta(t, 1050, e.ScrollTop(), 1e-9)
	})

	t.Run("inside the window resizes the window", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(1000, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		require.Equal(t, 4, e.VisibleLength())

		// Item 0 grows to fill most of the viewport; later items fall out.
		e.UpdateHeightAtIndex(0, 350)

		assert.Equal(t, 0, e.VisibleIndexTop())
		assert.Equal(t, 2, e.VisibleLength())
		assert.InDelta(t, 100250, e.TotalHeight(), 1e-9)
	})

	t.Run("beyond the known end is recorded without side effects", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(10, 100)
		e.UpdateViewportHeight(400)
		e.CalculateVisibleIndices()
		before := e.State()

		e.UpdateHeightAtIndex(50, 250)
		assert.Equal(t, before, e.State())

		// Growing the list later picks the measurement up.
		e.UpdateLength(100)
		e.CalculateVisibleIndices()
		assert.InDelta(t, 100*99+250, e.TotalHeight(), 1e-9)
	})
}

// Incremental updates are an optimization of the full recompute, never a
// different answer: replay a mixed mutation sequence against a second engine
// that recomputes from scratch after every step.
func TestIncrementalMatchesFullRecompute(t *testing.T) {
	t.Parallel()

	type step func(*Engine)
	steps := []step{
		func(e *Engine) { e.UpdateViewportHeight(400) },
		func(e *Engine) { e.UpdateLength(200) },
		func(e *Engine) { e.UpdateScrollPosition(0) },
		func(e *Engine) { e.UpdateScrollPosition(330) },
		func(e *Engine) { e.UpdateHeightAtIndex(150, 40) },
		func(e *Engine) { e.UpdateScrollPosition(510) },
		func(e *Engine) { e.UpdateLength(400) },
		func(e *Engine) { e.UpdateScrollPosition(211) },
		func(e *Engine) { e.UpdateViewportHeight(250) },
		func(e *Engine) { e.UpdateScrollPosition(4000) },
		func(e *Engine) { e.UpdateScrollPosition(3999) },
		func(e *Engine) { e.UpdateLength(120) },
		func(e *Engine) { e.UpdateScrollPosition(700) },
	}

	inc := newTestEngine(0, 50)
	full := newTestEngine(0, 50)
	for i, s := range steps {
		s(inc)
		s(full)
		full.CalculateVisibleIndices()

		require.Equal(t, full.VisibleIndexTop(), inc.VisibleIndexTop(), "step %d", i)
		require.Equal(t, full.VisibleLength(), inc.VisibleLength(), "step %d", i)
		require.InDelta(t, full.PaddingTop(), inc.PaddingTop(), 1e-6, "step %d", i)
		// The average-height floor may overshoot the exact sum slightly once
		// measured heights diverge from the estimate; the drift stays well
		// under one default item height.
		require.InDelta(t, full.PaddingBottom(), inc.PaddingBottom(), 50, "step %d", i)
	}
}

func TestNoOpMutations(t *testing.T) {
	t.Parallel()

	e := newTestEngine(1000, 100, WithScrollTop(120))
	e.UpdateViewportHeight(400)
	e.CalculateVisibleIndices()

	var fired int
	cancel := e.OnChange(func(Snapshot) { fired++ })
	defer cancel()

	before := e.State()
	e.UpdateViewportHeight(400)
	e.UpdateScrollPosition(120)
	e.UpdateLength(1000)
	e.UpdateHeightAtIndex(3, 100) // equals the current estimate

	assert.Equal(t, before, e.State())
	assert.Equal(t, 0, fired)
}

func TestStateReadsAreImmediate(t *testing.T) {
	t.Parallel()

	// A long notify delay must not make reads stale.
	e := New(WithLength(100), WithDefaultHeight(10), WithNotifyDelay(DefaultNotifyDelay))
	e.UpdateViewportHeight(50)
	e.CalculateVisibleIndices()
	e.UpdateScrollPosition(25)

	assert.Equal(t, 2, e.VisibleIndexTop())
	assert.InDelta(t, 25, e.ScrollTop(), 1e-9)
}
