// Package window maintains the windowing state for virtual scrolling over
// very large lists: which index range is rendered, and how much blank space
// stands in for everything outside that range so scrollbar geometry behaves
// as if every item were real.
//
// The engine is pure bookkeeping. It knows nothing about terminals, pixels
// or widgets; a host feeds it viewport size, scroll offsets and measured
// item heights, and reads back the window and paddings after each mutation.
package window

import (
	"time"

	"github.com/bigscroll/bigscroll/internal/csync"
)

// DefaultNotifyDelay is how long change notifications may be held back so
// that a burst of mutations inside one frame collapses into one callback.
const DefaultNotifyDelay = 16 * time.Millisecond

// Engine tracks the rendered window over a list of length items. Items that
// have never been measured are assumed to be defaultHeight tall; measured
// heights overwrite the estimate one index at a time and the paddings are
// adjusted incrementally rather than rescanned.
//
// All mutations are synchronous and run to completion before returning. The
// engine expects a single logical owner performing mutations serially; only
// the height table and the subscriber registry are safe for concurrent
// readers (the coalescing notifier fires on a timer goroutine).
type Engine struct {
	length         int
	viewportHeight float64
	defaultHeight  float64
	scrollTop      float64

	heights *csync.Map[int, float64]

	totalHeight     float64
	visibleIndexTop int
	visibleLength   int
	paddingTop      float64
	paddingBottom   float64

	// calculated flips to true after the first full computation; until then
	// scroll updates cannot take the incremental path because there is no
	// prior window to walk from.
	calculated bool

	notifier *notifier
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDefaultHeight sets the estimated height used for items that have not
// been measured yet.
func WithDefaultHeight(height float64) Option {
	return func(e *Engine) {
		e.defaultHeight = height
	}
}

// WithScrollTop sets the initial scroll offset.
func WithScrollTop(top float64) Option {
	return func(e *Engine) {
		e.scrollTop = top
	}
}

// WithLength sets the initial number of items.
func WithLength(length int) Option {
	return func(e *Engine) {
		e.length = length
	}
}

// WithNotifyDelay sets the maximum time a change notification is held back
// for coalescing. Zero (or negative) delivers synchronously inside the
// mutation, which is mostly useful in tests.
func WithNotifyDelay(delay time.Duration) Option {
	return func(e *Engine) {
		e.notifier.delay = delay
	}
}

// New creates an engine. Unset fields default to a viewport height of 1, a
// length of 0 and a default height of 0; the total height starts as
// length times the default height.
func New(opts ...Option) *Engine {
	e := &Engine{
		viewportHeight: 1,
		heights:        csync.NewMap[int, float64](),
		notifier:       newNotifier(DefaultNotifyDelay),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.totalHeight = float64(e.length) * e.defaultHeight
	return e
}

// Snapshot is the derived state handed to subscribers. Hosts receive a
// snapshot, not a diff: several mutations inside one notify window collapse
// into the snapshot taken after the last of them.
type Snapshot struct {
	Length          int
	ViewportHeight  float64
	DefaultHeight   float64
	ScrollTop       float64
	TotalHeight     float64
	VisibleIndexTop int
	VisibleLength   int
	PaddingTop      float64
	PaddingBottom   float64
}

// State returns the current derived state. Reads never recompute anything;
// they reflect the last mutation immediately, even before subscribers hear
// about it.
func (e *Engine) State() Snapshot {
	return Snapshot{
		Length:          e.length,
		ViewportHeight:  e.viewportHeight,
		DefaultHeight:   e.defaultHeight,
		ScrollTop:       e.scrollTop,
		TotalHeight:     e.totalHeight,
		VisibleIndexTop: e.visibleIndexTop,
		VisibleLength:   e.visibleLength,
		PaddingTop:      e.paddingTop,
		PaddingBottom:   e.paddingBottom,
	}
}

// Length returns the total number of items.
func (e *Engine) Length() int { return e.length }

// ViewportHeight returns the visible extent of the scroll container.
func (e *Engine) ViewportHeight() float64 { return e.viewportHeight }

// DefaultHeight returns the estimate used for unmeasured items.
func (e *Engine) DefaultHeight() float64 { return e.defaultHeight }

// ScrollTop returns the current scroll offset.
func (e *Engine) ScrollTop() float64 { return e.scrollTop }

// TotalHeight returns the running estimate of the summed item heights.
func (e *Engine) TotalHeight() float64 { return e.totalHeight }

// VisibleIndexTop returns the first rendered index.
func (e *Engine) VisibleIndexTop() int { return e.visibleIndexTop }

// VisibleLength returns the number of rendered indices.
func (e *Engine) VisibleLength() int { return e.visibleLength }

// PaddingTop returns the estimated height of everything above the window.
func (e *Engine) PaddingTop() float64 { return e.paddingTop }

// PaddingBottom returns the estimated height of everything below the window.
func (e *Engine) PaddingBottom() float64 { return e.paddingBottom }

// OnChange registers a callback invoked after any mutation that alters
// derived state and returns a function that deregisters it. Deliveries are
// coalesced: the callback fires at most once per notify delay, with the
// latest snapshot.
func (e *Engine) OnChange(fn func(Snapshot)) (cancel func()) {
	return e.notifier.subscribe(fn)
}

// Flush delivers any pending change notification synchronously. Hosts that
// drain once per frame can call this instead of waiting out the delay.
func (e *Engine) Flush() {
	e.notifier.flush()
}

// heightAt returns the height attributed to index i: the measured height if
// one was reported, the default estimate otherwise, and zero for any index
// outside [0, length).
func (e *Engine) heightAt(i int) float64 {
	if i < 0 || i >= e.length {
		return 0
	}
	if h, ok := e.heights.Get(i); ok {
		return h
	}
	return e.defaultHeight
}

// sumRange returns the summed heights of indices lo through hi inclusive.
func (e *Engine) sumRange(lo, hi int) float64 {
	var sum float64
	for i := max(lo, 0); i <= hi && i < e.length; i++ {
		sum += e.heightAt(i)
	}
	return sum
}

// bottomIndex returns the last index inside the window. With an empty
// window this is visibleIndexTop-1.
func (e *Engine) bottomIndex() int {
	return e.visibleIndexTop + e.visibleLength - 1
}

// visibleLengthFrom counts how many items starting at top are at least
// partially inside the viewport. The portion of the top item already
// scrolled past is charged against the budget first, so a fully clipped
// first item still counts.
func (e *Engine) visibleLengthFrom(top int, paddingTop float64) int {
	clipped := e.scrollTop - paddingTop
	if clipped < 0 {
		clipped = 0
	}
	visible := -clipped
	var n int
	for i := top; i < e.length && visible < e.viewportHeight; i++ {
		visible += e.heightAt(i)
		n++
	}
	return n
}

// adjustPaddingBottom reconciles paddingBottom after the window's bottom
// edge moved from prevBottom to its current position. At the end of the
// list the padding is forced to exactly zero, which cancels any drift the
// incremental adjustments accumulated; everywhere else it is floored at the
// average item height times the number of items below the window, bounding
// underestimation at the cost of occasional small overshoot.
func (e *Engine) adjustPaddingBottom(prevBottom int) {
	if e.length == 0 {
		e.paddingBottom = 0
		return
	}
	bottom := e.bottomIndex()
	switch {
	case bottom >= e.length-1:
		e.paddingBottom = 0
	case bottom < prevBottom:
		e.paddingBottom += e.sumRange(bottom+1, prevBottom)
	case bottom > prevBottom:
		e.paddingBottom -= e.sumRange(prevBottom+1, bottom)
		if e.paddingBottom < 0 {
			e.paddingBottom = 0
		}
	}
	if below := e.length - 1 - bottom; below > 0 {
		if floor := float64(below) * e.totalHeight / float64(e.length); e.paddingBottom < floor {
			e.paddingBottom = floor
		}
	}
}

// CalculateVisibleIndices recomputes the window and both paddings from
// scratch, scanning from the top of the list. O(length) worst case; every
// other mutation exists to avoid calling this on each scroll tick. It also
// rebuilds totalHeight from the same scan, which makes it the correctness
// backstop after lossy incremental adjustments.
func (e *Engine) CalculateVisibleIndices() {
	e.visibleIndexTop = 0
	e.paddingTop = 0
	if e.scrollTop != 0 {
		var sum float64
		idx := e.length
		for i := 0; i < e.length; i++ {
			h := e.heightAt(i)
			if sum+h > e.scrollTop {
				idx = i
				break
			}
			sum += h
		}
		e.visibleIndexTop = idx
		e.paddingTop = sum
	}
	e.visibleLength = e.visibleLengthFrom(e.visibleIndexTop, e.paddingTop)
	bottom := e.bottomIndex()
	e.paddingBottom = e.sumRange(bottom+1, e.length-1)
	e.totalHeight = e.paddingTop + e.sumRange(e.visibleIndexTop, bottom) + e.paddingBottom
	e.calculated = true
	e.publish()
}

// UpdateViewportHeight records a new viewport height and resizes the window
// in place: the top index is unchanged, only the count of visible items and
// the bottom padding move.
func (e *Engine) UpdateViewportHeight(height float64) {
	if height == e.viewportHeight {
		return
	}
	prevBottom := e.bottomIndex()
	e.viewportHeight = height
	e.visibleLength = e.visibleLengthFrom(e.visibleIndexTop, e.paddingTop)
	e.adjustPaddingBottom(prevBottom)
	e.publish()
}

// UpdateLength records a new item count. Appends are handled incrementally:
// the appended items are credited to paddingBottom at the default height and
// the window is then allowed to claim whichever of them became visible.
// Removal can invalidate the top index itself, not just the tail, so it
// falls back to a full recompute.
func (e *Engine) UpdateLength(length int) {
	if length == e.length {
		return
	}
	old := e.length
	e.totalHeight += float64(length-old) * e.defaultHeight
	e.length = length
	if length < old {
		e.CalculateVisibleIndices()
		return
	}
	prevBottom := e.bottomIndex()
	e.paddingBottom += float64(length-old) * e.defaultHeight
	e.visibleLength = e.visibleLengthFrom(e.visibleIndexTop, e.paddingTop)
	e.adjustPaddingBottom(prevBottom)
	e.publish()
}

// UpdateScrollPosition records a new scroll offset and walks the window top
// in the direction of the delta, so a one-line scroll touches a couple of
// indices instead of rescanning the list. The very first call delegates to
// CalculateVisibleIndices since there is no window to walk from yet.
func (e *Engine) UpdateScrollPosition(top float64) {
	if !e.calculated {
		e.scrollTop = top
		e.CalculateVisibleIndices()
		return
	}
	if top == e.scrollTop {
		return
	}
	prevBottom := e.bottomIndex()
	if top < e.scrollTop {
		for e.visibleIndexTop > 0 && e.paddingTop > top {
			e.visibleIndexTop--
			e.paddingTop -= e.heightAt(e.visibleIndexTop)
		}
		if e.paddingTop < 0 {
			e.paddingTop = 0
		}
	} else {
		for e.visibleIndexTop < e.length && e.paddingTop+e.heightAt(e.visibleIndexTop) <= top {
			e.paddingTop += e.heightAt(e.visibleIndexTop)
			e.visibleIndexTop++
		}
	}
	e.scrollTop = top
	e.visibleLength = e.visibleLengthFrom(e.visibleIndexTop, e.paddingTop)
	e.adjustPaddingBottom(prevBottom)
	e.publish()
}

// UpdateHeightAtIndex records the measured height for one item, overwriting
// any previous estimate or measurement, and shifts the delta into whichever
// region the item occupies. An index at or beyond the current length is
// recorded for later but contributes nothing yet.
func (e *Engine) UpdateHeightAtIndex(index int, height float64) {
	old := e.defaultHeight
	if h, ok := e.heights.Get(index); ok {
		old = h
	}
	if height == old {
		return
	}
	e.heights.Set(index, height)
	if index >= e.length {
		return
	}
	delta := height - old
	e.totalHeight += delta
	bottom := e.bottomIndex()
	switch {
	case index > bottom:
		e.paddingBottom += delta
	case index < e.visibleIndexTop:
		e.paddingTop += delta
		// The item grew enough to intrude into the viewport; move the
		// scroll offset with it so the view does not visually jump.
		if e.paddingTop > e.scrollTop {
			e.scrollTop = e.paddingTop
		}
	default:
		e.visibleLength = e.visibleLengthFrom(e.visibleIndexTop, e.paddingTop)
		e.adjustPaddingBottom(bottom)
	}
	e.publish()
}

func (e *Engine) publish() {
	e.notifier.publish(e.State())
}
