// Package biglist renders a source of millions of items inside a fixed
// viewport. Only the items the windowing engine reports as visible are
// ever materialized; everything above and below is represented by the
// engine's padding estimates.
package biglist

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/bigscroll/bigscroll/internal/source"
	"github.com/bigscroll/bigscroll/internal/tui/components/core/layout"
	"github.com/bigscroll/bigscroll/internal/tui/util"
	"github.com/bigscroll/bigscroll/internal/window"
)

// WindowChangedMsg is published whenever the engine's visible window
// settles after a burst of mutations.
type WindowChangedMsg struct {
	State window.Snapshot
}

const wheelScrollLines = 3

type BigList interface {
	util.Model
	layout.Sizeable
	layout.Help

	// Window reports the engine state backing the current frame.
	Window() window.Snapshot

	// Refresh reconciles the engine with the source length, keeping the
	// view pinned to the bottom when it already was.
	Refresh() tea.Cmd

	// Subscribe forwards settled window changes as WindowChangedMsg
	// through send. The returned func cancels the subscription.
	Subscribe(send func(tea.Msg)) (cancel func())
}

type list struct {
	width, height int
	keyMap        KeyMap

	src source.Source
	eng *window.Engine

	defaultHeight float64

	laidOut bool
	stick   bool
}

type Option func(*list)

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(l *list) {
		l.keyMap = k
	}
}

// WithDefaultHeight sets the estimated height, in terminal rows, of an
// unmeasured item.
func WithDefaultHeight(rows float64) Option {
	return func(l *list) {
		l.defaultHeight = rows
	}
}

func New(src source.Source, opts ...Option) BigList {
	l := &list{
		src:           src,
		keyMap:        DefaultKeyMap(),
		defaultHeight: 1,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.eng = window.New(
		window.WithLength(src.Len()),
		window.WithDefaultHeight(l.defaultHeight),
	)
	return l
}

func (l *list) Init() tea.Cmd {
	return nil
}

func (l *list) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return l, l.handleKeyPress(msg)
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			return l, l.scrollBy(-wheelScrollLines)
		case tea.MouseWheelDown:
			return l, l.scrollBy(wheelScrollLines)
		}
	}
	return l, nil
}

func (l *list) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, l.keyMap.Down):
		return l.scrollBy(1)
	case key.Matches(msg, l.keyMap.Up):
		return l.scrollBy(-1)
	case key.Matches(msg, l.keyMap.PageDown):
		return l.scrollBy(l.eng.ViewportHeight())
	case key.Matches(msg, l.keyMap.PageUp):
		return l.scrollBy(-l.eng.ViewportHeight())
	case key.Matches(msg, l.keyMap.HalfPageDown):
		return l.scrollBy(l.eng.ViewportHeight() / 2)
	case key.Matches(msg, l.keyMap.HalfPageUp):
		return l.scrollBy(-l.eng.ViewportHeight() / 2)
	case key.Matches(msg, l.keyMap.Home):
		return l.scrollTo(0)
	case key.Matches(msg, l.keyMap.End):
		return l.scrollTo(l.eng.TotalHeight())
	}
	return nil
}

func (l *list) scrollBy(delta float64) tea.Cmd {
	return l.scrollTo(l.eng.ScrollTop() + delta)
}

func (l *list) scrollTo(top float64) tea.Cmd {
	limit := math.Max(0, l.eng.TotalHeight()-l.eng.ViewportHeight())
	l.eng.UpdateScrollPosition(math.Max(0, math.Min(top, limit)))
	l.stick = l.atBottom()
	return nil
}

// atBottom reports whether the viewport is pinned to the end of the
// list according to the engine's running total-height estimate.
func (l *list) atBottom() bool {
	return l.eng.ScrollTop()+l.eng.ViewportHeight() >= l.eng.TotalHeight()-0.5
}

func (l *list) SetSize(width, height int) tea.Cmd {
	l.width = width
	l.height = height
	l.eng.UpdateViewportHeight(float64(height))
	if !l.laidOut {
		l.eng.CalculateVisibleIndices()
		l.laidOut = true
	}
	if l.stick {
		return l.scrollTo(l.eng.TotalHeight())
	}
	return nil
}

func (l *list) GetSize() (int, int) {
	return l.width, l.height
}

func (l *list) Refresh() tea.Cmd {
	stick := l.stick
	l.eng.UpdateLength(l.src.Len())
	if stick {
		return l.scrollTo(l.eng.TotalHeight())
	}
	return nil
}

func (l *list) Window() window.Snapshot {
	return l.eng.State()
}

func (l *list) Subscribe(send func(tea.Msg)) (cancel func()) {
	return l.eng.OnChange(func(s window.Snapshot) {
		send(WindowChangedMsg{State: s})
	})
}

func (l *list) Bindings() []key.Binding {
	return l.keyMap.KeyBindings()
}

func (l *list) View() tea.View {
	return tea.NewView(l.render())
}

// render materializes the visible window. Items are measured as they
// are drawn; the engine folds each measurement into its height table so
// scroll math improves frame over frame.
func (l *list) render() string {
	if l.width <= 0 || l.height <= 0 {
		return ""
	}
	top := l.eng.VisibleIndexTop()
	clip := max(0, int(l.eng.ScrollTop()-l.eng.PaddingTop()))

	var lines []string
	for i := top; i < l.src.Len() && len(lines) < l.height+clip; i++ {
		item := l.src.Item(i)
		l.eng.UpdateHeightAtIndex(i, float64(lipgloss.Height(item)))
		lines = append(lines, strings.Split(item, "\n")...)
	}
	if clip >= len(lines) {
		lines = nil
	} else {
		lines = lines[clip:]
	}
	if len(lines) > l.height {
		lines = lines[:l.height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, l.width, "…")
	}
	for len(lines) < l.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
