// Package source provides the item lists the viewer scrolls over: generated
// demo data, files split into lines, and optionally a tailed file that keeps
// growing while it is on screen.
package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/bigscroll/bigscroll/internal/ansiext"
	"github.com/bigscroll/bigscroll/internal/csync"
)

// Source is what the list component reads from. Item may be called for any
// index in [0, Len()) and must return stable content for a given index; the
// windowing engine caches measured heights by index.
type Source interface {
	Len() int
	Item(i int) string
}

// List is an in-memory, append-only Source. Appends may come from another
// goroutine (the follower); reads always see a consistent prefix.
type List struct {
	items *csync.Slice[string]
}

// New returns an empty list.
func New() *List {
	return &List{items: csync.NewSlice[string]()}
}

// FromFile reads path into a list, one item per line.
func FromFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	l := New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Stray control characters would corrupt the terminal grid.
		l.items.Append(ansiext.Escape(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l, nil
}

// Generate returns a list of n synthetic items. Heights deliberately vary
// between one and four lines so that estimated and measured item heights
// disagree and the viewer has something to correct.
func Generate(n int) *List {
	l := New()
	for i := range n {
		l.items.Append(generateItem(i))
	}
	return l
}

func generateItem(i int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "item %06d  %s", i, uuid.NewString())
	for extra := range i % 4 {
		fmt.Fprintf(&b, "\n    detail %d of item %06d", extra+1, i)
	}
	return b.String()
}

// Append adds items to the end of the list.
func (l *List) Append(items ...string) {
	l.items.Append(items...)
}

// Len implements Source.
func (l *List) Len() int {
	return l.items.Len()
}

// Item implements Source.
func (l *List) Item(i int) string {
	s, _ := l.items.Get(i)
	return s
}
