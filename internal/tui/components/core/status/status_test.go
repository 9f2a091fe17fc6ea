package status

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigscroll/bigscroll/internal/tui/util"
	"github.com/bigscroll/bigscroll/internal/window"
)

func TestPositionReadout(t *testing.T) {
	t.Parallel()
	m := NewStatusCmp().(*statusCmp)

	m.SetWindow(window.Snapshot{
		Length:          100,
		VisibleIndexTop: 10,
		VisibleLength:   5,
		ScrollTop:       50,
		TotalHeight:     1000,
		ViewportHeight:  100,
	})
	assert.Equal(t, "10-14/100   6%", m.position())

	m.SetWindow(window.Snapshot{})
	assert.Equal(t, "empty", m.position())
}

func TestInfoMessageReplacesReadout(t *testing.T) {
	t.Parallel()
	m := NewStatusCmp().(*statusCmp)
	m.width = 40

	u, cmd := m.Update(util.InfoMsg{Type: util.InfoTypeError, Msg: "boom"})
	m = u.(*statusCmp)
	require.NotNil(t, cmd, "expected a clear timer command")
	assert.True(t, strings.Contains(m.View().String(), "boom"))

	u, _ = m.Update(util.ClearStatusMsg{})
	m = u.(*statusCmp)
	assert.False(t, strings.Contains(m.View().String(), "boom"))
}
