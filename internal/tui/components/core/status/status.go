package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/bigscroll/bigscroll/internal/tui/components/core/layout"
	"github.com/bigscroll/bigscroll/internal/tui/styles"
	"github.com/bigscroll/bigscroll/internal/tui/util"
	"github.com/bigscroll/bigscroll/internal/window"
)

type StatusCmp interface {
	util.Model

	// SetWindow updates the scroll position readout.
	SetWindow(s window.Snapshot)
	// SetKeyMap sets the bindings rendered in the short help line.
	SetKeyMap(h layout.Help)
}

type statusCmp struct {
	info       util.InfoMsg
	width      int
	messageTTL time.Duration
	win        window.Snapshot
	keys       layout.Help
	help       help.Model
}

// clearMessageCmd is a command that clears status messages after a timeout
func (m *statusCmp) clearMessageCmd(ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return util.ClearStatusMsg{}
	})
}

func (m *statusCmp) Init() tea.Cmd {
	return nil
}

func (m *statusCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case util.InfoMsg:
		m.info = msg
		ttl := msg.TTL
		if ttl == 0 {
			ttl = m.messageTTL
		}
		return m, m.clearMessageCmd(ttl)
	case util.ClearStatusMsg:
		m.info = util.InfoMsg{}
	}
	return m, nil
}

func (m *statusCmp) SetWindow(s window.Snapshot) {
	m.win = s
}

func (m *statusCmp) SetKeyMap(h layout.Help) {
	m.keys = h
}

// position renders the window readout, e.g. "1200-1214/2000000 60%".
func (m *statusCmp) position() string {
	s := m.win
	if s.Length == 0 {
		return "empty"
	}
	pct := 0.0
	if s.TotalHeight > s.ViewportHeight {
		pct = s.ScrollTop / (s.TotalHeight - s.ViewportHeight) * 100
	}
	return fmt.Sprintf("%d-%d/%d %3.f%%",
		s.VisibleIndexTop,
		s.VisibleIndexTop+s.VisibleLength-1,
		s.Length,
		pct,
	)
}

func (m *statusCmp) View() tea.View {
	t := styles.CurrentTheme()
	status := t.S().Base.Padding(0, 1).Render(m.shortHelp())
	if m.info.Msg != "" {
		switch m.info.Type {
		case util.InfoTypeError:
			status = t.S().Base.Background(t.Error).Padding(0, 1).Width(m.width).Render(m.info.Msg)
		case util.InfoTypeWarn:
			status = t.S().Base.Background(t.Warning).Padding(0, 1).Width(m.width).Render(m.info.Msg)
		default:
			status = t.S().Base.Background(t.Info).Padding(0, 1).Width(m.width).Render(m.info.Msg)
		}
		return tea.NewView(status)
	}
	pos := t.S().Muted.Padding(0, 1).Render(m.position())
	gap := m.width - lipgloss.Width(status) - lipgloss.Width(pos)
	if gap < 0 {
		gap = 0
	}
	line := status + t.S().Base.Width(gap).Render("") + pos
	return tea.NewView(line)
}

func (m *statusCmp) shortHelp() string {
	if m.keys == nil {
		return ""
	}
	return m.help.ShortHelpView(m.keys.Bindings())
}

func NewStatusCmp() StatusCmp {
	t := styles.CurrentTheme()
	help := help.New()
	help.Styles = t.S().Help
	return &statusCmp{
		messageTTL: 10 * time.Second,
		help:       help,
	}
}
