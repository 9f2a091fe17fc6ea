package tui

import (
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/bigscroll/bigscroll/internal/tui/components/biglist"
	"github.com/bigscroll/bigscroll/internal/tui/components/core/status"
	"github.com/bigscroll/bigscroll/internal/tui/styles"
	"github.com/bigscroll/bigscroll/internal/tui/util"
)

// SourceGrewMsg is sent from outside the program loop when the backing
// source gained items, e.g. while following a file.
type SourceGrewMsg struct {
	Total int
}

// appModel wires the list viewport and the status bar together.
type appModel struct {
	width, height int
	keyMap        KeyMap

	list   biglist.BigList
	status status.StatusCmp
}

func (a *appModel) Init() tea.Cmd {
	a.status.SetKeyMap(a.list)
	return tea.Batch(a.list.Init(), a.status.Init())
}

func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a, a.handleWindowResize(msg)
	case tea.KeyPressMsg:
		if key.Matches(msg, a.keyMap.Quit) {
			return a, tea.Quit
		}
	case biglist.WindowChangedMsg:
		a.status.SetWindow(msg.State)
		return a, nil
	case SourceGrewMsg:
		cmd := a.list.Refresh()
		a.status.SetWindow(a.list.Window())
		return a, cmd
	case util.InfoMsg, util.ClearStatusMsg:
		s, cmd := a.status.Update(msg)
		a.status = s.(status.StatusCmp)
		return a, cmd
	}
	u, cmd := a.list.Update(msg)
	a.list = u.(biglist.BigList)
	a.status.SetWindow(a.list.Window())
	return a, cmd
}

// handleWindowResize sizes the list to everything above the status bar.
func (a *appModel) handleWindowResize(msg tea.WindowSizeMsg) tea.Cmd {
	var cmds []tea.Cmd
	a.width, a.height = msg.Width, msg.Height

	s, cmd := a.status.Update(msg)
	a.status = s.(status.StatusCmp)
	cmds = append(cmds, cmd)

	cmds = append(cmds, a.list.SetSize(msg.Width, msg.Height-1))
	a.status.SetWindow(a.list.Window())
	return tea.Batch(cmds...)
}

func (a *appModel) View() tea.View {
	t := styles.CurrentTheme()
	listView := a.list.View()
	appView := lipgloss.JoinVertical(
		lipgloss.Top,
		listView.String(),
		a.status.View().String(),
	)
	view := tea.NewView(appView)
	view.SetBackgroundColor(t.BgBase)
	return view
}

// Subscribe forwards settled window changes into the program loop.
// Call it after the program is created, cancel when it exits.
func (a *appModel) Subscribe(send func(tea.Msg)) (cancel func()) {
	return a.list.Subscribe(send)
}

// Model is the top level program model.
type Model interface {
	util.Model

	Subscribe(send func(tea.Msg)) (cancel func())
}

func New(list biglist.BigList) Model {
	return &appModel{
		keyMap: DefaultKeyMap(),
		list:   list,
		status: status.NewStatusCmp(),
	}
}
