package styles

import (
	"image/color"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

type Theme struct {
	Name   string
	IsDark bool

	Primary color.Color
	Accent  color.Color

	BgBase   color.Color
	BgSubtle color.Color

	FgBase     color.Color
	FgMuted    color.Color
	FgSubtle   color.Color
	FgSelected color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles *Styles
}

type Styles struct {
	Base lipgloss.Style

	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Accent   lipgloss.Style
	Selected lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Help help.Styles
}

func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().
		Foreground(t.FgBase)
	return &Styles{
		Base: base,

		Text:     base,
		Muted:    base.Foreground(t.FgMuted),
		Subtle:   base.Foreground(t.FgSubtle),
		Accent:   base.Foreground(t.Accent),
		Selected: base.Foreground(t.FgSelected).Background(t.Primary),

		Success: base.Foreground(t.Success),
		Error:   base.Foreground(t.Error),
		Warning: base.Foreground(t.Warning),
		Info:    base.Foreground(t.Info),

		Help: help.Styles{
			ShortKey:       base.Foreground(t.FgMuted),
			ShortDesc:      base.Foreground(t.FgSubtle),
			ShortSeparator: base.Foreground(t.FgSubtle),
			FullKey:        base.Foreground(t.FgMuted),
			FullDesc:       base.Foreground(t.FgSubtle),
			FullSeparator:  base.Foreground(t.FgSubtle),
			Ellipsis:       base.Foreground(t.FgSubtle),
		},
	}
}

var current *Theme

// CurrentTheme returns the active theme, building the default on first use.
func CurrentTheme() *Theme {
	if current == nil {
		current = NewDefaultTheme()
	}
	return current
}

func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "bigscroll",
		IsDark: true,

		Primary: charmtone.Charple,
		Accent:  charmtone.Zest,

		BgBase:   charmtone.Pepper,
		BgSubtle: charmtone.Charcoal,

		FgBase:     charmtone.Ash,
		FgMuted:    charmtone.Squid,
		FgSubtle:   charmtone.Oyster,
		FgSelected: charmtone.Salt,

		Success: charmtone.Guac,
		Error:   charmtone.Sriracha,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,
	}
}
