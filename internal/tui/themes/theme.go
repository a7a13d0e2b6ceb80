// Package themes holds the color palettes of the console.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Faint         lipgloss.Style
	Code          lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	Income        lipgloss.Style
	Outcome       lipgloss.Style
	Card          lipgloss.Style
	Editing       lipgloss.Style
	Confirming    lipgloss.Style
	BorderedBox   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, warning, errc, info lipgloss.Color
	foreground, subtle, border, muted, code          lipgloss.Color
	selectedText                                     lipgloss.Color
}

func build(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.errc,
		Info:       p.info,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Faint: lipgloss.NewStyle().
			Foreground(p.muted),
		Code: lipgloss.NewStyle().
			Background(p.code).
			Foreground(p.foreground).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.selectedText).
			Bold(true),
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			BorderBottom(true).
			Bold(true).
			Padding(0, 1),
		Income: lipgloss.NewStyle().
			Foreground(p.success),
		Outcome: lipgloss.NewStyle().
			Foreground(p.errc),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 2),
		Editing: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		Confirming: lipgloss.NewStyle().
			Foreground(p.errc).
			Bold(true),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(1, 2),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errc).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
	}
}

// Default is the default theme.
var Default = build(palette{
	primary:      lipgloss.Color("#7c3aed"),
	secondary:    lipgloss.Color("#a78bfa"),
	success:      lipgloss.Color("#10b981"),
	warning:      lipgloss.Color("#f59e0b"),
	errc:         lipgloss.Color("#ef4444"),
	info:         lipgloss.Color("#3b82f6"),
	foreground:   lipgloss.Color("#fafafa"),
	subtle:       lipgloss.Color("#a3a3a3"),
	border:       lipgloss.Color("#404040"),
	muted:        lipgloss.Color("#737373"),
	code:         lipgloss.Color("#262626"),
	selectedText: lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:      lipgloss.Color("#cba6f7"),
	secondary:    lipgloss.Color("#f5c2e7"),
	success:      lipgloss.Color("#a6e3a1"),
	warning:      lipgloss.Color("#f9e2af"),
	errc:         lipgloss.Color("#f38ba8"),
	info:         lipgloss.Color("#89dceb"),
	foreground:   lipgloss.Color("#cdd6f4"),
	subtle:       lipgloss.Color("#a6adc8"),
	border:       lipgloss.Color("#45475a"),
	muted:        lipgloss.Color("#6c7086"),
	code:         lipgloss.Color("#313244"),
	selectedText: lipgloss.Color("#1e1e2e"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
