package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles derived from a theme. Rebuilt whenever the
// theme toggles.
type Styles struct {
	Theme Theme

	Title       lipgloss.Style
	Help        lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Cursor   lipgloss.Style
	Folder   lipgloss.Style
	Leaf     lipgloss.Style
	Selected lipgloss.Style

	StatusNew       lipgloss.Style
	StatusModified  lipgloss.Style
	StatusUnchanged lipgloss.Style
	StatusManaged   lipgloss.Style
	Installed       lipgloss.Style

	LogOK   lipgloss.Style
	LogErr  lipgloss.Style
	LogWarn lipgloss.Style
	LogInfo lipgloss.Style

	DiffAdd     lipgloss.Style
	DiffDelete  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffContext lipgloss.Style

	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) *Styles {
	return &Styles{
		Theme: t,

		Title:       lipgloss.NewStyle().Foreground(t.Iris).Bold(true),
		Help:        lipgloss.NewStyle().Foreground(t.Muted),
		TabActive:   lipgloss.NewStyle().Foreground(t.Base).Background(t.Iris).Padding(0, 1).Bold(true),
		TabInactive: lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1),

		Cursor:   lipgloss.NewStyle().Foreground(t.Text).Background(t.Overlay).Bold(true),
		Folder:   lipgloss.NewStyle().Foreground(t.Foam).Bold(true),
		Leaf:     lipgloss.NewStyle().Foreground(t.Text),
		Selected: lipgloss.NewStyle().Foreground(t.Gold),

		StatusNew:       lipgloss.NewStyle().Foreground(t.Foam),
		StatusModified:  lipgloss.NewStyle().Foreground(t.Gold),
		StatusUnchanged: lipgloss.NewStyle().Foreground(t.Muted),
		StatusManaged:   lipgloss.NewStyle().Foreground(t.Iris),
		Installed:       lipgloss.NewStyle().Foreground(t.Pine),

		LogOK:   lipgloss.NewStyle().Foreground(t.Foam),
		LogErr:  lipgloss.NewStyle().Foreground(t.Love),
		LogWarn: lipgloss.NewStyle().Foreground(t.Gold),
		LogInfo: lipgloss.NewStyle().Foreground(t.Subtle),

		DiffAdd:     lipgloss.NewStyle().Foreground(t.DiffAdd),
		DiffDelete:  lipgloss.NewStyle().Foreground(t.DiffDelete),
		DiffHunk:    lipgloss.NewStyle().Foreground(t.DiffHunk).Bold(true),
		DiffContext: lipgloss.NewStyle().Foreground(t.Subtle),

		OverlayBorder: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(t.Iris).Padding(1, 2),
		OverlayTitle:  lipgloss.NewStyle().Foreground(t.Iris).Bold(true).MarginBottom(1),
	}
}
