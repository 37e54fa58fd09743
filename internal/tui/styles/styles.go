package styles

import (
	"fetchlist/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style the list screen renders with.
type Styles struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Header    lipgloss.Style
	Item      lipgloss.Style
	Cursor    lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Help      lipgloss.Style
	Search    lipgloss.Style
	Separator lipgloss.Style
}

// Theme is the active style set. Apply replaces it from configuration.
var Theme = New(config.New())

// New builds the styles from the configured theme colors.
func New(cfg *config.Config) Styles {
	t := cfg.Theme
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)).
			Bold(true),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Emphasis)),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(t.Primary)).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Border)).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Border)),
	}
}

// Apply rebuilds Theme from cfg.
func Apply(cfg *config.Config) {
	Theme = New(cfg)
}
