package wizard

import "github.com/charmbracelet/lipgloss"

// Sage palette.
const (
	sageDeep   = lipgloss.Color("#344E41")
	sageDark   = lipgloss.Color("#588157")
	sageMedium = lipgloss.Color("#A3B18A")
	sageLight  = lipgloss.Color("#DAD7CD")
	errorRed   = lipgloss.Color("196")
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(sageMedium).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(sageDark).
			MarginBottom(1)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(sageDark).
			Padding(1, 0)

	textStyle = lipgloss.NewStyle().
			Foreground(sageLight)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(sageDeep).
			Background(sageLight).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(sageDark).
			Padding(0, 0, 0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	flashStyle = lipgloss.NewStyle().
			Foreground(sageDark).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorRed)

	dotActiveStyle = lipgloss.NewStyle().
			Foreground(sageDark)

	dotInactiveStyle = lipgloss.NewStyle().
				Foreground(sageMedium)
)
