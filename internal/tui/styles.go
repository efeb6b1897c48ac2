package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#00BFFF") // Cyan, primary accent
	colorAccent     = lipgloss.Color("#FFD700") // Gold, drag in progress
	colorSuccess    = lipgloss.Color("#00E676") // Green, saved
	colorDanger     = lipgloss.Color("#FF5252") // Red, errors
	colorMuted      = lipgloss.Color("#636363")
	colorWhite      = lipgloss.Color("#EEEEEE")
	colorSurface    = lipgloss.Color("#1E1E2E") // status bar bg
	colorSurfaceDim = lipgloss.Color("#181825") // footer bg
)

// Status bar styles.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusDirty = lipgloss.NewStyle().
				Foreground(colorAccent)

	styleStatusGrab = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)
)

// Message line styles.
var (
	styleMessage = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleMessageError = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)
)

// Footer styles: top border, clear key/desc contrast.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)
)
