package render

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // video
	colorAccent  = lipgloss.Color("#FFD700") // audio
	colorMotion  = lipgloss.Color("#FF5252") // items being dragged
	colorMuted   = lipgloss.Color("#636363")
	colorChild   = lipgloss.Color("#5B8DEF")
	colorWhite   = lipgloss.Color("#EEEEEE")
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

const (
	iconClip     = "◆"
	iconSequence = "≡"
	iconOverlap  = "⧉"
)

// Bar glyphs. Sequence items alternate between glyphEven and glyphOdd so
// cuts stay visible; cells covered by two items are transitions.
const (
	glyphClip       = "█"
	glyphChild      = "─"
	glyphEven       = '▓'
	glyphOdd        = '▒'
	glyphTransition = '╳'
)

var (
	styleHeader   = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleVideo    = lipgloss.NewStyle().Foreground(colorPrimary)
	styleAudio    = lipgloss.NewStyle().Foreground(colorAccent)
	styleMotion   = lipgloss.NewStyle().Foreground(colorMotion).Bold(true)
	styleChild    = lipgloss.NewStyle().Foreground(colorChild)
	styleSelected = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)
