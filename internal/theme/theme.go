// Package theme holds the terminal palette and styles shared by commands
package theme

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#f89820") // Java orange
	Secondary = lipgloss.Color("#5382a1") // Java blue

	Success = lipgloss.Color("#00d26a")
	Error   = lipgloss.Color("#ff3b30")
	Warning = lipgloss.Color("#ffcc00")
	Info    = lipgloss.Color("#5ac8fa")

	TextFaint = lipgloss.Color("#8e8e93")
	Border    = lipgloss.Color("#5382a1")
	Highlight = lipgloss.Color("#ff6b35")
)

var (
	Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Underline(true)

	Subtitle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info)

	Faint = lipgloss.NewStyle().
		Foreground(TextFaint).
		Faint(true)

	Code = lipgloss.NewStyle().
		Foreground(Highlight)

	// CurrentStyle marks versions, and the runtime JAVA_HOME points at
	CurrentStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(Info)

	SuccessBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(1, 3).
			Align(lipgloss.Center)

	TableStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Border)

	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Padding(0, 1)
)

// SuccessMessage returns a formatted success message
func SuccessMessage(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// ErrorMessage returns a formatted error message
func ErrorMessage(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}

// WarningMessage returns a formatted warning message
func WarningMessage(msg string) string {
	return WarningStyle.Render("⚠ " + msg)
}

// InfoMessage returns a formatted info message
func InfoMessage(msg string) string {
	return InfoStyle.Render("ℹ " + msg)
}

// HighlightText renders text in the highlight color
func HighlightText(text string) string {
	return Code.Render(text)
}
