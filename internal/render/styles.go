package render

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	ok       lipgloss.Style
	warning  lipgloss.Style
	dim      lipgloss.Style
	section  lipgloss.Style
	selected lipgloss.Style

	checked lipgloss.Style
	saver   lipgloss.Style
	missed  lipgloss.Style
	today   lipgloss.Style

	locked   lipgloss.Style
	active   lipgloss.Style
	complete lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e")),
		value:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d0d7de")),
		ok:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7ee787")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd33d")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
		section:  lipgloss.NewStyle().MarginTop(1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#79c0ff")),

		checked: lipgloss.NewStyle().Foreground(lipgloss.Color("#40c463")),
		saver:   lipgloss.NewStyle().Foreground(lipgloss.Color("#79c0ff")),
		missed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff7b72")),
		today:   lipgloss.NewStyle().Bold(true).Underline(true),

		locked:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
		active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd33d")),
		complete: lipgloss.NewStyle().Foreground(lipgloss.Color("#7ee787")),
	}
}

// heatLevels are GitHub's contribution greens, level 1..4.
var heatLevels = []lipgloss.Color{
	lipgloss.Color("#9be9a8"),
	lipgloss.Color("#40c463"),
	lipgloss.Color("#30a14e"),
	lipgloss.Color("#216e39"),
}
