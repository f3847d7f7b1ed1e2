package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffaa00"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

// Summary renders metrics as an aligned, bordered table under title.
func Summary(title string, metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	width := 0
	for name := range metrics {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(Title.Render(title))
	for _, name := range names {
		sb.WriteString("\n")
		sb.WriteString(MetricLabel.Render(fmt.Sprintf("%-*s", width, name)))
		sb.WriteString("  ")
		sb.WriteString(MetricValue.Render(fmt.Sprintf("%.6g", metrics[name])))
	}
	return Panel.Render(sb.String())
}
