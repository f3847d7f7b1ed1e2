package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravfield/internal/binary"
	"gonum.org/v1/gonum/mat"
)

// Viewer steps a transverse cut through a potential grid and, optionally,
// its field magnitude.
type Viewer struct {
	grid      binary.Grid
	potential *mat.Dense
	magnitude *mat.Dense
	row       int
	showField bool
	width     int
	height    int
}

// NewViewer starts at the row nearest y = 0. magnitude may be nil.
func NewViewer(grid binary.Grid, potential, magnitude *mat.Dense) Viewer {
	return Viewer{
		grid:      grid,
		potential: potential,
		magnitude: magnitude,
		row:       NearestRow(grid, 0),
		width:     80,
		height:    24,
	}
}

func (m Viewer) Row() int { return m.row }

func (m Viewer) Init() tea.Cmd { return nil }

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.row < m.grid.Size-1 {
				m.row++
			}
		case "down", "j":
			if m.row > 0 {
				m.row--
			}
		case "f":
			if m.magnitude != nil {
				m.showField = !m.showField
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Viewer) View() string {
	values, label := m.potential, "potential"
	if m.showField {
		values, label = m.magnitude, "|g|"
	}

	plotHeight := max(m.height-8, 5)
	plotWidth := max(m.width-12, 20)

	var sb strings.Builder
	sb.WriteString(Title.Render(fmt.Sprintf("transverse cut %d/%d", m.row+1, m.grid.Size)))
	sb.WriteString("\n\n")
	sb.WriteString(TransverseCut(values, m.grid, m.row, plotWidth, plotHeight, label))
	sb.WriteString("\n\n")
	sb.WriteString(KeyHint.Render("↑/k ↓/j move cut · f toggle field · q quit"))
	return sb.String()
}

// RunViewer blocks until the viewer quits.
func RunViewer(v Viewer) error {
	_, err := tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}
