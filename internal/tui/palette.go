package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
)

var processColors = []lipgloss.Color{
	"#3B82F6", // blue
	"#EF4444", // red
	"#F97316", // orange
	"#A855F7", // purple
	"#22C55E", // green
	"#EC4899", // pink
	"#EAB308", // yellow
	"#6366F1", // indigo
}

// palette assigns each process ID a color by its position in the input,
// cycling when there are more processes than colors.
type palette map[string]lipgloss.Color

func newPalette(processes []sjf.Process) palette {
	p := make(palette, len(processes))
	for i, proc := range processes {
		p[proc.ID] = processColors[i%len(processColors)]
	}
	return p
}

func (p palette) color(id string) lipgloss.Color {
	if c, ok := p[id]; ok {
		return c
	}
	return lipgloss.Color("#999999")
}

func (p palette) block(id string) lipgloss.Style {
	return lipgloss.NewStyle().Background(p.color(id)).Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
}

func (p palette) chip(id string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.color(id)).Bold(true)
}
