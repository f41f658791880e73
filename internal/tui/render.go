package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/gantt"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/timeline"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#4F46E5")).Bold(true).Padding(0, 1)
	headingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	decisionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	futureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4A5568")).Padding(0, 1)
)

const (
	minChartWidth = 10
	maxChartWidth = 96
)

// chartColumns is the number of columns the Gantt bar may use at width.
func chartColumns(width int) int {
	return max(minChartWidth, min(maxChartWidth, width-4))
}

// renderGantt draws the chart as it looks at step: finished blocks in their
// colors, the block that just started outlined, everything later faint.
// Segments are sized in proportion to their duration across chartColumns.
func renderGantt(tl timeline.Timeline, step timeline.Step, colors palette, labels map[string]string, width int) string {
	columns := chartColumns(width)
	spans := gantt.Layout(tl.Schedule, columns)
	var bar strings.Builder
	for _, span := range spans {
		w := span.Width
		switch {
		case span.Idle() && span.End <= step.Time:
			bar.WriteString(idleStyle.Render(strings.Repeat("░", w)))
		case span.Idle():
			bar.WriteString(futureStyle.Render(strings.Repeat("·", w)))
		case span.End <= step.Time:
			bar.WriteString(colors.block(span.ProcessID).Render(center(labels[span.ProcessID], w)))
		case step.Running != nil && step.Running.ID == span.ProcessID:
			bar.WriteString(colors.chip(span.ProcessID).Render(center("▶"+labels[span.ProcessID], w)))
		default:
			bar.WriteString(futureStyle.Render(strings.Repeat("·", w)))
		}
	}
	return bar.String() + "\n" + detailStyle.Render(gantt.Axis(spans, columns))
}

func renderQueue(processes []sjf.Process, colors palette, highlight string) string {
	if len(processes) == 0 {
		return detailStyle.Render("(empty)")
	}
	chips := make([]string, len(processes))
	for i, p := range processes {
		text := fmt.Sprintf("%s (BT %d)", p.Label(), p.Burst)
		if p.ID == highlight {
			text = "★ " + text
		}
		chips[i] = colors.chip(p.ID).Render(text)
	}
	return strings.Join(chips, "  ")
}

func renderRunning(step timeline.Step, colors palette) string {
	if step.Running == nil {
		return idleStyle.Render("CPU idle")
	}
	return colors.block(step.Running.ID).Render(" " + step.Running.Label() + " ")
}

// renderResults lists processes that have completed by the step's time, in
// completion order, with averages once every process is done.
func renderResults(tl timeline.Timeline, step timeline.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %4s %4s %4s %4s %4s\n", "Process", "AT", "BT", "CT", "TAT", "WT")
	shown := 0
	for _, r := range tl.Schedule.Results {
		if r.Completion > step.Time {
			continue
		}
		shown++
		fmt.Fprintf(&b, "%-8s %4d %4d %4d %4d %4d\n", r.Label(), r.Arrival, r.Burst, r.Completion, r.Turnaround, r.Waiting)
	}
	if shown == 0 {
		b.WriteString(detailStyle.Render("No process has completed yet."))
		return b.String()
	}
	if step.Kind == timeline.StepTerminal {
		m := tl.Schedule.Metrics
		b.WriteString("\n")
		b.WriteString(doneStyle.Render(fmt.Sprintf("Average WT: %s  Average TAT: %s", formatAverage(m.AverageWaiting), formatAverage(m.AverageTurnaround))))
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(fmt.Sprintf("CPU utilization %.0f%% · throughput %s per unit · idle %d",
			m.Utilization*100, humanize.FormatFloat("#.###", m.Throughput), m.IdleTime)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func stepHeading(step timeline.Step, total int) string {
	position := fmt.Sprintf("%s of %d steps", humanize.Ordinal(step.Index+1), total)
	title := headingStyle.Render(step.Title)
	if step.IsDecisionPoint {
		title = decisionStyle.Render("◆ ") + title
	}
	if step.Kind == timeline.StepTerminal {
		title = doneStyle.Render("✔ ") + title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", detailStyle.Render(position))
}

func center(text string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) > width {
		return string(runes[:width])
	}
	left := (width - len(runes)) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-len(runes)-left)
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
