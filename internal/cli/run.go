package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/gantt"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/timeline"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/workload"
)

// chartColumns is the printed chart width, excluding the closing bar.
const chartColumns = 72

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

type runOutput struct {
	Workload workload.Workload `json:"workload"`
	Schedule sjf.Schedule      `json:"schedule"`
	Steps    []timeline.Step   `json:"steps,omitempty"`
}

func newRunCmd() *cobra.Command {
	var workloadRef string
	var showSteps bool
	var format string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule a workload and print the Gantt chart and results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := stderrLogger(cfg)

			w, err := resolveWorkload(cfg, workloadRef)
			if err != nil {
				return err
			}
			tl, err := timeline.Compute(w.Processes)
			if err != nil {
				return fmt.Errorf("schedule %s: %w", w.ID, err)
			}
			logger.Debug("scheduled", "workload", w.ID, "processes", len(w.Processes), "makespan", tl.Schedule.Metrics.Makespan)

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				payload := runOutput{Workload: w, Schedule: tl.Schedule}
				if showSteps {
					payload.Steps = tl.Steps
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			case "text", "":
				printText(out, w, tl, showSteps)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&workloadRef, "workload", "w", "", "Workload file or ID (default: configured default)")
	cmd.Flags().BoolVar(&showSteps, "steps", false, "Also print every animation step")
	cmd.Flags().StringVarP(&format, "format", "o", "text", "Output format (text, json)")
	return cmd
}

func printText(w io.Writer, wl workload.Workload, tl timeline.Timeline, showSteps bool) {
	title := wl.Name
	if title == "" {
		title = wl.ID
	}
	fmt.Fprintln(w, headerStyle.Render(title))
	if wl.Description != "" {
		fmt.Fprintln(w, faintStyle.Render(wl.Description))
	}
	fmt.Fprintln(w)

	if showSteps {
		for _, step := range tl.Steps {
			fmt.Fprintf(w, "%s\n  %s\n", headerStyle.Render(step.Title), step.Description)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, headerStyle.Render("Gantt chart"))
	fmt.Fprintln(w, ganttText(tl))
	fmt.Fprintln(w)
	fmt.Fprintln(w, resultsTable(tl))

	m := tl.Schedule.Metrics
	fmt.Fprintf(w, "Average waiting time: %s\n", strconv.FormatFloat(m.AverageWaiting, 'f', -1, 64))
	fmt.Fprintf(w, "Average turnaround time: %s\n", strconv.FormatFloat(m.AverageTurnaround, 'f', -1, 64))
	fmt.Fprintf(w, "CPU utilization: %.1f%% (idle %d of %d)\n", m.Utilization*100, m.IdleTime, m.Makespan)
}

// ganttText draws blocks and idle gaps in time order with a time axis below.
// Spans are sized in proportion to their duration across chartColumns.
//
//	|P1          |P3  |P4     |P2         |
//	0            6    8       11        15
func ganttText(tl timeline.Timeline) string {
	labels := make(map[string]string, len(tl.Processes))
	for _, p := range tl.Processes {
		labels[p.ID] = p.Label()
	}
	spans := gantt.Layout(tl.Schedule, chartColumns)
	var bar strings.Builder
	for _, s := range spans {
		label := "idle"
		if !s.Idle() {
			label = labels[s.ProcessID]
		}
		width := s.Width - 1
		if len(label) > width {
			label = label[:width]
		}
		bar.WriteString("|" + label + strings.Repeat(" ", width-len(label)))
	}
	bar.WriteString("|")
	return bar.String() + "\n" + gantt.Axis(spans, chartColumns+1)
}

func resultsTable(tl timeline.Timeline) string {
	results := sjf.ByInputOrder(tl.Schedule.Results, tl.Processes)
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Label(),
			strconv.Itoa(r.Arrival),
			strconv.Itoa(r.Burst),
			strconv.Itoa(r.Start),
			strconv.Itoa(r.Completion),
			strconv.Itoa(r.Turnaround),
			strconv.Itoa(r.Waiting),
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Process", "AT", "BT", "Start", "CT", "TAT", "WT").
		Rows(rows...)
	return t.String()
}
