package timeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
)

// StepKind tags where a step sits in the timeline.
type StepKind string

const (
	StepInitial  StepKind = "initial"
	StepDecision StepKind = "decision"
	StepTerminal StepKind = "terminal"
)

// Step is one frame of the animation.
type Step struct {
	Index           int              `json:"index"`
	Kind            StepKind         `json:"kind"`
	Time            int              `json:"time"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	ReadyQueue      []sjf.Process    `json:"readyQueue"`
	Candidates      []sjf.Process    `json:"candidates,omitempty"`
	Running         *sjf.Process     `json:"running,omitempty"`
	Arrivals        []sjf.Process    `json:"arrivals,omitempty"`
	GanttSoFar      []sjf.GanttBlock `json:"ganttSoFar"`
	IsDecisionPoint bool             `json:"isDecisionPoint"`
}

// Timeline bundles the input, its schedule and the derived steps.
type Timeline struct {
	Processes []sjf.Process `json:"processes"`
	Schedule  sjf.Schedule  `json:"schedule"`
	Steps     []Step        `json:"steps"`
}

// Compute schedules processes and derives their steps in one call.
func Compute(processes []sjf.Process) (Timeline, error) {
	sched, err := sjf.Run(processes)
	if err != nil {
		return Timeline{}, err
	}
	input := make([]sjf.Process, len(processes))
	for i, p := range processes {
		p.ID = strings.TrimSpace(p.ID)
		input[i] = p
	}
	return Timeline{Processes: input, Schedule: sched, Steps: Build(input, sched)}, nil
}

// Build derives the animation steps for a finished schedule: an initial step
// at time 0, one decision step per Gantt block start, and a terminal step once
// every process has completed. processes must be the input sched was computed
// from; their order is used for display.
func Build(processes []sjf.Process, sched sjf.Schedule) []Step {
	b := newBuilder(processes, sched)
	steps := make([]Step, 0, len(sched.Blocks)+2)
	steps = append(steps, b.initial())
	prev := 0
	for _, block := range sched.Blocks {
		steps = append(steps, b.decision(block, prev))
		prev = block.Start
	}
	steps = append(steps, b.terminal(prev))
	for i := range steps {
		steps[i].Index = i
	}
	return steps
}

type builder struct {
	display []sjf.Process
	starts  map[string]int
	sched   sjf.Schedule
}

func newBuilder(processes []sjf.Process, sched sjf.Schedule) *builder {
	display := append([]sjf.Process(nil), processes...)
	sort.SliceStable(display, func(i, j int) bool {
		return display[i].Arrival < display[j].Arrival
	})
	starts := make(map[string]int, len(sched.Results))
	for _, r := range sched.Results {
		starts[r.ID] = r.Start
	}
	return &builder{display: display, starts: starts, sched: sched}
}

// waiting lists processes that have arrived by t and not started before t.
func (b *builder) waiting(t int, exclude string) []sjf.Process {
	var out []sjf.Process
	for _, p := range b.display {
		if p.Arrival > t || b.starts[p.ID] < t || p.ID == exclude {
			continue
		}
		out = append(out, p)
	}
	return out
}

// arrivals lists processes arriving in the half-open window (after, upTo].
func (b *builder) arrivals(after, upTo int) []sjf.Process {
	var out []sjf.Process
	for _, p := range b.display {
		if p.Arrival > after && p.Arrival <= upTo {
			out = append(out, p)
		}
	}
	return out
}

func (b *builder) ganttUpTo(t int) []sjf.GanttBlock {
	out := []sjf.GanttBlock{}
	for _, block := range b.sched.Blocks {
		if block.End <= t {
			out = append(out, block)
		}
	}
	return out
}

func (b *builder) process(id string) sjf.Process {
	for _, p := range b.display {
		if p.ID == id {
			return p
		}
	}
	return sjf.Process{ID: id}
}

func (b *builder) initial() Step {
	ready := b.waiting(0, "")
	step := Step{
		Kind:       StepInitial,
		Time:       0,
		Title:      "Time 0: Start",
		ReadyQueue: ready,
		Arrivals:   b.arrivals(-1, 0),
		GanttSoFar: b.ganttUpTo(0),
	}
	if len(ready) == 0 {
		first := b.display[0]
		step.Description = fmt.Sprintf("No process has arrived yet. The CPU stays idle until %s arrives at time %d.", first.Label(), first.Arrival)
	} else {
		step.Description = fmt.Sprintf("%s %s arrived. The CPU is free.", labels(ready), verb(len(ready)))
	}
	return step
}

func (b *builder) decision(block sjf.GanttBlock, prev int) Step {
	chosen := b.process(block.ProcessID)
	candidates := b.waiting(block.Start, "")
	running := chosen
	step := Step{
		Kind:            StepDecision,
		Time:            block.Start,
		Title:           fmt.Sprintf("Time %d: %s selected", block.Start, chosen.Label()),
		ReadyQueue:      b.waiting(block.Start, chosen.ID),
		Candidates:      candidates,
		Running:         &running,
		Arrivals:        b.arrivals(prev, block.Start),
		GanttSoFar:      b.ganttUpTo(block.Start),
		IsDecisionPoint: true,
	}
	var parts []string
	if gap, ok := b.idleEndingAt(block.Start); ok {
		parts = append(parts, fmt.Sprintf("The CPU was idle from %d to %d.", gap.Start, gap.End))
	}
	if len(candidates) == 1 {
		parts = append(parts, fmt.Sprintf("Only %s is ready.", chosen.Label()))
	} else {
		options := make([]string, len(candidates))
		tied := false
		for j, c := range candidates {
			options[j] = fmt.Sprintf("%s (%d)", c.Label(), c.Burst)
			if c.ID != chosen.ID && c.Burst == chosen.Burst {
				tied = true
			}
		}
		parts = append(parts, fmt.Sprintf("%s has the shortest burst (%d) among %s.", chosen.Label(), chosen.Burst, strings.Join(options, ", ")))
		if tied {
			parts = append(parts, "The tie on burst time goes to the earliest arrival, then to input order.")
		}
	}
	parts = append(parts, fmt.Sprintf("It runs from %d to %d.", block.Start, block.End))
	step.Description = strings.Join(parts, " ")
	return step
}

func (b *builder) terminal(prev int) Step {
	m := b.sched.Metrics
	return Step{
		Kind:       StepTerminal,
		Time:       m.Makespan,
		Title:      fmt.Sprintf("Time %d: All complete", m.Makespan),
		ReadyQueue: []sjf.Process{},
		Arrivals:   b.arrivals(prev, m.Makespan),
		GanttSoFar: b.ganttUpTo(m.Makespan),
		Description: fmt.Sprintf("All processes finished. Average waiting time: %s, average turnaround time: %s.",
			formatFloat(m.AverageWaiting), formatFloat(m.AverageTurnaround)),
	}
}

func (b *builder) idleEndingAt(t int) (sjf.Interval, bool) {
	for _, gap := range b.sched.Idle {
		if gap.End == t {
			return gap, true
		}
	}
	return sjf.Interval{}, false
}

func labels(processes []sjf.Process) string {
	names := make([]string, len(processes))
	for i, p := range processes {
		names[i] = p.Label()
	}
	return strings.Join(names, ", ")
}

func verb(n int) string {
	if n == 1 {
		return "has"
	}
	return "have"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
