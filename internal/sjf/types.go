package sjf

import "errors"

// ErrInvalidInput is wrapped by every validation failure so callers can keep
// showing their last valid schedule with errors.Is.
var ErrInvalidInput = errors.New("sjf: invalid input")

// Process is one schedulable job. Arrival and Burst are synthetic time units.
type Process struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Arrival int    `json:"arrival" yaml:"arrival"`
	Burst   int    `json:"burst" yaml:"burst"`
}

// Label returns the display name, falling back to the ID.
func (p Process) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Result carries the values derived for a process once it has completed.
// Results only exist for processes the scheduler has finished.
type Result struct {
	Process
	Start      int `json:"start"`
	Completion int `json:"completion"`
	Turnaround int `json:"turnaround"`
	Waiting    int `json:"waiting"`
	Response   int `json:"response"`
}

// GanttBlock is a contiguous CPU-occupancy interval for one process.
type GanttBlock struct {
	ProcessID string `json:"processId"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// Duration returns End - Start.
func (b GanttBlock) Duration() int {
	return b.End - b.Start
}

// Interval is a span of time during which the CPU had nothing to run.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Metrics aggregates a finished schedule.
type Metrics struct {
	AverageWaiting    float64 `json:"averageWaiting"`
	AverageTurnaround float64 `json:"averageTurnaround"`
	AverageResponse   float64 `json:"averageResponse"`
	Makespan          int     `json:"makespan"`
	BusyTime          int     `json:"busyTime"`
	IdleTime          int     `json:"idleTime"`
	Utilization       float64 `json:"utilization"`
	Throughput        float64 `json:"throughput"`
}

// Schedule is the complete output of one scheduling run.
//
// Blocks are in emission order and Results in completion order; use
// ByInputOrder when a table needs the caller's original ordering.
type Schedule struct {
	Blocks  []GanttBlock `json:"blocks"`
	Idle    []Interval   `json:"idle"`
	Results []Result     `json:"results"`
	Metrics Metrics      `json:"metrics"`
}

// Result looks up the result for a process ID.
func (s Schedule) Result(id string) (Result, bool) {
	for _, r := range s.Results {
		if r.ID == id {
			return r, true
		}
	}
	return Result{}, false
}
