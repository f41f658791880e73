package sjf

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validate checks the preconditions Run relies on. Values are never
// clamped: any violation is reported as an error wrapping ErrInvalidInput.
func Validate(processes []Process) error {
	if len(processes) == 0 {
		return fmt.Errorf("%w: process set is empty", ErrInvalidInput)
	}
	seen := make(map[string]int, len(processes))
	totalBurst, maxArrival := 0, 0
	for i, p := range processes {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("%w: processes[%d]: id is required", ErrInvalidInput, i)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: processes[%d]: duplicate id %q (first used at processes[%d])", ErrInvalidInput, i, id, prev)
		}
		seen[id] = i
		if p.Burst < 1 {
			return fmt.Errorf("%w: process %q: burst time must be >= 1, got %d", ErrInvalidInput, id, p.Burst)
		}
		if p.Arrival < 0 {
			return fmt.Errorf("%w: process %q: arrival time must be >= 0, got %d", ErrInvalidInput, id, p.Arrival)
		}
		if p.Burst > math.MaxInt-totalBurst {
			return fmt.Errorf("%w: process %q: total burst time overflows", ErrInvalidInput, id)
		}
		totalBurst += p.Burst
		maxArrival = max(maxArrival, p.Arrival)
	}
	// The clock never passes the latest arrival plus every burst.
	if totalBurst > math.MaxInt-maxArrival {
		return fmt.Errorf("%w: latest arrival %d plus total burst %d overflows", ErrInvalidInput, maxArrival, totalBurst)
	}
	return nil
}

// Run computes the non-preemptive SJF schedule for processes.
//
// At every decision point the ready process with the smallest burst wins;
// ties go to the earliest arrival and then to the earliest position in
// processes. When nothing is ready the clock jumps to the next arrival and the
// gap is recorded in Schedule.Idle. The input slice is not modified.
func Run(processes []Process) (Schedule, error) {
	if err := Validate(processes); err != nil {
		return Schedule{}, err
	}
	pending := make([]queued, len(processes))
	for i, p := range processes {
		p.ID = strings.TrimSpace(p.ID)
		pending[i] = queued{proc: p, order: i}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].proc.Arrival < pending[j].proc.Arrival
	})

	out := Schedule{
		Blocks:  make([]GanttBlock, 0, len(processes)),
		Results: make([]Result, 0, len(processes)),
	}
	ready := &readyQueue{}
	clock := 0
	next := 0
	for len(out.Results) < len(processes) {
		for next < len(pending) && pending[next].proc.Arrival <= clock {
			ready.add(pending[next])
			next++
		}
		if ready.Len() == 0 {
			arrival := pending[next].proc.Arrival
			out.Idle = append(out.Idle, Interval{Start: clock, End: arrival})
			clock = arrival
			continue
		}
		chosen := ready.next().proc
		start := clock
		clock += chosen.Burst
		out.Blocks = append(out.Blocks, GanttBlock{ProcessID: chosen.ID, Start: start, End: clock})
		turnaround := clock - chosen.Arrival
		out.Results = append(out.Results, Result{
			Process:    chosen,
			Start:      start,
			Completion: clock,
			Turnaround: turnaround,
			Waiting:    turnaround - chosen.Burst,
			Response:   start - chosen.Arrival,
		})
	}
	out.Metrics = Summarize(out.Results, out.Idle)
	return out, nil
}

// Summarize computes aggregate metrics for a finished set of results.
func Summarize(results []Result, idle []Interval) Metrics {
	var m Metrics
	if len(results) == 0 {
		return m
	}
	var waiting, turnaround, response float64
	for _, r := range results {
		waiting += float64(r.Waiting)
		turnaround += float64(r.Turnaround)
		response += float64(r.Response)
		m.BusyTime += r.Burst
		if r.Completion > m.Makespan {
			m.Makespan = r.Completion
		}
	}
	for _, gap := range idle {
		m.IdleTime += gap.End - gap.Start
	}
	n := float64(len(results))
	m.AverageWaiting = waiting / n
	m.AverageTurnaround = turnaround / n
	m.AverageResponse = response / n
	if m.Makespan > 0 {
		m.Utilization = float64(m.BusyTime) / float64(m.Makespan)
		m.Throughput = n / float64(m.Makespan)
	}
	return m
}

// ByInputOrder returns results re-ordered to match processes. Results for
// IDs that are not in processes are dropped.
func ByInputOrder(results []Result, processes []Process) []Result {
	index := make(map[string]Result, len(results))
	for _, r := range results {
		index[r.ID] = r
	}
	ordered := make([]Result, 0, len(processes))
	for _, p := range processes {
		if r, ok := index[strings.TrimSpace(p.ID)]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered
}
