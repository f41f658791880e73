package sjf

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func textbook() []Process {
	return []Process{
		{ID: "p1", Name: "P1", Arrival: 0, Burst: 6},
		{ID: "p2", Name: "P2", Arrival: 2, Burst: 4},
		{ID: "p3", Name: "P3", Arrival: 4, Burst: 2},
		{ID: "p4", Name: "P4", Arrival: 5, Burst: 3},
	}
}

func TestScheduleTextbookScenario(t *testing.T) {
	sched, err := Run(textbook())
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	want := []GanttBlock{
		{ProcessID: "p1", Start: 0, End: 6},
		{ProcessID: "p3", Start: 6, End: 8},
		{ProcessID: "p4", Start: 8, End: 11},
		{ProcessID: "p2", Start: 11, End: 15},
	}
	if !reflect.DeepEqual(sched.Blocks, want) {
		t.Fatalf("unexpected blocks: %+v", sched.Blocks)
	}
	if len(sched.Idle) != 0 {
		t.Fatalf("expected no idle gaps, got %+v", sched.Idle)
	}
	if sched.Metrics.AverageWaiting != 3.5 {
		t.Fatalf("expected avg waiting 3.5, got %v", sched.Metrics.AverageWaiting)
	}
	if sched.Metrics.AverageTurnaround != 7.25 {
		t.Fatalf("expected avg turnaround 7.25, got %v", sched.Metrics.AverageTurnaround)
	}
	if sched.Metrics.Makespan != 15 {
		t.Fatalf("expected makespan 15, got %d", sched.Metrics.Makespan)
	}
	order := make([]string, len(sched.Results))
	for i, r := range sched.Results {
		order[i] = r.ID
	}
	if !reflect.DeepEqual(order, []string{"p1", "p3", "p4", "p2"}) {
		t.Fatalf("results must be in completion order, got %v", order)
	}
	p2, ok := sched.Result("p2")
	if !ok {
		t.Fatalf("missing result for p2")
	}
	if p2.Completion != 15 || p2.Turnaround != 13 || p2.Waiting != 9 {
		t.Fatalf("unexpected p2 result: %+v", p2)
	}
}

func TestScheduleSingleProcess(t *testing.T) {
	sched, err := Run([]Process{{ID: "p1", Name: "P1", Arrival: 0, Burst: 5}})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(sched.Blocks) != 1 || sched.Blocks[0] != (GanttBlock{ProcessID: "p1", Start: 0, End: 5}) {
		t.Fatalf("unexpected blocks: %+v", sched.Blocks)
	}
	if sched.Results[0].Waiting != 0 {
		t.Fatalf("expected zero waiting, got %d", sched.Results[0].Waiting)
	}
}

func TestScheduleShorterBurstWinsOnSimultaneousArrival(t *testing.T) {
	sched, err := Run([]Process{
		{ID: "p1", Arrival: 0, Burst: 3},
		{ID: "p2", Arrival: 0, Burst: 1},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	want := []GanttBlock{{ProcessID: "p2", Start: 0, End: 1}, {ProcessID: "p1", Start: 1, End: 4}}
	if !reflect.DeepEqual(sched.Blocks, want) {
		t.Fatalf("unexpected blocks: %+v", sched.Blocks)
	}
}

func TestScheduleTieBreaks(t *testing.T) {
	tests := []struct {
		name      string
		processes []Process
		want      []string
	}{
		{
			name: "equal burst and arrival keeps input order",
			processes: []Process{
				{ID: "b", Arrival: 0, Burst: 3},
				{ID: "a", Arrival: 0, Burst: 3},
				{ID: "c", Arrival: 0, Burst: 3},
			},
			want: []string{"b", "a", "c"},
		},
		{
			name: "equal burst prefers earlier arrival",
			processes: []Process{
				{ID: "p1", Arrival: 0, Burst: 5},
				{ID: "p2", Arrival: 3, Burst: 2},
				{ID: "p3", Arrival: 1, Burst: 2},
			},
			want: []string{"p1", "p3", "p2"},
		},
		{
			name: "non-preemptive even when a shorter job arrives",
			processes: []Process{
				{ID: "long", Arrival: 0, Burst: 10},
				{ID: "short", Arrival: 1, Burst: 1},
			},
			want: []string{"long", "short"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := Run(tt.processes)
			if err != nil {
				t.Fatalf("schedule: %v", err)
			}
			got := make([]string, len(sched.Blocks))
			for i, b := range sched.Blocks {
				got[i] = b.ProcessID
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected order %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScheduleRecordsIdleGaps(t *testing.T) {
	sched, err := Run([]Process{
		{ID: "late", Arrival: 3, Burst: 2},
		{ID: "later", Arrival: 10, Burst: 1},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	wantIdle := []Interval{{Start: 0, End: 3}, {Start: 5, End: 10}}
	if !reflect.DeepEqual(sched.Idle, wantIdle) {
		t.Fatalf("unexpected idle gaps: %+v", sched.Idle)
	}
	if sched.Metrics.IdleTime != 8 || sched.Metrics.BusyTime != 3 || sched.Metrics.Makespan != 11 {
		t.Fatalf("unexpected metrics: %+v", sched.Metrics)
	}
}

func TestScheduleRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		processes []Process
	}{
		{name: "empty", processes: nil},
		{name: "zero burst", processes: []Process{{ID: "p1", Burst: 0}}},
		{name: "negative burst", processes: []Process{{ID: "p1", Burst: -2}}},
		{name: "negative arrival", processes: []Process{{ID: "p1", Arrival: -1, Burst: 1}}},
		{name: "missing id", processes: []Process{{ID: "  ", Burst: 1}}},
		{name: "duplicate id", processes: []Process{{ID: "p1", Burst: 1}, {ID: "p1", Burst: 2}}},
		{name: "arrival plus burst overflows", processes: []Process{{ID: "p1", Arrival: math.MaxInt - 1, Burst: 5}}},
		{name: "total burst overflows", processes: []Process{{ID: "p1", Burst: math.MaxInt}, {ID: "p2", Burst: 1}}},
		{name: "late arrival plus earlier bursts overflows", processes: []Process{{ID: "p1", Burst: math.MaxInt / 2}, {ID: "p2", Arrival: math.MaxInt/2 + 2, Burst: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := Run(tt.processes)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(sched.Blocks) != 0 || len(sched.Results) != 0 {
				t.Fatalf("expected no partial results, got %+v", sched)
			}
		})
	}
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	input := textbook()
	snapshot := append([]Process(nil), input...)
	if _, err := Run(input); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !reflect.DeepEqual(input, snapshot) {
		t.Fatalf("input was modified: %+v", input)
	}
}

func TestScheduleProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(12)
		processes := make([]Process, n)
		totalBurst := 0
		for i := range processes {
			processes[i] = Process{
				ID:      string(rune('a' + i)),
				Arrival: rng.Intn(20),
				Burst:   1 + rng.Intn(8),
			}
			totalBurst += processes[i].Burst
		}
		sched, err := Run(processes)
		if err != nil {
			t.Fatalf("round %d: schedule: %v", round, err)
		}
		again, err := Run(processes)
		if err != nil {
			t.Fatalf("round %d: second schedule: %v", round, err)
		}
		if !reflect.DeepEqual(sched, again) {
			t.Fatalf("round %d: schedule is not idempotent", round)
		}

		scheduled := 0
		for i, b := range sched.Blocks {
			scheduled += b.Duration()
			if i == 0 {
				continue
			}
			prev := sched.Blocks[i-1]
			if b.Start < prev.End {
				t.Fatalf("round %d: blocks overlap: %+v then %+v", round, prev, b)
			}
			if b.Start != prev.End && !hasIdle(sched.Idle, prev.End, b.Start) {
				t.Fatalf("round %d: unrecorded gap between %+v and %+v", round, prev, b)
			}
		}
		if scheduled != totalBurst {
			t.Fatalf("round %d: scheduled %d units, want %d", round, scheduled, totalBurst)
		}
		if sched.Metrics.BusyTime+sched.Metrics.IdleTime != sched.Metrics.Makespan {
			t.Fatalf("round %d: busy+idle != makespan: %+v", round, sched.Metrics)
		}
		if len(sched.Results) != n {
			t.Fatalf("round %d: expected %d results, got %d", round, n, len(sched.Results))
		}
		for _, r := range sched.Results {
			if r.Waiting < 0 {
				t.Fatalf("round %d: negative waiting for %s", round, r.ID)
			}
			if r.Turnaround < r.Burst {
				t.Fatalf("round %d: turnaround %d < burst %d for %s", round, r.Turnaround, r.Burst, r.ID)
			}
			if r.Response != r.Waiting {
				t.Fatalf("round %d: response %d != waiting %d for %s", round, r.Response, r.Waiting, r.ID)
			}
		}
	}
}

func TestByInputOrder(t *testing.T) {
	input := textbook()
	sched, err := Run(input)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	ordered := ByInputOrder(sched.Results, input)
	for i, r := range ordered {
		if r.ID != input[i].ID {
			t.Fatalf("position %d: expected %s, got %s", i, input[i].ID, r.ID)
		}
	}
}

func hasIdle(idle []Interval, start, end int) bool {
	for _, gap := range idle {
		if gap.Start == start && gap.End == end {
			return true
		}
	}
	return false
}

func TestScheduleAcceptsClockUpToMaxInt(t *testing.T) {
	sched, err := Run([]Process{{ID: "edge", Arrival: math.MaxInt - 5, Burst: 5}})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	block := sched.Blocks[0]
	if block.Start != math.MaxInt-5 || block.End != math.MaxInt || block.End-block.Start != 5 {
		t.Fatalf("unexpected block %+v", block)
	}
	if sched.Metrics.Makespan != math.MaxInt || sched.Metrics.IdleTime != math.MaxInt-5 {
		t.Fatalf("unexpected metrics %+v", sched.Metrics)
	}
}
