// Package sjf computes non-preemptive Shortest-Job-First schedules. Run is
// a pure function: it validates the process set, runs the selection loop once,
// and returns the Gantt blocks, idle gaps and per-process results without
// touching any shared state, so callers may invoke it concurrently.
package sjf
