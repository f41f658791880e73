// Package gantt lays a schedule out on a fixed number of terminal columns.
// Segment widths are proportional to their duration, so the chart never grows
// with the size of the time values.
package gantt

import (
	"strconv"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
)

// Span is one block or idle gap placed on the chart.
type Span struct {
	// ProcessID is empty for idle gaps.
	ProcessID string
	Start     int
	End       int
	// Col is the first column of the span; Width is at least 1.
	Col   int
	Width int
}

// Idle reports whether the span is a CPU idle gap.
func (s Span) Idle() bool {
	return s.ProcessID == ""
}

// Layout places every block and idle gap of sched, in time order, on columns
// columns. Each span gets one column plus a share of the rest proportional to
// its duration. When there are more spans than columns the trailing spans are
// dropped.
func Layout(sched sjf.Schedule, columns int) []Span {
	if columns < 1 {
		columns = 1
	}
	spans := ordered(sched)
	if len(spans) > columns {
		spans = spans[:columns]
	}
	if len(spans) == 0 {
		return nil
	}
	total := spans[len(spans)-1].End - spans[0].Start
	extra := columns - len(spans)
	col, elapsed, given := 0, 0, 0
	for i := range spans {
		elapsed += spans[i].End - spans[i].Start
		share := extra
		if elapsed < total {
			share = min(extra, int(float64(extra)*float64(elapsed)/float64(total)))
		}
		spans[i].Col = col
		spans[i].Width = 1 + share - given
		given = share
		col += spans[i].Width
	}
	return spans
}

// Axis renders tick labels under spans: the start of every span and the end of
// the last one. Labels that would overlap a previous one are skipped; the
// result is never wider than columns.
func Axis(spans []Span, columns int) string {
	if columns < 1 || len(spans) == 0 {
		return ""
	}
	axis := make([]byte, columns)
	for i := range axis {
		axis[i] = ' '
	}
	next := 0
	put := func(pos int, label string) {
		if pos+len(label) > columns {
			pos = columns - len(label)
		}
		if pos < next || pos < 0 {
			return
		}
		copy(axis[pos:], label)
		next = pos + len(label) + 1
	}
	for _, s := range spans {
		put(s.Col, strconv.Itoa(s.Start))
	}
	last := spans[len(spans)-1]
	put(last.Col+last.Width, strconv.Itoa(last.End))
	end := len(axis)
	for end > 0 && axis[end-1] == ' ' {
		end--
	}
	return string(axis[:end])
}

func ordered(sched sjf.Schedule) []Span {
	spans := make([]Span, 0, len(sched.Blocks)+len(sched.Idle))
	blocks, idle := sched.Blocks, sched.Idle
	for len(blocks) > 0 || len(idle) > 0 {
		if len(idle) > 0 && (len(blocks) == 0 || idle[0].Start < blocks[0].Start) {
			spans = append(spans, Span{Start: idle[0].Start, End: idle[0].End})
			idle = idle[1:]
			continue
		}
		b := blocks[0]
		spans = append(spans, Span{ProcessID: b.ProcessID, Start: b.Start, End: b.End})
		blocks = blocks[1:]
	}
	return spans
}
