package sjf

import "container/heap"

type queued struct {
	proc  Process
	order int
}

// readyQueue is a min-heap ordered by burst, then arrival, then input order.
type readyQueue []queued

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	return shorter(q[i], q[j])
}

func (q readyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) {
	*q = append(*q, x.(queued))
}

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (q *readyQueue) add(item queued) {
	heap.Push(q, item)
}

func (q *readyQueue) next() queued {
	return heap.Pop(q).(queued)
}

func shorter(a, b queued) bool {
	if a.proc.Burst != b.proc.Burst {
		return a.proc.Burst < b.proc.Burst
	}
	if a.proc.Arrival != b.proc.Arrival {
		return a.proc.Arrival < b.proc.Arrival
	}
	return a.order < b.order
}
