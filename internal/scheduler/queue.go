package scheduler

import (
	"container/heap"

	"github.com/vinhtrinh326/prrsched/internal/process"
)

type entry struct {
	proc *process.Process
	seq  uint64
}

// readyQueue orders processes by (priority, arrival, enqueue sequence).
// The sequence number keeps processes with equal priority and arrival in
// the order they were queued, so a preempted process goes behind its peers.
type readyQueue struct {
	items []entry
	seq   uint64
}

func newReadyQueue() *readyQueue {
	return &readyQueue{items: make([]entry, 0)}
}

func (q *readyQueue) Len() int { return len(q.items) }

func (q *readyQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.proc.Priority != b.proc.Priority {
		return a.proc.Priority < b.proc.Priority
	}
	if a.proc.Arrival != b.proc.Arrival {
		return a.proc.Arrival < b.proc.Arrival
	}
	return a.seq < b.seq
}

func (q *readyQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *readyQueue) Push(x any) { q.items = append(q.items, x.(entry)) }

func (q *readyQueue) Pop() any {
	old := q.items
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	q.items = old[:n-1]
	return e
}

func (q *readyQueue) enq(p *process.Process) {
	heap.Push(q, entry{proc: p, seq: q.seq})
	q.seq++
}

func (q *readyQueue) deq() *process.Process {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(entry).proc
}

func (q *readyQueue) qlen() int {
	return q.Len()
}
