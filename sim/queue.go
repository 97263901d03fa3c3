// Implements the ReadyQueue, which holds the processes eligible for selection in a cycle.
// It is rebuilt at the start of every cycle from the process table.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue represents the arrived, unfinished processes of the current cycle.
// Its order after Reorder decides both the platinum pick and the candidate pick.
type ReadyQueue struct {
	queue []*Process
}

// Reset empties the queue, keeping its storage.
func (rq *ReadyQueue) Reset() {
	rq.queue = rq.queue[:0]
}

// Enqueue adds a process to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(fmt.Sprintf("P%d", p.ID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Peek() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// FirstOfTier returns the front-most process of the given tier, or nil.
func (rq *ReadyQueue) FirstOfTier(t Tier) *Process {
	for _, p := range rq.queue {
		if p.Tier == t {
			return p
		}
	}
	return nil
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (rq *ReadyQueue) Items() []*Process {
	return rq.queue
}

// Reorder applies fn to the queue contents, allowing in-place reordering.
// fn MUST NOT change the slice length (no append/delete).
func (rq *ReadyQueue) Reorder(fn func([]*Process)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(rq.queue)
	fn(rq.queue)
	if len(rq.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed queue length from %d to %d", n, len(rq.queue)))
	}
}
