package sim

import (
	"sort"
)

// ReadyOrder reorders the ready queue before each selection.
// Implementations sort the slice in-place using sort.SliceStable for determinism.
type ReadyOrder interface {
	OrderQueue(procs []*Process)
}

// PriorityRoundRobinOrder sorts processes by effective rank (descending), then by
// arrival time (ascending), then by ID (ascending).
//
// The rank starts at the static priority. After every grant the engine lowers the
// running process's rank below the lowest rank of that cycle's ready processes, so a
// different ready process is chosen next regardless of static priority.
type PriorityRoundRobinOrder struct{}

func (o *PriorityRoundRobinOrder) OrderQueue(procs []*Process) {
	sort.SliceStable(procs, func(i, j int) bool {
		if procs[i].rank != procs[j].rank {
			return procs[i].rank > procs[j].rank
		}
		if procs[i].ArrivalTime != procs[j].ArrivalTime {
			return procs[i].ArrivalTime < procs[j].ArrivalTime
		}
		return procs[i].ID < procs[j].ID
	})
}
