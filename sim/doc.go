// Package sim provides the discrete-event engine of the tiered CPU scheduling simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - process.go: Tier vocabulary, process definitions and the schedulable Process record
//   - builder.go: burst-time derivation from instruction catalogs (the Process Model Builder)
//   - event.go: the decisions a cycle can take (platinum run, slice, idle, survivor)
//   - simulator.go: the cycle loop, candidate selection, aging and termination
//
// # Scheduling Policy
//
// A single CPU is shared by three tiers. PLATINUM processes run to completion as soon
// as they have arrived and are never sliced. GOLD and SILVER processes run in quanta
// (120 and 80 ticks) and are ordered by an effective rank seeded from their priority.
// Each grant drops the rank of the process that ran below every ready peer, so the
// CPU rotates across priorities while the priority read from input stays static. A platinum arrival strictly inside a running slice
// truncates that slice at the arrival instant; the interrupted process keeps its
// partial progress. Cumulative executed time promotes SILVER to GOLD (240) and GOLD to
// PLATINUM (600).
//
// Sub-packages:
//   - sim/workload/: input sources (text catalog/program/definition files, YAML scenarios)
//   - sim/trace/: decision trace recording
package sim
