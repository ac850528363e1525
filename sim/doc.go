// Package sim provides the forklift simulation engine for warehouse-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - task.go: TaskItem lifecycle (pending → carrying → processing → processed →
//     ready-for-dispatch → completed) and the Order container
//   - event.go: timers that drive the clock (TickEvent, ProcessingDoneEvent)
//   - engine.go: the Apply reducer, movement, interaction and dispatch rules
//
// # Architecture
//
// The sim package is synchronous and deterministic. A Session owns its clock and an
// EventHeap of timers; Engine.Apply takes a session and a Command and returns a
// successor session and a Result, never mutating its input. Time only moves when the
// host sends AdvanceClock. Sub-packages:
//   - sim/floorplan/: YAML floor plan files to and from Layout
//   - sim/host/: real-time runner that feeds commands and wall-clock ticks to a session
//   - sim/trace/: per-command decision trace and summary
//
// # Randomness
//
// All draws come from a PartitionedRNG keyed by the run seed: "orders" for order
// generation, "processing" for station delays, "inventory" for stocking empty shelves.
package sim
