// Package harness runs booking scripts against a reservation engine.
//
// A script is a YAML document of book, cancel and status steps, each with
// optional expectations, followed by assertions on the final seat state.
// After every step the harness verifies that each bus's stored count
// still matches its seat map, so a script doubles as an invariant check.
//
// RunIsolated executes a script on a fresh in-memory store with fixed
// booking references and a deterministic clock; its transcript is stable
// enough for golden-file comparison.
package harness
