// Package progress tracks aggregated startup counters for one run of a unit
// tree. The tracker travels in the context handed to Init, so every unit in
// the tree can report its transitions without a global registry.
package progress
