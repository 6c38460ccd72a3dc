// Package types defines the values shared by the cleanfiles pipeline:
// FileRecord (one scanned file), Snapshot (all records of all roots at one
// point in time) and the tri-state Policy with its Actions map.
package types
