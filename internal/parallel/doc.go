// Package parallel runs independent jobs with bounded concurrency.
//
// WorkerPool is used to read and parse task files concurrently. Results
// come back in submission order regardless of completion order, so output
// built from them is deterministic.
package parallel
