// Package metrics provides generation-run observability for daemon mode.
//
// Components take a Recorder through dependency injection and default to
// NoopRecorder, so single-shot CLI runs carry no metrics machinery at all;
// the daemon swaps in the Prometheus implementation.
package metrics

import "time"

// Recorder receives generation-run measurements.
type Recorder interface {
	// RecordRun observes one completed (or failed) generation.
	RecordRun(success bool, d time.Duration)
	// RecordRegistrySize sets the entry count of the last published registry.
	RecordRegistrySize(n int)
	// RecordChanges counts classified names from the last diff.
	RecordChanges(added, removed, updated int)
}

// NoopRecorder is the default Recorder; every method is a no-op.
type NoopRecorder struct{}

func (NoopRecorder) RecordRun(bool, time.Duration) {}
func (NoopRecorder) RecordRegistrySize(int)        {}
func (NoopRecorder) RecordChanges(int, int, int)   {}
