package progressqueue

import "github.com/riverqueue/river"

// SweepJob triggers one progress sweep over every registered decoder. It
// carries no arguments; the sweep always recomputes from current results.
type SweepJob struct{}

// Kind returns the job type identifier for River.
func (SweepJob) Kind() string { return "progress_sweep" }

var _ river.JobArgs = SweepJob{}
