package tracer

import "time"

// Queue sizes for a single Intersect/Shade round.
type BounceStats struct {
	// Rays in the active ray queue when Intersect started.
	Rays int

	// Material work items produced by Intersect.
	Hits int

	// Rays pushed by Shade for the next bounce.
	Continued int
}

// Terminated returns the number of paths that ended at this bounce.
func (b BounceStats) Terminated() int {
	return b.Rays - b.Continued
}

// Statistics for a single wavefront pass.
type PassStats struct {
	// The traced batch.
	Batch Batch

	// Per-bounce queue sizes.
	Bounces []BounceStats

	// Total time for the pass.
	RenderTime time.Duration

	stageTime [numStages]time.Duration
}

// Get the total time spent in a stage.
func (s *PassStats) StageTime(stage Stage) time.Duration {
	if stage >= numStages {
		return 0
	}
	return s.stageTime[stage]
}

// Get the number of paths that were terminated before Resolve.
func (s *PassStats) Terminated() int {
	var total int
	for _, b := range s.Bounces {
		total += b.Terminated()
	}
	return total
}
