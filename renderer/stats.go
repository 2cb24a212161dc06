package renderer

import (
	"time"

	"github.com/achilleasa/wavefront/tracer"
)

type StageStat struct {
	Stage tracer.Stage

	// Total time spent in this stage and the percentage of the total
	// frame time it represents.
	RenderTime   time.Duration
	FramePercent float32
}

type BounceStat struct {
	// Rays traced, rays that hit the scene and paths that were
	// terminated at this bounce across all passes.
	Rays       int
	Hits       int
	Terminated int
}

type FrameStats struct {
	// Number of traced passes and paths per pass.
	Passes   int
	Capacity int

	// Per stage stats.
	Stages []StageStat

	// Per bounce stats.
	Bounces []BounceStat

	// Total render time for entire frame.
	RenderTime time.Duration
}

func (fs *FrameStats) addPass(ps *tracer.PassStats) {
	fs.Passes++
	for index, b := range ps.Bounces {
		if index >= len(fs.Bounces) {
			fs.Bounces = append(fs.Bounces, BounceStat{})
		}
		fs.Bounces[index].Rays += b.Rays
		fs.Bounces[index].Hits += b.Hits
		fs.Bounces[index].Terminated += b.Terminated()
	}
	for index := range fs.Stages {
		fs.Stages[index].RenderTime += ps.StageTime(fs.Stages[index].Stage)
	}
}

func (fs *FrameStats) finalize(renderTime time.Duration) {
	fs.RenderTime = renderTime
	if renderTime <= 0 {
		return
	}
	for index := range fs.Stages {
		fs.Stages[index].FramePercent = 100 * float32(fs.Stages[index].RenderTime) / float32(renderTime)
	}
}
