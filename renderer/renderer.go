// Package renderer drives a wavefront tracer over all pixels and samples of a
// frame.
package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/film"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer"
)

type Renderer interface {
	// Render frame. Rendering can be cancelled between passes using ctx.
	Render(ctx context.Context) error

	// Get the film that receives the rendered frame.
	Film() *film.Film

	// Shutdown renderer and the attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// A renderer that splits the frame into fixed size batches and traces them
// sequentially.
type defaultRenderer[C backend.Context] struct {
	logger log.Logger

	tracer  *tracer.Tracer[C]
	film    *film.Film
	batches []tracer.Batch

	options Options
	stats   FrameStats
}

// Create a new default renderer that executes on the given backend context.
func NewDefault[C backend.Context](ctx C, sc scene.Scene, opts Options) (Renderer, error) {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrame, opts.FrameW, opts.FrameH)
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera() == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.SamplesPerPixel == 0 {
		opts.SamplesPerPixel = 1
	}

	r := &defaultRenderer[C]{
		logger:  log.New("renderer"),
		film:    film.New(int(opts.FrameW), int(opts.FrameH)),
		batches: tracer.SplitFrame(int(opts.FrameW), int(opts.FrameH), int(opts.Capacity)),
		options: opts,
	}

	var err error
	r.tracer, err = tracer.New(ctx, sc, r.film, tracer.Options{
		MaxBounces:      int(opts.NumBounces),
		MinBouncesForRR: int(opts.MinBouncesForRR),
		Seed:            opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Infof(
		"using %s backend with %d workers; %d batches of up to %d paths",
		ctx.Name(), ctx.Workers(), len(r.batches), r.batches[0].Count,
	)
	return r, nil
}

// Render frame.
func (r *defaultRenderer[C]) Render(ctx context.Context) error {
	start := time.Now()
	r.film.Reset()
	r.stats = FrameStats{
		Capacity: r.batches[0].Count,
		Stages: []StageStat{
			{Stage: tracer.GenerateCameraRays},
			{Stage: tracer.Intersect},
			{Stage: tracer.Shade},
			{Stage: tracer.Resolve},
		},
	}

	total := int(r.options.SamplesPerPixel) * len(r.batches)
	done := 0
	for sample := uint32(0); sample < r.options.SamplesPerPixel; sample++ {
		for index := range r.batches {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", ErrInterrupted, err)
			}

			batch := r.batches[index]
			batch.Sample = sample
			passStats, err := r.tracer.Trace(&batch)
			if err != nil {
				return err
			}
			r.stats.addPass(passStats)

			done++
			if r.options.Progress != nil {
				r.options.Progress(done, total)
			}
		}
	}

	r.stats.finalize(time.Since(start))
	r.logger.Infof("rendered %d passes in %d ms", r.stats.Passes, r.stats.RenderTime.Nanoseconds()/1e6)
	return nil
}

func (r *defaultRenderer[C]) Film() *film.Film {
	return r.film
}

func (r *defaultRenderer[C]) Stats() FrameStats {
	return r.stats
}

// Shutdown renderer and the attached tracer.
func (r *defaultRenderer[C]) Close() {
	if r.tracer != nil {
		r.tracer.Close()
		r.tracer = nil
	}
}
