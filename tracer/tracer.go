// Package tracer implements a wavefront path tracer. All active paths of a
// batch advance through the same pipeline stage together; stages communicate
// through work queues that are filled by one stage and drained by the next.
package tracer

import (
	"fmt"
	"time"

	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/queue"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/types"
	"github.com/achilleasa/wavefront/workitem"
)

// The Film interface receives the resolved radiance for each traced pixel.
// AddSample is invoked concurrently for distinct pixels.
type Film interface {
	AddSample(pixel int, L types.Spectrum)
}

type rayQueue[C backend.Context] = queue.WorkQueue[*workitem.RayWorkItemSOA[C], workitem.RayWorkItem, workitem.RayWorkItemView[C]]
type materialQueue[C backend.Context] = queue.WorkQueue[*workitem.MaterialWorkItemSOA[C], workitem.MaterialWorkItem, workitem.MaterialWorkItemView[C]]

// A wavefront path tracer that executes its stages on C.
type Tracer[C backend.Context] struct {
	logger log.Logger

	ctx   C
	scene scene.Scene
	film  Film
	opts  Options

	// Per-path state indexed by batch lane.
	paths *workitem.PathStateSOA[C]

	// Double-buffered ray queues. Intersect drains the active queue while
	// Shade fills the other one.
	rayQueues    [2]*rayQueue[C]
	activeRayBuf int

	materials *materialQueue[C]

	// The batch being traced and the current bounce.
	batch  *Batch
	bounce int

	closed bool
}

// Create a new tracer.
func New[C backend.Context](ctx C, sc scene.Scene, film Film, opts Options) (*Tracer[C], error) {
	if sc == nil {
		return nil, ErrNoScene
	}
	if film == nil {
		return nil, ErrNoFilm
	}

	return &Tracer[C]{
		logger: log.New("wavefront tracer"),
		ctx:    ctx,
		scene:  sc,
		film:   film,
		opts:   opts.withDefaults(),
		rayQueues: [2]*rayQueue[C]{
			workitem.NewRayWorkItemQueue(ctx, "rays-0"),
			workitem.NewRayWorkItemQueue(ctx, "rays-1"),
		},
		materials: workitem.NewMaterialWorkItemQueue(ctx, "materials"),
	}, nil
}

// Get the tracer options.
func (tr *Tracer[C]) Options() Options {
	return tr.opts
}

// Trace one sample for every pixel in the batch and add the resolved
// radiance to the film. Any stage error aborts the pass.
func (tr *Tracer[C]) Trace(batch *Batch) (*PassStats, error) {
	if tr.closed {
		return nil, ErrClosed
	}
	if err := batch.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	tr.batch = batch
	tr.bounce = 0
	stats := &PassStats{Batch: *batch}

	stage := GenerateCameraRays
	for {
		elapsed, err := tr.runStage(stage, stats)
		stats.stageTime[stage] += elapsed
		if err != nil {
			return nil, &StageError{Stage: stage, Bounce: tr.bounce, Err: err}
		}
		if stage == Resolve {
			break
		}
		stage = stage.Next(tr.raysPending())
	}

	stats.RenderTime = time.Since(start)
	tr.logger.Debugf(
		"traced pixels [%d, %d) sample %d: %d bounces, %d paths terminated in %d ms",
		batch.Offset, batch.Offset+batch.Count, batch.Sample, len(stats.Bounces), stats.Terminated(), stats.RenderTime.Nanoseconds()/1e6,
	)
	return stats, nil
}

// Release all queue and path storage.
func (tr *Tracer[C]) Close() {
	if tr.closed {
		return
	}
	tr.closed = true

	for _, q := range tr.rayQueues {
		q.Free()
	}
	tr.materials.Free()
	if tr.paths != nil {
		tr.paths.Free()
		tr.paths = nil
	}
}

func (tr *Tracer[C]) runStage(stage Stage, stats *PassStats) (time.Duration, error) {
	switch stage {
	case GenerateCameraRays:
		return tr.generateCameraRays()
	case Intersect:
		stats.Bounces = append(stats.Bounces, BounceStats{Rays: tr.activeRays().Size()})
		elapsed, err := tr.intersect()
		stats.Bounces[len(stats.Bounces)-1].Hits = tr.materials.Size()
		return elapsed, err
	case Shade:
		elapsed, err := tr.shade()
		if err == nil {
			stats.Bounces[len(stats.Bounces)-1].Continued = tr.activeRays().Size()
			tr.bounce++
		}
		return elapsed, err
	case Resolve:
		return tr.resolve()
	}
	return 0, fmt.Errorf("tracer: unsupported stage %s", stage)
}

func (tr *Tracer[C]) activeRays() *rayQueue[C] {
	return tr.rayQueues[tr.activeRayBuf]
}

func (tr *Tracer[C]) raysPending() bool {
	return tr.activeRays().Size() > 0 && tr.bounce < tr.opts.MaxBounces
}

// Size path state and ray queues for the current batch and emit one camera
// ray per pixel.
func (tr *Tracer[C]) generateCameraRays() (time.Duration, error) {
	start := time.Now()

	camera := tr.scene.Camera()
	if camera == nil {
		return 0, fmt.Errorf("tracer: scene does not define a camera")
	}

	numPaths := tr.batch.Count
	if err := tr.resetPaths(numPaths); err != nil {
		return time.Since(start), err
	}
	for _, q := range tr.rayQueues {
		if err := q.Reset(numPaths); err != nil {
			return time.Since(start), err
		}
	}
	tr.activeRayBuf = 0

	rays := tr.activeRays()
	err := tr.ctx.Dispatch(numPaths, func(lane int) error {
		x, y := tr.batch.Pixel(lane)
		sampler := types.NewSampler(tr.opts.Seed, uint32(tr.batch.Offset+lane), tr.batch.Sample)
		ray := camera.GenerateRay(x, y, tr.batch.FrameW, tr.batch.FrameH, &sampler)

		tr.paths.Set(lane, workitem.PathState{
			Sampler: sampler,
			Beta:    types.Gray(1),
		})
		_, err := rays.Push(workitem.RayWorkItem{Pixel: int32(lane), Ray: ray})
		return err
	})
	return time.Since(start), err
}

func (tr *Tracer[C]) resetPaths(numPaths int) error {
	if tr.paths != nil && tr.paths.Len() == numPaths {
		return nil
	}
	if tr.paths != nil {
		tr.paths.Free()
		tr.paths = nil
	}

	paths, err := workitem.NewPathStateSOA(tr.ctx, numPaths)
	if err != nil {
		return fmt.Errorf("tracer: could not allocate path state for %d paths: %w", numPaths, err)
	}
	tr.paths = paths
	return nil
}

// Intersect the active rays with the scene. Hits are queued for shading;
// misses pick up the background radiance and terminate.
func (tr *Tracer[C]) intersect() (time.Duration, error) {
	start := time.Now()

	if err := tr.materials.Reset(tr.batch.Count); err != nil {
		return time.Since(start), err
	}

	err := tr.activeRays().Drain(func(_ int, v workitem.RayWorkItemView[C]) error {
		lane := v.Pixel()
		ray := v.Ray()
		path := tr.paths.View(int(lane))

		hit, ok := tr.scene.Intersect(ray)
		if !ok {
			path.SetL(path.L().Add(path.Beta().Mul(tr.scene.Background(ray.Dir))))
			path.SetTerminated(true)
			return nil
		}

		_, err := tr.materials.Push(workitem.MaterialWorkItem{
			Pixel:    lane,
			Material: tr.scene.MaterialOf(hit.GeomID),
			GeomID:   hit.GeomID,
			PrimID:   hit.PrimID,
			UV:       hit.UV,
			Wo:       ray.Dir.Neg(),
		})
		return err
	})
	return time.Since(start), err
}

// Shade the queued hits and emit the next bounce ray for surviving paths.
func (tr *Tracer[C]) shade() (time.Duration, error) {
	start := time.Now()

	next := tr.rayQueues[1-tr.activeRayBuf]
	if err := next.Reset(tr.batch.Count); err != nil {
		return time.Since(start), err
	}

	err := tr.materials.Drain(func(_ int, v workitem.MaterialWorkItemView[C]) error {
		item := v.Get()
		path := tr.paths.View(int(item.Pixel))

		material := tr.scene.Material(item.Material)
		if material == nil {
			return fmt.Errorf("tracer: geometry %d references unknown material %d", item.GeomID, item.Material)
		}
		surface := tr.scene.SurfaceAt(item.GeomID, item.PrimID, item.UV)

		beta := path.Beta()
		path.SetL(path.L().Add(beta.Mul(material.Emitted(item.Wo, surface.Normal))))

		depth := path.Depth() + 1
		if int(depth) >= tr.opts.MaxBounces {
			path.SetTerminated(true)
			return nil
		}

		sampler := path.Sampler()
		wi, weight, ok := material.Sample(item.Wo, surface.Normal, sampler.Next2D())
		beta = beta.Mul(weight)
		if !ok || beta.IsBlack() {
			path.SetSampler(sampler)
			path.SetTerminated(true)
			return nil
		}

		if int(depth) >= tr.opts.MinBouncesForRR {
			q := 1 - beta.MaxComponent()
			if q < 0.05 {
				q = 0.05
			}
			if sampler.Next1D() < q {
				path.SetSampler(sampler)
				path.SetTerminated(true)
				return nil
			}
			beta = beta.Scale(1 / (1 - q))
		}

		path.SetSampler(sampler)
		path.SetBeta(beta)
		path.SetDepth(depth)
		_, err := next.Push(workitem.RayWorkItem{
			Pixel: item.Pixel,
			Ray:   types.NewRay(surface.Point, wi),
		})
		return err
	})
	if err != nil {
		return time.Since(start), err
	}

	tr.activeRayBuf = 1 - tr.activeRayBuf
	return time.Since(start), nil
}

// Write the accumulated radiance of every path to the film.
func (tr *Tracer[C]) resolve() (time.Duration, error) {
	start := time.Now()
	err := tr.ctx.Dispatch(tr.batch.Count, func(lane int) error {
		tr.film.AddSample(tr.batch.Offset+lane, tr.paths.View(lane).L())
		return nil
	})
	return time.Since(start), err
}
