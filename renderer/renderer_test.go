package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/types"
)

func TestRender(t *testing.T) {
	type spec struct {
		ctx       backend.Context
		capacity  uint32
		spp       uint32
		expPasses int
	}
	specs := []spec{
		{backend.NewSerial(backend.SerialOptions{}), 0, 1, 1},
		{backend.NewSerial(backend.SerialOptions{}), 30, 2, 8},
		{backend.NewHost(backend.HostOptions{Workers: 4}), 64, 3, 6},
	}

	for index, s := range specs {
		var progress []int
		r, err := NewDefault(s.ctx, scene.ReferenceScene(1.5), Options{
			FrameW:          12,
			FrameH:          8,
			SamplesPerPixel: s.spp,
			Capacity:        s.capacity,
			Progress: func(done, total int) {
				if total != s.expPasses {
					t.Errorf("[spec %d] expected %d total passes; got %d", index, s.expPasses, total)
				}
				progress = append(progress, done)
			},
		})
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}

		if err = r.Render(context.Background()); err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		r.Close()

		stats := r.Stats()
		if stats.Passes != s.expPasses {
			t.Fatalf("[spec %d] expected %d passes; got %d", index, s.expPasses, stats.Passes)
		}
		if len(progress) != s.expPasses || progress[len(progress)-1] != s.expPasses {
			t.Fatalf("[spec %d] expected progress to reach %d; got %v", index, s.expPasses, progress)
		}
		if exp := 12 * 8 * int(s.spp); stats.Bounces[0].Rays != exp {
			t.Fatalf("[spec %d] expected %d camera rays; got %d", index, exp, stats.Bounces[0].Rays)
		}

		var lit bool
		for y := 0; y < 8; y++ {
			for x := 0; x < 12; x++ {
				if !r.Film().Pixel(x, y).IsBlack() {
					lit = true
				}
			}
		}
		if !lit {
			t.Fatalf("[spec %d] expected some pixels to receive radiance", index)
		}
	}
}

func TestRenderInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r, err := NewDefault(backend.NewSerial(backend.SerialOptions{}), scene.ReferenceScene(1), Options{
		FrameW:          8,
		FrameH:          8,
		SamplesPerPixel: 4,
		Capacity:        16,
		Progress: func(done, total int) {
			if done == 2 {
				cancel()
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	err = r.Render(ctx)
	if !errors.Is(err, ErrInterrupted) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected to get ErrInterrupted; got %v", err)
	}
}

func TestNewDefaultErrors(t *testing.T) {
	ctx := backend.NewSerial(backend.SerialOptions{})
	noCamera := scene.NewSphereScene(nil, types.Gray(0))

	type spec struct {
		sc     scene.Scene
		opts   Options
		expErr error
	}
	specs := []spec{
		{scene.ReferenceScene(1), Options{FrameW: 0, FrameH: 4}, ErrInvalidFrame},
		{nil, Options{FrameW: 4, FrameH: 4}, ErrSceneNotDefined},
		{noCamera, Options{FrameW: 4, FrameH: 4}, ErrCameraNotDefined},
	}

	for index, s := range specs {
		_, err := NewDefault(ctx, s.sc, s.opts)
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected to get %v; got %v", index, s.expErr, err)
		}
	}
}
