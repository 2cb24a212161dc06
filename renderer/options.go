package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Max number of bounces per path.
	NumBounces uint32

	// Min bounces before applying russian roulette for path elimination.
	MinBouncesForRR uint32

	// Number of samples. Defaults to 1.
	SamplesPerPixel uint32

	// Exposure for tonemapping.
	Exposure float32

	// Max number of paths traced by a single wavefront pass. If set to 0
	// the whole frame is traced in one pass.
	Capacity uint32

	// Seed for the per-path random number streams.
	Seed uint64

	// If set, invoked after each completed pass with the number of
	// completed and total passes.
	Progress func(done, total int)
}
