package tracer

const (
	// Default number of bounces before a path is terminated.
	DefaultMaxBounces = 5

	// Default number of bounces before russian roulette kicks in.
	DefaultMinBouncesForRR = 3
)

type Options struct {
	// Max number of bounces per path. The camera ray counts as the first
	// bounce.
	MaxBounces int

	// Min bounces before applying russian roulette for path elimination.
	MinBouncesForRR int

	// A seed for the per-path random number streams.
	Seed uint64
}

func (o Options) withDefaults() Options {
	if o.MaxBounces <= 0 {
		o.MaxBounces = DefaultMaxBounces
	}
	if o.MinBouncesForRR <= 0 {
		o.MinBouncesForRR = DefaultMinBouncesForRR
	}
	return o
}
