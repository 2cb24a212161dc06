package types

// A PCG32 random number stream. The sampler is plain data so it can live in
// a work item column and be carried between pipeline stages.
type Sampler struct {
	State uint64
	Inc   uint64
}

const (
	pcgMultiplier        uint64  = 6364136223846793005
	floatOneMinusEpsilon float32 = 0x1.fffffep-1
)

// Create a sampler for the given seed, pixel and sample index. Streams for
// different pixels never overlap.
func NewSampler(seed uint64, pixel, sample uint32) Sampler {
	s := Sampler{
		Inc: (uint64(pixel)<<1 | 1) ^ (seed << 33),
	}
	s.Inc |= 1
	s.next()
	s.State += seed ^ (uint64(sample) * 0x9e3779b97f4a7c15)
	s.next()
	return s
}

func (s *Sampler) next() uint32 {
	old := s.State
	s.State = old*pcgMultiplier + s.Inc
	xorShifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorShifted >> rot) | (xorShifted << ((-rot) & 31))
}

// Get a uniform sample in [0, 1).
func (s *Sampler) Next1D() float32 {
	v := float32(s.next()) * 0x1p-32
	if v > floatOneMinusEpsilon {
		return floatOneMinusEpsilon
	}
	return v
}

// Get a pair of uniform samples in [0, 1).
func (s *Sampler) Next2D() Vec2 {
	return Vec2{s.Next1D(), s.Next1D()}
}
