package types

// An RGB radiance or throughput value.
type Spectrum [3]float32

// Create a spectrum with all channels set to v.
func Gray(v float32) Spectrum {
	return Spectrum{v, v, v}
}

// Add spectrum.
func (s Spectrum) Add(s2 Spectrum) Spectrum {
	return Spectrum{s[0] + s2[0], s[1] + s2[1], s[2] + s2[2]}
}

// Multiply spectra component-wise.
func (s Spectrum) Mul(s2 Spectrum) Spectrum {
	return Spectrum{s[0] * s2[0], s[1] * s2[1], s[2] * s2[2]}
}

// Scale spectrum by a scalar.
func (s Spectrum) Scale(f float32) Spectrum {
	return Spectrum{s[0] * f, s[1] * f, s[2] * f}
}

// Get the max channel value.
func (s Spectrum) MaxComponent() float32 {
	max := s[0]
	if s[1] > max {
		max = s[1]
	}
	if s[2] > max {
		max = s[2]
	}
	return max
}

// Returns true if all channels are zero (or negative).
func (s Spectrum) IsBlack() bool {
	return s[0] <= 0 && s[1] <= 0 && s[2] <= 0
}
