package scene

import (
	"math"

	"github.com/achilleasa/wavefront/types"
)

// The Material interface is implemented by surface scattering models. wo
// points away from the surface towards the previous path vertex and n is the
// geometric normal.
type Material interface {
	// Get the radiance emitted towards wo.
	Emitted(wo, n types.Vec3) types.Spectrum

	// Sample an incoming direction using the 2D sample u. Returns the
	// direction and the path throughput weight (f * cos / pdf). Returns
	// false if the material does not scatter light.
	Sample(wo, n types.Vec3, u types.Vec2) (types.Vec3, types.Spectrum, bool)
}

// A lambertian reflector.
type Diffuse struct {
	Albedo types.Spectrum
}

func (m *Diffuse) Emitted(wo, n types.Vec3) types.Spectrum {
	return types.Spectrum{}
}

func (m *Diffuse) Sample(wo, n types.Vec3, u types.Vec2) (types.Vec3, types.Spectrum, bool) {
	if m.Albedo.IsBlack() {
		return types.Vec3{}, types.Spectrum{}, false
	}

	// Shade the side facing wo.
	if wo.Dot(n) < 0 {
		n = n.Neg()
	}

	// Cosine-weighted hemisphere sampling; the cosine and the pdf cancel out.
	return cosineSampleHemisphere(n, u), m.Albedo, true
}

// A diffuse area light.
type Emissive struct {
	Radiance types.Spectrum
}

func (m *Emissive) Emitted(wo, n types.Vec3) types.Spectrum {
	if wo.Dot(n) <= 0 {
		return types.Spectrum{}
	}
	return m.Radiance
}

func (m *Emissive) Sample(wo, n types.Vec3, u types.Vec2) (types.Vec3, types.Spectrum, bool) {
	return types.Vec3{}, types.Spectrum{}, false
}

func cosineSampleHemisphere(n types.Vec3, u types.Vec2) types.Vec3 {
	r := math.Sqrt(float64(u[0]))
	phi := 2 * math.Pi * float64(u[1])
	x := float32(r * math.Cos(phi))
	y := float32(r * math.Sin(phi))
	z := float32(math.Sqrt(math.Max(0, 1-float64(u[0]))))

	s, t := types.Basis(n)
	return s.Mul(x).Add(t.Mul(y)).Add(n.Mul(z)).Normalize()
}
