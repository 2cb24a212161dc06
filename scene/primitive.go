package scene

import (
	"math"

	"github.com/achilleasa/wavefront/types"
)

// A sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float32

	// The sphere material. Must be added to the scene before the sphere.
	Material types.MaterialRef
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float32, material types.MaterialRef) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Get the sphere bounding box.
func (s *Sphere) BBox() [2]types.Vec3 {
	r := types.XYZ(s.Radius, s.Radius, s.Radius)
	return [2]types.Vec3{s.Center.Sub(r), s.Center.Add(r)}
}

// Get the sphere center.
func (s *Sphere) Centroid() types.Vec3 {
	return s.Center
}

// Intersect ray with the sphere. Returns the closest hit distance inside
// the ray [TMin, TMax] extent.
func (s *Sphere) Intersect(ray types.Ray) (float32, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.Dot(ray.Dir)
	halfB := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := float32(math.Sqrt(float64(disc)))

	t := (-halfB - sqrtDisc) / a
	if t <= ray.TMin || t >= ray.TMax {
		t = (-halfB + sqrtDisc) / a
		if t <= ray.TMin || t >= ray.TMax {
			return 0, false
		}
	}
	return t, true
}

// Get the spherical (u, v) coordinates of a point on the sphere surface.
func (s *Sphere) UV(p types.Vec3) types.Vec2 {
	n := p.Sub(s.Center).Mul(1.0 / s.Radius)
	theta := math.Acos(clamp(float64(n[1]), -1, 1))
	phi := math.Atan2(float64(n[2]), float64(n[0]))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return types.XY(float32(phi/(2*math.Pi)), float32(theta/math.Pi))
}

// Reconstruct the surface point and normal from spherical coordinates.
func (s *Sphere) SurfaceAt(uv types.Vec2) Surface {
	phi := float64(uv[0]) * 2 * math.Pi
	theta := float64(uv[1]) * math.Pi
	sinTheta := math.Sin(theta)

	n := types.XYZ(
		float32(sinTheta*math.Cos(phi)),
		float32(math.Cos(theta)),
		float32(sinTheta*math.Sin(phi)),
	)
	return Surface{
		Point:  s.Center.Add(n.Mul(s.Radius)),
		Normal: n,
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
