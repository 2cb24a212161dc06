package types

import "math"

// Offset applied to secondary ray origins to avoid self-intersections.
const RayEpsilon float32 = 1e-4

// A ray with a parametric [TMin, TMax] extent.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	TMin   float32
	TMax   float32
}

// Create a ray with an unbounded extent.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		TMin:   RayEpsilon,
		TMax:   math.MaxFloat32,
	}
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Closest-hit query result.
type Intersection struct {
	T      float32
	GeomID int32
	PrimID int32
	UV     Vec2
}

// Index into the scene material table. Stands in for a device-side material
// pointer so work items stay plain data.
type MaterialRef uint32

// Reference used for surfaces without a material.
const NoMaterial MaterialRef = math.MaxUint32
