// Package scene provides the collaborators invoked by the wavefront tracer:
// closest-hit queries, surface reconstruction, materials, background
// radiance and primary ray generation.
package scene

import (
	"fmt"
	"sync"

	"github.com/achilleasa/wavefront/types"
)

// Surface data reconstructed from a hit record.
type Surface struct {
	Point  types.Vec3
	Normal types.Vec3
}

// The Scene interface is implemented by geometry containers that can be
// traced by the wavefront tracer. Implementations must be safe for
// concurrent use.
type Scene interface {
	// Find the closest intersection along ray. Returns false on a miss.
	Intersect(ray types.Ray) (types.Intersection, bool)

	// Reconstruct the surface at a hit point.
	SurfaceAt(geomID, primID int32, uv types.Vec2) Surface

	// Get the material assigned to a geometry.
	MaterialOf(geomID int32) types.MaterialRef

	// Lookup material by reference.
	Material(ref types.MaterialRef) Material

	// Get radiance for rays that leave the scene.
	Background(dir types.Vec3) types.Spectrum

	// Get the scene camera.
	Camera() Camera
}

// Sphere lists up to this size are not partitioned further.
const minLeafSpheres = 2

// A scene made of spheres.
type SphereScene struct {
	camera    Camera
	bgColor   types.Spectrum
	materials []Material
	spheres   []*Sphere

	// The BVH is built by the first Intersect call after the sphere
	// list changes.
	bvhOnce *sync.Once
	bvh     *BVH
}

// Create a new sphere scene.
func NewSphereScene(camera Camera, bgColor types.Spectrum) *SphereScene {
	return &SphereScene{
		camera:  camera,
		bgColor: bgColor,
		bvhOnce: new(sync.Once),
	}
}

// Add a material to the scene and get back its reference.
func (s *SphereScene) AddMaterial(material Material) types.MaterialRef {
	s.materials = append(s.materials, material)
	return types.MaterialRef(len(s.materials) - 1)
}

// Add a sphere to the scene.
func (s *SphereScene) AddSphere(sphere *Sphere) error {
	if sphere.Radius <= 0 {
		return fmt.Errorf("scene: sphere radius must be > 0; got %f", sphere.Radius)
	}
	if int(sphere.Material) >= len(s.materials) {
		return fmt.Errorf("scene: sphere references unknown material %d; ensure that the material is added to the scene before adding the sphere", sphere.Material)
	}
	s.spheres = append(s.spheres, sphere)
	s.bvhOnce = new(sync.Once)
	return nil
}

// Get the number of spheres.
func (s *SphereScene) NumSpheres() int {
	return len(s.spheres)
}

func (s *SphereScene) Intersect(ray types.Ray) (types.Intersection, bool) {
	index, t, ok := s.accel().Intersect(ray, func(item int32, clipped types.Ray) (float32, bool) {
		return s.spheres[item].Intersect(clipped)
	})
	if !ok {
		return types.Intersection{}, false
	}
	return types.Intersection{
		T:      t,
		GeomID: index,
		PrimID: 0,
		UV:     s.spheres[index].UV(ray.At(t)),
	}, true
}

func (s *SphereScene) accel() *BVH {
	s.bvhOnce.Do(func() {
		volumes := make([]BoundedVolume, len(s.spheres))
		for index, sphere := range s.spheres {
			volumes[index] = sphere
		}
		s.bvh = BuildBVH(volumes, minLeafSpheres)
	})
	return s.bvh
}

func (s *SphereScene) SurfaceAt(geomID, primID int32, uv types.Vec2) Surface {
	return s.spheres[geomID].SurfaceAt(uv)
}

func (s *SphereScene) MaterialOf(geomID int32) types.MaterialRef {
	if geomID < 0 || int(geomID) >= len(s.spheres) {
		return types.NoMaterial
	}
	return s.spheres[geomID].Material
}

func (s *SphereScene) Material(ref types.MaterialRef) Material {
	if int(ref) >= len(s.materials) {
		return nil
	}
	return s.materials[ref]
}

func (s *SphereScene) Background(dir types.Vec3) types.Spectrum {
	return s.bgColor
}

func (s *SphereScene) Camera() Camera {
	return s.camera
}

// Build the reference scene: a diffuse sphere resting on a large diffuse
// ground sphere, lit by a spherical area light and a dim background.
func ReferenceScene(aspect float32) *SphereScene {
	camera := NewCamera(45)
	camera.Position = types.XYZ(0, 0.6, 3)
	camera.LookAt = types.XYZ(0, 0.2, 0)
	camera.SetupProjection(aspect)

	sc := NewSphereScene(camera, types.Spectrum{0.05, 0.07, 0.1})
	ground := sc.AddMaterial(&Diffuse{Albedo: types.Gray(0.6)})
	red := sc.AddMaterial(&Diffuse{Albedo: types.Spectrum{0.75, 0.2, 0.15}})
	blue := sc.AddMaterial(&Diffuse{Albedo: types.Spectrum{0.15, 0.25, 0.75}})
	light := sc.AddMaterial(&Emissive{Radiance: types.Gray(8)})

	for _, sphere := range []*Sphere{
		NewSphere(types.XYZ(0, -100.5, 0), 100, ground),
		NewSphere(types.XYZ(-0.55, 0, 0), 0.5, red),
		NewSphere(types.XYZ(0.55, -0.1, 0.3), 0.4, blue),
		NewSphere(types.XYZ(0, 2.2, 0.5), 0.6, light),
	} {
		// Reference spheres use known materials and positive radii.
		_ = sc.AddSphere(sphere)
	}

	return sc
}
