package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/wavefront/types"
)

func TestSphereIntersect(t *testing.T) {
	sphere := NewSphere(types.XYZ(0, 0, -5), 1, 0)

	type spec struct {
		ray   types.Ray
		expT  float32
		expOK bool
	}
	specs := []spec{
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1)), 4, true},
		{types.NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, -1)), 1, true},
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1)), 0, false},
		{types.NewRay(types.XYZ(0, 2, 0), types.XYZ(0, 0, -1)), 0, false},
		{types.Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, -1), TMin: 0, TMax: 3}, 0, false},
	}

	for index, s := range specs {
		tHit, ok := sphere.Intersect(s.ray)
		if ok != s.expOK {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expOK, ok)
		}
		if ok && math.Abs(float64(tHit-s.expT)) > 1e-4 {
			t.Fatalf("[spec %d] expected t = %f; got %f", index, s.expT, tHit)
		}
	}
}

func TestSurfaceReconstruction(t *testing.T) {
	sphere := NewSphere(types.XYZ(1, 2, 3), 2, 0)

	for _, dir := range []types.Vec3{
		types.XYZ(1, 0, 0),
		types.XYZ(0, 0, 1),
		types.XYZ(-1, 1, -1).Normalize(),
		types.XYZ(0.3, -0.8, 0.2).Normalize(),
	} {
		p := sphere.Center.Add(dir.Mul(sphere.Radius))
		surf := sphere.SurfaceAt(sphere.UV(p))

		if !types.ApproxEqual(surf.Point, p, 1e-4) {
			t.Fatalf("expected reconstructed point %v; got %v", p, surf.Point)
		}
		if !types.ApproxEqual(surf.Normal, dir, 1e-4) {
			t.Fatalf("expected reconstructed normal %v; got %v", dir, surf.Normal)
		}
	}
}

func TestSceneClosestHit(t *testing.T) {
	sc := NewSphereScene(NewCamera(45), types.Gray(0.5))
	mat := sc.AddMaterial(&Diffuse{Albedo: types.Gray(0.5)})
	light := sc.AddMaterial(&Emissive{Radiance: types.Gray(1)})

	if err := sc.AddSphere(NewSphere(types.XYZ(0, 0, -10), 1, mat)); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddSphere(NewSphere(types.XYZ(0, 0, -5), 1, light)); err != nil {
		t.Fatal(err)
	}

	hit, ok := sc.Intersect(types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1)))
	if !ok || hit.GeomID != 1 {
		t.Fatalf("expected closest hit on sphere 1; got %+v (hit: %t)", hit, ok)
	}
	if sc.MaterialOf(hit.GeomID) != light {
		t.Fatalf("expected light material; got %d", sc.MaterialOf(hit.GeomID))
	}
	if sc.MaterialOf(42) != types.NoMaterial {
		t.Fatal("expected NoMaterial for an unknown geometry")
	}

	if _, ok = sc.Intersect(types.NewRay(types.Vec3{}, types.XYZ(0, 1, 0))); ok {
		t.Fatal("expected a miss")
	}

	if err := sc.AddSphere(NewSphere(types.Vec3{}, 1, 7)); err == nil {
		t.Fatal("expected an error for an unknown material")
	}
	if err := sc.AddSphere(NewSphere(types.Vec3{}, 0, mat)); err == nil {
		t.Fatal("expected an error for a zero radius")
	}
}

func TestDiffuseSampling(t *testing.T) {
	mat := &Diffuse{Albedo: types.Gray(0.8)}
	n := types.XYZ(0, 1, 0)
	sampler := types.NewSampler(7, 0, 0)

	for i := 0; i < 1000; i++ {
		wi, weight, ok := mat.Sample(n, n, sampler.Next2D())
		if !ok {
			t.Fatal("expected diffuse material to scatter")
		}
		if wi.Dot(n) < 0 {
			t.Fatalf("expected sampled direction in the upper hemisphere; got %v", wi)
		}
		if math.Abs(float64(wi.Len()-1)) > 1e-4 {
			t.Fatalf("expected unit direction; got length %f", wi.Len())
		}
		if weight != types.Gray(0.8) {
			t.Fatalf("expected weight to equal albedo; got %v", weight)
		}
	}

	// Back-facing hits scatter into the lower hemisphere.
	wi, _, _ := mat.Sample(n.Neg(), n, types.XY(0.5, 0.5))
	if wi.Dot(n) > 0 {
		t.Fatalf("expected back-facing sample below the surface; got %v", wi)
	}

	if _, _, ok := (&Diffuse{}).Sample(n, n, types.XY(0.5, 0.5)); ok {
		t.Fatal("expected black diffuse material to absorb")
	}
}

func TestEmissive(t *testing.T) {
	mat := &Emissive{Radiance: types.Gray(4)}
	n := types.XYZ(0, 0, 1)

	if got := mat.Emitted(n, n); got != types.Gray(4) {
		t.Fatalf("expected front face emission; got %v", got)
	}
	if got := mat.Emitted(n.Neg(), n); !got.IsBlack() {
		t.Fatalf("expected no back face emission; got %v", got)
	}
	if _, _, ok := mat.Sample(n, n, types.XY(0, 0)); ok {
		t.Fatal("expected emissive material to absorb")
	}
}

func TestCameraFrustrum(t *testing.T) {
	cam := NewCamera(90)
	cam.SetupProjection(1)

	exp := Frustrum{
		types.XYZ(-1, 1, -1),
		types.XYZ(1, 1, -1),
		types.XYZ(-1, -1, -1),
		types.XYZ(1, -1, -1),
	}
	for index := range exp {
		if !types.ApproxEqual(cam.Frustrum[index], exp[index], 1e-5) {
			t.Fatalf("[corner %d] expected %v; got %v", index, exp[index], cam.Frustrum[index])
		}
	}

	sampler := types.NewSampler(1, 0, 0)
	ray := cam.GenerateRay(50, 50, 101, 101, &sampler)
	if ray.Dir[2] > -0.99 || ray.Origin != cam.Position {
		t.Fatalf("expected center pixel ray to point down -Z; got %+v", ray)
	}

	ray = cam.GenerateRay(0, 0, 101, 101, &sampler)
	if ray.Dir[0] >= 0 || ray.Dir[1] <= 0 {
		t.Fatalf("expected top-left pixel ray to point up and left; got %+v", ray)
	}
}

func TestReferenceScene(t *testing.T) {
	sc := ReferenceScene(1)
	if sc.NumSpheres() != 4 {
		t.Fatalf("expected 4 spheres; got %d", sc.NumSpheres())
	}

	sampler := types.NewSampler(1, 0, 0)
	ray := sc.Camera().GenerateRay(64, 127, 128, 128, &sampler)
	if _, ok := sc.Intersect(ray); !ok {
		t.Fatal("expected bottom center ray to hit the ground")
	}
}
