package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/wavefront/types"
)

// The Camera interface generates primary rays.
type Camera interface {
	// Generate a ray through pixel (x, y) of a w x h frame. The sampler
	// supplies the sub-pixel jitter.
	GenerateRay(x, y, w, h int, sampler *types.Sampler) types.Ray
}

// Stores the ray directions at the four corners of the camera frustrum. It is
// used as a shortcut for generating per pixel rays via interpolation of the
// corner rays.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// A pinhole camera.
type PinholeCamera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	Frustrum Frustrum
}

// Create a camera at the origin looking down the -Z axis.
func NewCamera(fov float32) *PinholeCamera {
	return &PinholeCamera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// Calculate the frustrum corner rays for the given aspect ratio. Must be
// called after changing the camera position or orientation.
func (c *PinholeCamera) SetupProjection(aspect float32) {
	forward := c.LookAt.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	halfH := float32(math.Tan(float64(c.FOV) * math.Pi / 360.0))
	halfW := halfH * aspect

	c.Frustrum[0] = forward.Add(up.Mul(halfH)).Sub(right.Mul(halfW))
	c.Frustrum[1] = forward.Add(up.Mul(halfH)).Add(right.Mul(halfW))
	c.Frustrum[2] = forward.Sub(up.Mul(halfH)).Sub(right.Mul(halfW))
	c.Frustrum[3] = forward.Sub(up.Mul(halfH)).Add(right.Mul(halfW))
}

func (c *PinholeCamera) GenerateRay(x, y, w, h int, sampler *types.Sampler) types.Ray {
	jitter := sampler.Next2D()
	tx := (float32(x) + jitter[0]) / float32(w)
	ty := (float32(y) + jitter[1]) / float32(h)

	top := lerp(c.Frustrum[0], c.Frustrum[1], tx)
	bottom := lerp(c.Frustrum[2], c.Frustrum[3], tx)
	return types.NewRay(c.Position, lerp(top, bottom, ty).Normalize())
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
