package tracer

import "fmt"

// A wavefront pipeline stage.
type Stage uint8

// The stages of a wavefront pass. A pass starts at GenerateCameraRays,
// alternates Intersect and Shade once per bounce and ends at Resolve.
const (
	GenerateCameraRays Stage = iota
	Intersect
	Shade
	Resolve
	//
	numStages
)

// Implements Stringer.
func (s Stage) String() string {
	switch s {
	case GenerateCameraRays:
		return "GenerateCameraRays"
	case Intersect:
		return "Intersect"
	case Shade:
		return "Shade"
	case Resolve:
		return "Resolve"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// Get the stage that follows s. After Shade the pass either returns to
// Intersect or, once no rays are left or the bounce limit is reached,
// proceeds to Resolve.
func (s Stage) Next(raysPending bool) Stage {
	switch s {
	case GenerateCameraRays:
		return Intersect
	case Intersect:
		return Shade
	case Shade:
		if raysPending {
			return Intersect
		}
		return Resolve
	}
	return Resolve
}
