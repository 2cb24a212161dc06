package tracer

import "fmt"

// A contiguous range of frame pixels that is traced by a single wavefront
// pass. Pixels are indexed in row-major order.
type Batch struct {
	// Frame dims.
	FrameW int
	FrameH int

	// The first pixel of the batch and the number of pixels in it.
	Offset int
	Count  int

	// The sample index for all pixels in the batch.
	Sample uint32
}

// Get the frame x, y coordinates for a batch lane.
func (b *Batch) Pixel(lane int) (int, int) {
	pixel := b.Offset + lane
	return pixel % b.FrameW, pixel / b.FrameW
}

func (b *Batch) validate() error {
	switch {
	case b == nil:
		return fmt.Errorf("%w: nil batch", ErrInvalidBatch)
	case b.FrameW <= 0 || b.FrameH <= 0:
		return fmt.Errorf("%w: frame dims %dx%d", ErrInvalidBatch, b.FrameW, b.FrameH)
	case b.Count <= 0 || b.Offset < 0 || b.Offset+b.Count > b.FrameW*b.FrameH:
		return fmt.Errorf("%w: pixels [%d, %d) outside of %dx%d frame", ErrInvalidBatch, b.Offset, b.Offset+b.Count, b.FrameW, b.FrameH)
	}
	return nil
}

// Split a frame into batches of at most capacity pixels. Only the last batch
// may be smaller. A capacity <= 0 places the whole frame in a single batch.
func SplitFrame(frameW, frameH, capacity int) []Batch {
	numPixels := frameW * frameH
	if numPixels <= 0 {
		return nil
	}
	if capacity <= 0 || capacity > numPixels {
		capacity = numPixels
	}

	batches := make([]Batch, 0, (numPixels+capacity-1)/capacity)
	for offset := 0; offset < numPixels; offset += capacity {
		count := capacity
		if offset+count > numPixels {
			count = numPixels - offset
		}
		batches = append(batches, Batch{
			FrameW: frameW,
			FrameH: frameH,
			Offset: offset,
			Count:  count,
		})
	}
	return batches
}
