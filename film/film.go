// Package film accumulates per-pixel radiance and converts it to an image.
package film

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/achilleasa/wavefront/types"
	"github.com/disintegration/imaging"
)

// An HDR accumulation buffer. Concurrent AddSample calls are safe as long as
// they target distinct pixels.
type Film struct {
	width   int
	height  int
	accum   []types.Spectrum
	samples []uint32
}

// Create a new film.
func New(width, height int) *Film {
	return &Film{
		width:   width,
		height:  height,
		accum:   make([]types.Spectrum, width*height),
		samples: make([]uint32, width*height),
	}
}

// Get film dimensions.
func (f *Film) Size() (int, int) {
	return f.width, f.height
}

// Add a radiance sample for the pixel with the given linear index.
func (f *Film) AddSample(pixel int, L types.Spectrum) {
	f.accum[pixel] = f.accum[pixel].Add(L)
	f.samples[pixel]++
}

// Get the mean radiance for a pixel.
func (f *Film) Pixel(x, y int) types.Spectrum {
	index := y*f.width + x
	if f.samples[index] == 0 {
		return types.Spectrum{}
	}
	return f.accum[index].Scale(1.0 / float32(f.samples[index]))
}

// Clear all accumulated samples.
func (f *Film) Reset() {
	for index := range f.accum {
		f.accum[index] = types.Spectrum{}
		f.samples[index] = 0
	}
}

// Tonemap the accumulated radiance using simple Reinhard tone mapping
// followed by gamma correction.
func (f *Film) Image(exposure float32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			L := f.Pixel(x, y).Scale(exposure)
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte(L[0]),
				G: toByte(L[1]),
				B: toByte(L[2]),
				A: 255,
			})
		}
	}
	return img
}

// Tonemap the accumulated radiance and save it to an image file. The
// image format is detected from the file extension.
func (f *Film) Save(path string, exposure float32) error {
	if err := imaging.Save(f.Image(exposure), path); err != nil {
		return fmt.Errorf("film: could not save %s: %w", path, err)
	}
	return nil
}

func toByte(v float32) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	mapped := v / (1 + v)
	return uint8(math.Round(math.Pow(float64(mapped), 1.0/2.2) * 255))
}
