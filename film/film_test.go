package film

import (
	"path/filepath"
	"testing"

	"github.com/achilleasa/wavefront/types"
	"github.com/disintegration/imaging"
)

func TestAccumulate(t *testing.T) {
	f := New(2, 2)
	f.AddSample(3, types.Spectrum{1, 2, 3})
	f.AddSample(3, types.Spectrum{3, 2, 1})

	if got := f.Pixel(1, 1); got != types.Gray(2) {
		t.Fatalf("expected mean radiance 2; got %v", got)
	}
	if got := f.Pixel(0, 0); !got.IsBlack() {
		t.Fatalf("expected pixel without samples to be black; got %v", got)
	}

	f.Reset()
	if got := f.Pixel(1, 1); !got.IsBlack() {
		t.Fatalf("expected reset to clear samples; got %v", got)
	}
}

func TestToneMapping(t *testing.T) {
	type spec struct {
		in  float32
		exp uint8
	}
	specs := []spec{
		{0, 0},
		{-1, 0},
		{1, 186},
		{1e9, 255},
	}

	for index, s := range specs {
		if got := toByte(s.in); got != s.exp {
			t.Errorf("[spec %d] expected %d; got %d", index, s.exp, got)
		}
	}
}

func TestSave(t *testing.T) {
	f := New(4, 3)
	for pixel := 0; pixel < 12; pixel++ {
		f.AddSample(pixel, types.Gray(float32(pixel)))
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := f.Save(path, 1); err != nil {
		t.Fatal(err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("expected a 4x3 image; got %dx%d", b.Dx(), b.Dy())
	}

	if err = f.Save(filepath.Join(t.TempDir(), "frame.unknown"), 1); err == nil {
		t.Fatal("expected an error for an unsupported image format")
	}
}
