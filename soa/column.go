package soa

import (
	"unsafe"

	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/types"
)

// Allocate a column of n elements, charging its size to ctx.
func Alloc[T any](ctx backend.Context, n int) ([]T, error) {
	var zero T
	if err := ctx.Allocate(n * int(unsafe.Sizeof(zero))); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// Return the storage of a column allocated with Alloc to ctx.
func Free[T any](ctx backend.Context, col []T) {
	var zero T
	ctx.Release(len(col) * int(unsafe.Sizeof(zero)))
}

// A column of 2 component vectors stored as one array per component.
type Vec2Column struct {
	X, Y []float32
}

// Allocate a Vec2Column with n slots.
func AllocVec2(ctx backend.Context, n int) (Vec2Column, error) {
	var (
		col Vec2Column
		err error
	)
	if col.X, err = Alloc[float32](ctx, n); err != nil {
		return Vec2Column{}, err
	}
	if col.Y, err = Alloc[float32](ctx, n); err != nil {
		Free(ctx, col.X)
		return Vec2Column{}, err
	}
	return col, nil
}

func (c Vec2Column) Len() int {
	return len(c.X)
}

func (c Vec2Column) Get(i int) types.Vec2 {
	return types.Vec2{c.X[i], c.Y[i]}
}

func (c Vec2Column) Set(i int, v types.Vec2) {
	c.X[i], c.Y[i] = v[0], v[1]
}

// Release the column storage.
func (c Vec2Column) Free(ctx backend.Context) {
	Free(ctx, c.X)
	Free(ctx, c.Y)
}

// A column of 3 component vectors stored as one array per component.
type Vec3Column struct {
	X, Y, Z []float32
}

// Allocate a Vec3Column with n slots.
func AllocVec3(ctx backend.Context, n int) (Vec3Column, error) {
	x, y, z, err := alloc3(ctx, n)
	if err != nil {
		return Vec3Column{}, err
	}
	return Vec3Column{X: x, Y: y, Z: z}, nil
}

func (c Vec3Column) Len() int {
	return len(c.X)
}

func (c Vec3Column) Get(i int) types.Vec3 {
	return types.Vec3{c.X[i], c.Y[i], c.Z[i]}
}

func (c Vec3Column) Set(i int, v types.Vec3) {
	c.X[i], c.Y[i], c.Z[i] = v[0], v[1], v[2]
}

// Release the column storage.
func (c Vec3Column) Free(ctx backend.Context) {
	Free(ctx, c.X)
	Free(ctx, c.Y)
	Free(ctx, c.Z)
}

// A column of spectra stored as one array per channel.
type SpectrumColumn struct {
	R, G, B []float32
}

// Allocate a SpectrumColumn with n slots.
func AllocSpectrum(ctx backend.Context, n int) (SpectrumColumn, error) {
	r, g, b, err := alloc3(ctx, n)
	if err != nil {
		return SpectrumColumn{}, err
	}
	return SpectrumColumn{R: r, G: g, B: b}, nil
}

func (c SpectrumColumn) Len() int {
	return len(c.R)
}

func (c SpectrumColumn) Get(i int) types.Spectrum {
	return types.Spectrum{c.R[i], c.G[i], c.B[i]}
}

func (c SpectrumColumn) Set(i int, s types.Spectrum) {
	c.R[i], c.G[i], c.B[i] = s[0], s[1], s[2]
}

// Release the column storage.
func (c SpectrumColumn) Free(ctx backend.Context) {
	Free(ctx, c.R)
	Free(ctx, c.G)
	Free(ctx, c.B)
}

func alloc3(ctx backend.Context, n int) ([]float32, []float32, []float32, error) {
	var cols [3][]float32
	for i := range cols {
		col, err := Alloc[float32](ctx, n)
		if err != nil {
			for _, allocated := range cols[:i] {
				Free(ctx, allocated)
			}
			return nil, nil, nil, err
		}
		cols[i] = col
	}
	return cols[0], cols[1], cols[2], nil
}
