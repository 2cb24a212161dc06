package soa

import (
	"sort"

	"github.com/achilleasa/wavefront/schema"
)

// Import path of the module that hosts the runtime packages referenced by
// generated code.
const ModulePath = "github.com/achilleasa/wavefront"

// A scalar device column produced by one component of a flat type.
type DeviceComponent struct {
	// Column name suffix; empty for single component types.
	Suffix string

	// WGSL scalar type (f32, i32 or u32).
	Scalar string
}

// Describes how a flat schema type is stored on the host and on the device.
type TypeMapping struct {
	// Go type used by record structs, e.g. "types.Vec3".
	GoType string

	// Import paths referenced by GoType.
	Imports []string

	// Split column helper type (e.g. "soa.Vec3Column") and its allocator
	// (e.g. "soa.AllocVec3"). If empty, the field is stored in a plain
	// []GoType column.
	Column string
	Alloc  string

	// Scalar columns used by the device layout.
	Device []DeviceComponent
}

// Returns true if the host layout stores each component in its own array.
func (m TypeMapping) Split() bool {
	return m.Column != ""
}

// Maps flat schema types to storage. Keys are type shapes so that a mapping
// registered for Sampler<C> applies to every binding of the parameter.
type TypeMap map[string]TypeMapping

// Register a mapping for a flat schema type.
func (m TypeMap) Add(schemaType string, mapping TypeMapping) {
	m[schema.TypeShape(schemaType)] = mapping
}

// Lookup the mapping for a flat schema type.
func (m TypeMap) Lookup(schemaType string) (TypeMapping, bool) {
	mapping, ok := m[schema.TypeShape(schemaType)]
	return mapping, ok
}

// Get the registered schema type shapes in sorted order.
func (m TypeMap) Shapes() []string {
	out := make([]string, 0, len(m))
	for shape := range m {
		out = append(out, shape)
	}
	sort.Strings(out)
	return out
}

// Get the mappings for the default work item vocabulary.
func DefaultTypeMap() TypeMap {
	typesPkg := []string{ModulePath + "/types"}
	scalar := func(s string) []DeviceComponent { return []DeviceComponent{{Scalar: s}} }
	components := func(s string, suffixes ...string) []DeviceComponent {
		out := make([]DeviceComponent, len(suffixes))
		for i, suffix := range suffixes {
			out[i] = DeviceComponent{Suffix: suffix, Scalar: s}
		}
		return out
	}

	m := make(TypeMap)
	m.Add("int", TypeMapping{GoType: "int32", Device: scalar("i32")})
	m.Add("bool", TypeMapping{GoType: "bool", Device: scalar("u32")})
	m.Add("Float", TypeMapping{GoType: "float32", Device: scalar("f32")})
	m.Add("Array2f", TypeMapping{
		GoType:  "types.Vec2",
		Imports: typesPkg,
		Column:  "soa.Vec2Column",
		Alloc:   "soa.AllocVec2",
		Device:  components("f32", "x", "y"),
	})
	m.Add("Array3f", TypeMapping{
		GoType:  "types.Vec3",
		Imports: typesPkg,
		Column:  "soa.Vec3Column",
		Alloc:   "soa.AllocVec3",
		Device:  components("f32", "x", "y", "z"),
	})
	m.Add("Spectrum", TypeMapping{
		GoType:  "types.Spectrum",
		Imports: typesPkg,
		Column:  "soa.SpectrumColumn",
		Alloc:   "soa.AllocSpectrum",
		Device:  components("f32", "r", "g", "b"),
	})
	m.Add("Sampler<C>", TypeMapping{
		GoType:  "types.Sampler",
		Imports: typesPkg,
		Device:  components("u32", "state_lo", "state_hi", "inc_lo", "inc_hi"),
	})
	m.Add("Ray<C>", TypeMapping{
		GoType:  "types.Ray",
		Imports: typesPkg,
		Device:  components("f32", "origin_x", "origin_y", "origin_z", "dir_x", "dir_y", "dir_z", "tmin", "tmax"),
	})
	m.Add("Intersection<C>", TypeMapping{
		GoType:  "types.Intersection",
		Imports: typesPkg,
		Device: []DeviceComponent{
			{Suffix: "t", Scalar: "f32"},
			{Suffix: "geom_id", Scalar: "i32"},
			{Suffix: "prim_id", Scalar: "i32"},
			{Suffix: "u", Scalar: "f32"},
			{Suffix: "v", Scalar: "f32"},
		},
	})
	m.Add("const Material<C> *", TypeMapping{
		GoType:  "types.MaterialRef",
		Imports: typesPkg,
		Device:  scalar("u32"),
	})
	return m
}
