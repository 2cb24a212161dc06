// Package soa turns the active work item declarations of a schema into
// structure-of-arrays layouts and emits host (Go) and device (WGSL) storage
// types for them.
//
// Generation is a single structural pass: each declared field becomes one
// column (or one column per component for split vector types) and nested
// work item fields embed the layout of the referenced declaration.
package soa

import (
	"fmt"
	"strings"

	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/schema"
)

// A leaf storage column.
type Column struct {
	// Dotted path from the layout root, e.g. "wo.x" or "ray.origin_x".
	Path string

	// WGSL scalar type.
	Scalar string
}

// The storage of a single work item field.
type FieldLayout struct {
	// Schema field name and type.
	Name string
	Type string

	// Exported Go identifier for the field.
	GoName string

	// Set for flat fields.
	Mapping *TypeMapping

	// Set for fields that embed another work item.
	Nested *Layout
}

// The storage of an active work item declaration.
type Layout struct {
	// Full and base declaration names, e.g. RayWorkItem<C> and RayWorkItem.
	Name     string
	BaseName string

	// Exported Go identifier for generated types.
	GoName string

	// Context parametrization marker, preserved from the declaration.
	Template string

	// Fields in declaration order.
	Fields []*FieldLayout
}

// Lookup field by schema name.
func (l *Layout) Field(name string) *FieldLayout {
	for _, f := range l.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Get the leaf storage columns in field order. Nested layouts are flattened.
func (l *Layout) Columns() []Column {
	var out []Column
	l.appendColumns(&out, "")
	return out
}

func (l *Layout) appendColumns(out *[]Column, prefix string) {
	for _, f := range l.Fields {
		path := prefix + f.Name
		if f.Nested != nil {
			f.Nested.appendColumns(out, path+".")
			continue
		}
		for _, comp := range f.Mapping.Device {
			colPath := path
			if comp.Suffix != "" {
				colPath += "." + comp.Suffix
			}
			*out = append(*out, Column{Path: colPath, Scalar: comp.Scalar})
		}
	}
}

// Generate one layout per active work item declaration, in declaration order.
func Generate(doc *schema.Document, typeMap TypeMap) ([]*Layout, error) {
	logger := log.New("soa generator")

	var (
		layouts []*Layout
		byBase  = make(map[string]*Layout)
	)
	for index, wt := range doc.WorkItems {
		if !wt.Active {
			logger.Debugf("skipping inactive work item %s", wt.Name)
			continue
		}

		layout, err := generateLayout(doc, typeMap, index, wt, byBase)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
		byBase[wt.BaseName] = layout
	}

	logger.Infof("generated %d layouts from %q", len(layouts), doc.Source)
	return layouts, nil
}

func generateLayout(doc *schema.Document, typeMap TypeMap, declIndex int, wt *schema.WorkItemType, byBase map[string]*Layout) (*Layout, error) {
	layout := &Layout{
		Name:     wt.Name,
		BaseName: wt.BaseName,
		GoName:   exportName(wt.BaseName),
		Template: wt.Template,
	}

	// Generated record, storage and view types share a namespace with the
	// helper methods.
	members := map[string]string{
		"Get": "", "Set": "", "Slot": "", "Free": "", "Len": "", "View": "",
	}
	for _, f := range wt.Fields {
		fl := &FieldLayout{
			Name:   f.Name,
			Type:   f.Type,
			GoName: exportName(f.Name),
		}

		for _, member := range []string{fl.GoName, "Set" + fl.GoName} {
			if other, exists := members[member]; exists {
				msg := "generated member %q collides with a helper method"
				if other != "" {
					msg = "generated member %q collides with field " + other
				}
				return nil, fieldError(wt, f, msg, member)
			}
			members[member] = f.Name
		}

		if err := resolveField(doc, typeMap, declIndex, wt, f, fl, byBase); err != nil {
			return nil, err
		}
		layout.Fields = append(layout.Fields, fl)
	}

	return layout, nil
}

func resolveField(doc *schema.Document, typeMap TypeMap, declIndex int, wt *schema.WorkItemType, f *schema.Field, fl *FieldLayout, byBase map[string]*Layout) error {
	if doc.IsFlat(f.Type) {
		mapping, ok := typeMap.Lookup(f.Type)
		if !ok {
			return fieldError(wt, f, "no storage mapping for flat type %q", f.Type)
		}
		fl.Mapping = &mapping
		return nil
	}

	shape := schema.TypeShape(f.Type)
	for refIndex, ref := range doc.WorkItems {
		if schema.TypeShape(ref.Name) != shape {
			continue
		}
		switch {
		case refIndex >= declIndex:
			return fieldError(wt, f, "work item %q must be declared before it is referenced", ref.Name)
		case !ref.Active:
			return fieldError(wt, f, "references inactive work item %q", ref.Name)
		}
		fl.Nested = byBase[ref.BaseName]
		return nil
	}

	return fieldError(wt, f, "unknown type %q; not a flat type or a previously declared work item", f.Type)
}

func fieldError(wt *schema.WorkItemType, f *schema.Field, msgFormat string, args ...interface{}) error {
	return &schema.SchemaError{
		File:  wt.File,
		Line:  f.Line,
		Type:  wt.Name,
		Field: f.Name,
		Msg:   fmt.Sprintf(msgFormat, args...),
	}
}

// Commonly used initialisms that are upper-cased when exported.
var initialisms = map[string]string{
	"id":  "ID",
	"uv":  "UV",
	"rgb": "RGB",
	"rr":  "RR",
}

// Convert a snake_case schema identifier into an exported Go identifier.
func exportName(name string) string {
	var buf strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if upper, ok := initialisms[strings.ToLower(part)]; ok {
			buf.WriteString(upper)
			continue
		}
		buf.WriteString(strings.ToUpper(part[:1]))
		buf.WriteString(part[1:])
	}
	return buf.String()
}

// Convert an identifier into snake_case for device code.
func snakeName(name string) string {
	var buf strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			prevUpper := runes[i-1] >= 'A' && runes[i-1] <= 'Z'
			if prevLower || (prevUpper && nextLower) {
				buf.WriteByte('_')
			}
		}
		if isUpper {
			r += 'a' - 'A'
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
