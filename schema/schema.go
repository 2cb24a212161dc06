// Package schema parses the declarative work item schema that drives SOA
// layout generation.
//
// A schema lists informational headers, a vocabulary of flat field types and
// an ordered set of work item declarations. Declarations may be marked
// inactive; they stay in the Document but are skipped by the generator.
package schema

import (
	"strings"
)

// How a field type was resolved while loading.
type RefKind uint8

const (
	// The type could not be resolved (only allowed for inactive declarations).
	RefNone RefKind = iota
	// The type is part of the flat vocabulary.
	RefFlat
	// The type names a previously declared work item.
	RefWorkItem
)

// Implements Stringer.
func (k RefKind) String() string {
	switch k {
	case RefFlat:
		return "flat"
	case RefWorkItem:
		return "work item"
	default:
		return "unresolved"
	}
}

// A primitive type usable directly by a field.
type FlatType struct {
	Name string

	// Template parameters mentioned by the name, e.g. [C] for Sampler<C>.
	Params []string
}

// A single work item field.
type Field struct {
	Name string
	Type string
	Line int

	Resolved RefKind
}

// A work item declaration.
type WorkItemType struct {
	// Full declared name, e.g. RayWorkItem<C>.
	Name string

	// Name without template arguments, e.g. RayWorkItem.
	BaseName string

	// The context parametrization marker, e.g. C. Empty if the
	// type is not parametrized.
	Template string

	// Fields in declaration order.
	Fields []*Field

	// Inactive declarations are reserved for future pipeline stages.
	Active bool

	File string
	Line int
}

// Lookup field by name.
func (wt *WorkItemType) Field(name string) *Field {
	for _, f := range wt.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// The parsed schema. A Document is read-only once Load returns.
type Document struct {
	// Source path of the root schema file.
	Source string

	// Informational consumer/dependency list.
	Headers []string

	// Flat type vocabulary.
	Flat []FlatType

	// Work item declarations in declaration order.
	WorkItems []*WorkItemType
}

// Returns true if the type name is part of the flat vocabulary.
func (d *Document) IsFlat(typeName string) bool {
	return d.flatType(typeName) != nil
}

// Lookup work item declaration by full or base name.
func (d *Document) WorkItem(name string) *WorkItemType {
	name = NormalizeType(name)
	for _, wt := range d.WorkItems {
		if wt.Name == name || wt.BaseName == name {
			return wt
		}
	}
	return nil
}

// Get the active work item declarations in declaration order.
func (d *Document) Active() []*WorkItemType {
	out := make([]*WorkItemType, 0, len(d.WorkItems))
	for _, wt := range d.WorkItems {
		if wt.Active {
			out = append(out, wt)
		}
	}
	return out
}

// Find the flat type matching typeName. Template arguments are compared
// structurally so Sampler<C> matches a vocabulary entry Sampler<T>.
func (d *Document) flatType(typeName string) *FlatType {
	shape := TypeShape(typeName)
	for index := range d.Flat {
		if TypeShape(d.Flat[index].Name) == shape {
			return &d.Flat[index]
		}
	}
	return nil
}

// Normalize a type name by collapsing whitespace runs and trimming spaces
// around template brackets and pointer markers.
func NormalizeType(typeName string) string {
	out := strings.Join(strings.Fields(typeName), " ")
	for _, tok := range []string{"<", ">", ","} {
		out = strings.ReplaceAll(out, " "+tok, tok)
		out = strings.ReplaceAll(out, tok+" ", tok)
	}
	// Keep a single space before trailing pointer markers: "const Material<C> *".
	out = strings.ReplaceAll(out, ">*", "> *")
	return out
}

// Split a type name into its base name and template arguments.
func SplitTemplate(typeName string) (string, []string) {
	typeName = NormalizeType(typeName)
	open := strings.IndexByte(typeName, '<')
	closeIdx := strings.LastIndexByte(typeName, '>')
	if open == -1 || closeIdx < open {
		return typeName, nil
	}

	base := typeName[:open]
	args := strings.Split(typeName[open+1:closeIdx], ",")
	for index := range args {
		args[index] = strings.TrimSpace(args[index])
	}
	return base + typeName[closeIdx+1:], args
}

// Get the shape of a type name: its text with every template argument
// replaced by a placeholder.
func TypeShape(typeName string) string {
	base, args := SplitTemplate(typeName)
	if len(args) == 0 {
		return base
	}

	typeName = NormalizeType(typeName)
	open := strings.IndexByte(typeName, '<')
	closeIdx := strings.LastIndexByte(typeName, '>')
	placeholders := make([]string, len(args))
	for index := range placeholders {
		placeholders[index] = "_"
	}
	return typeName[:open] + "<" + strings.Join(placeholders, ",") + ">" + typeName[closeIdx+1:]
}
