package soa

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"sort"
)

// Options for the Go and WGSL emitters.
type EmitOptions struct {
	// Package name for generated Go code. Defaults to "workitem".
	Package string

	// Schema source and headers recorded in the generated file header.
	Source  string
	Headers []string

	// WGSL bind group for device storage.
	Group int
}

func (opts EmitOptions) pkg() string {
	if opts.Package == "" {
		return "workitem"
	}
	return opts.Package
}

type goWriter struct {
	buf bytes.Buffer
}

func (w *goWriter) p(format string, args ...interface{}) {
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

// Emit gofmt'ed Go source with a record type, an SOA storage type, a view
// type and a queue constructor for each layout.
func EmitGo(w io.Writer, layouts []*Layout, opts EmitOptions) error {
	if err := checkTypeNames(layouts); err != nil {
		return err
	}

	var gw goWriter
	gw.p("// Code generated by wavefront generate from %s. DO NOT EDIT.", opts.Source)
	if len(opts.Headers) != 0 {
		gw.p("//")
		gw.p("// Schema headers:")
		for _, header := range opts.Headers {
			gw.p("//\t%s", header)
		}
	}
	gw.p("")
	gw.p("package %s", opts.pkg())
	gw.p("")
	gw.p("import (")
	for _, imp := range goImports(layouts) {
		gw.p("%q", imp)
	}
	gw.p(")")

	for _, l := range layouts {
		emitRecord(&gw, l)
		emitStorage(&gw, l)
		emitView(&gw, l)
		emitQueue(&gw, l)
	}

	src, err := format.Source(gw.buf.Bytes())
	if err != nil {
		return fmt.Errorf("soa: generated code does not parse: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func goImports(layouts []*Layout) []string {
	set := map[string]struct{}{
		ModulePath + "/backend": {},
		ModulePath + "/queue":   {},
		ModulePath + "/soa":     {},
	}
	for _, l := range layouts {
		for _, f := range l.Fields {
			if f.Mapping == nil {
				continue
			}
			for _, imp := range f.Mapping.Imports {
				set[imp] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for imp := range set {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

func checkTypeNames(layouts []*Layout) error {
	owners := make(map[string]string)
	for _, l := range layouts {
		for _, name := range []string{l.GoName, l.GoName + "SOA", l.GoName + "View", "New" + l.GoName + "SOA", "New" + l.GoName + "Queue"} {
			if other, exists := owners[name]; exists {
				return fmt.Errorf("soa: generated identifier %q for %s collides with %s", name, l.Name, other)
			}
			owners[name] = l.Name
		}
	}
	return nil
}

func typeParam(l *Layout) string {
	if l.Template == "" {
		return "C"
	}
	return l.Template
}

// Get the record field type.
func recordType(f *FieldLayout) string {
	if f.Nested != nil {
		return f.Nested.GoName
	}
	return f.Mapping.GoType
}

// Get the storage column type.
func columnType(f *FieldLayout, param string) string {
	switch {
	case f.Nested != nil:
		return fmt.Sprintf("*%sSOA[%s]", f.Nested.GoName, param)
	case f.Mapping.Split():
		return f.Mapping.Column
	default:
		return "[]" + f.Mapping.GoType
	}
}

func allocExpr(f *FieldLayout) string {
	switch {
	case f.Nested != nil:
		return fmt.Sprintf("New%sSOA(ctx, n)", f.Nested.GoName)
	case f.Mapping.Split():
		return fmt.Sprintf("%s(ctx, n)", f.Mapping.Alloc)
	default:
		return fmt.Sprintf("soa.Alloc[%s](ctx, n)", f.Mapping.GoType)
	}
}

func freeStmt(f *FieldLayout) string {
	switch {
	case f.Nested != nil:
		return fmt.Sprintf("s.%s.Free()", f.GoName)
	case f.Mapping.Split():
		return fmt.Sprintf("s.%s.Free(s.ctx)", f.GoName)
	default:
		return fmt.Sprintf("soa.Free(s.ctx, s.%s)", f.GoName)
	}
}

func getExpr(f *FieldLayout, recv, index string) string {
	if f.Nested != nil || f.Mapping.Split() {
		return fmt.Sprintf("%s.%s.Get(%s)", recv, f.GoName, index)
	}
	return fmt.Sprintf("%s.%s[%s]", recv, f.GoName, index)
}

func setStmt(f *FieldLayout, recv, index, val string) string {
	if f.Nested != nil || f.Mapping.Split() {
		return fmt.Sprintf("%s.%s.Set(%s, %s)", recv, f.GoName, index, val)
	}
	return fmt.Sprintf("%s.%s[%s] = %s", recv, f.GoName, index, val)
}

func emitRecord(gw *goWriter, l *Layout) {
	gw.p("")
	gw.p("// %s holds the fields of a single %s work item.", l.GoName, l.Name)
	gw.p("type %s struct {", l.GoName)
	for _, f := range l.Fields {
		gw.p("%s %s // %s", f.GoName, recordType(f), f.Type)
	}
	gw.p("}")
}

func emitStorage(gw *goWriter, l *Layout) {
	param := typeParam(l)
	soaType := l.GoName + "SOA"

	gw.p("")
	gw.p("// %s stores %s work items with one column per field.", soaType, l.Name)
	gw.p("type %s[%s backend.Context] struct {", soaType, param)
	gw.p("ctx %s", param)
	gw.p("n int")
	gw.p("")
	for _, f := range l.Fields {
		gw.p("%s %s", f.GoName, columnType(f, param))
	}
	gw.p("}")

	gw.p("")
	gw.p("// New%s allocates %s storage for n slots.", soaType, l.GoName)
	gw.p("func New%s[%s backend.Context](ctx %s, n int) (*%s[%s], error) {", soaType, param, param, soaType, param)
	gw.p("s := &%s[%s]{ctx: ctx, n: n}", soaType, param)
	if len(l.Fields) != 0 {
		gw.p("var err error")
	}
	for _, f := range l.Fields {
		gw.p("if s.%s, err = %s; err != nil {", f.GoName, allocExpr(f))
		gw.p("s.Free()")
		gw.p("return nil, err")
		gw.p("}")
	}
	gw.p("return s, nil")
	gw.p("}")

	gw.p("")
	gw.p("// Free releases every column back to the context.")
	gw.p("func (s *%s[%s]) Free() {", soaType, param)
	gw.p("if s == nil {")
	gw.p("return")
	gw.p("}")
	for _, f := range l.Fields {
		gw.p("%s", freeStmt(f))
	}
	gw.p("*s = %s[%s]{ctx: s.ctx}", soaType, param)
	gw.p("}")

	gw.p("")
	gw.p("// Len returns the number of slots.")
	gw.p("func (s *%s[%s]) Len() int {", soaType, param)
	gw.p("return s.n")
	gw.p("}")

	gw.p("")
	gw.p("// Get assembles the work item stored at slot i.")
	gw.p("func (s *%s[%s]) Get(i int) %s {", soaType, param, l.GoName)
	gw.p("return %s{", l.GoName)
	for _, f := range l.Fields {
		gw.p("%s: %s,", f.GoName, getExpr(f, "s", "i"))
	}
	gw.p("}")
	gw.p("}")

	gw.p("")
	gw.p("// Set scatters rec into the columns at slot i.")
	gw.p("func (s *%s[%s]) Set(i int, rec %s) {", soaType, param, l.GoName)
	for _, f := range l.Fields {
		gw.p("%s", setStmt(f, "s", "i", "rec."+f.GoName))
	}
	gw.p("}")

	gw.p("")
	gw.p("// View returns a view of slot i.")
	gw.p("func (s *%s[%s]) View(i int) %sView[%s] {", soaType, param, l.GoName, param)
	gw.p("return %sView[%s]{store: s, Slot: i}", l.GoName, param)
	gw.p("}")
}

func emitView(gw *goWriter, l *Layout) {
	param := typeParam(l)
	viewType := l.GoName + "View"

	gw.p("")
	gw.p("// %s accesses the %s work item stored at Slot.", viewType, l.Name)
	gw.p("type %s[%s backend.Context] struct {", viewType, param)
	gw.p("store *%sSOA[%s]", l.GoName, param)
	gw.p("Slot int")
	gw.p("}")

	gw.p("")
	gw.p("func (v %s[%s]) Get() %s {", viewType, param, l.GoName)
	gw.p("return v.store.Get(v.Slot)")
	gw.p("}")
	gw.p("")
	gw.p("func (v %s[%s]) Set(rec %s) {", viewType, param, l.GoName)
	gw.p("v.store.Set(v.Slot, rec)")
	gw.p("}")

	for _, f := range l.Fields {
		gw.p("")
		gw.p("func (v %s[%s]) %s() %s {", viewType, param, f.GoName, recordType(f))
		gw.p("return %s", getExpr(f, "v.store", "v.Slot"))
		gw.p("}")
		gw.p("")
		gw.p("func (v %s[%s]) Set%s(val %s) {", viewType, param, f.GoName, recordType(f))
		gw.p("%s", setStmt(f, "v.store", "v.Slot", "val"))
		gw.p("}")
	}
}

func emitQueue(gw *goWriter, l *Layout) {
	param := typeParam(l)
	storage := fmt.Sprintf("*%sSOA[%s]", l.GoName, param)
	queueType := fmt.Sprintf("queue.WorkQueue[%s, %s, %sView[%s]]", storage, l.GoName, l.GoName, param)

	gw.p("")
	gw.p("// New%sQueue creates a work queue backed by %s storage.", l.GoName, l.GoName)
	gw.p("func New%sQueue[%s backend.Context](ctx %s, name string) *%s {", l.GoName, param, param, queueType)
	gw.p("return queue.New[%s, %s, %sView[%s]](name, ctx, func(n int) (%s, error) {", storage, l.GoName, l.GoName, param, storage)
	gw.p("return New%sSOA(ctx, n)", l.GoName)
	gw.p("})")
	gw.p("}")
}
