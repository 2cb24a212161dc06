package soa

import (
	"bytes"
	"encoding/binary"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/schema"
	"github.com/achilleasa/wavefront/types"
)

func defaultLayouts(t *testing.T) (*schema.Document, []*Layout) {
	t.Helper()
	doc, err := schema.Default()
	if err != nil {
		t.Fatal(err)
	}
	layouts, err := Generate(doc, DefaultTypeMap())
	if err != nil {
		t.Fatal(err)
	}
	return doc, layouts
}

func TestGenerateDefaultSchema(t *testing.T) {
	_, layouts := defaultLayouts(t)

	var names []string
	for _, l := range layouts {
		names = append(names, l.GoName)
	}
	if got := strings.Join(names, ","); got != "PathState,MaterialWorkItem,RayWorkItem" {
		t.Fatalf("expected active layouts in declaration order; got %s", got)
	}

	type spec struct {
		layout     int
		expColumns string
	}
	specs := []spec{
		{0, "sampler.state_lo,sampler.state_hi,sampler.inc_lo,sampler.inc_hi,L.r,L.g,L.b,beta.r,beta.g,beta.b,depth,terminated"},
		{1, "pixel,material,geom_id,prim_id,uv.x,uv.y,wo.x,wo.y,wo.z"},
		{2, "pixel,ray.origin_x,ray.origin_y,ray.origin_z,ray.dir_x,ray.dir_y,ray.dir_z,ray.tmin,ray.tmax"},
	}
	for index, s := range specs {
		var paths []string
		for _, col := range layouts[s.layout].Columns() {
			paths = append(paths, col.Path)
		}
		if got := strings.Join(paths, ","); got != s.expColumns {
			t.Errorf("[spec %d] expected columns:\n%s\ngot:\n%s", index, s.expColumns, got)
		}
	}

	if l := layouts[1]; l.Template != "C" || l.Field("geom_id").GoName != "GeomID" || l.Field("uv").GoName != "UV" {
		t.Fatalf("unexpected MaterialWorkItem layout: %+v", l)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	doc, first := defaultLayouts(t)

	var firstSrc bytes.Buffer
	if err := EmitGo(&firstSrc, first, EmitOptions{Source: doc.Source, Headers: doc.Headers}); err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 5; run++ {
		layouts, err := Generate(doc, DefaultTypeMap())
		if err != nil {
			t.Fatal(err)
		}
		var src bytes.Buffer
		if err = EmitGo(&src, layouts, EmitOptions{Source: doc.Source, Headers: doc.Headers}); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(src.Bytes(), firstSrc.Bytes()) {
			t.Fatalf("[run %d] expected byte-identical output", run)
		}
	}
}

func TestEveryFieldAppearsExactlyOnce(t *testing.T) {
	doc, layouts := defaultLayouts(t)

	var src bytes.Buffer
	if err := EmitGo(&src, layouts, EmitOptions{Source: doc.Source}); err != nil {
		t.Fatal(err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "workitem_gen.go", src.Bytes(), 0)
	if err != nil {
		t.Fatalf("generated code does not parse: %v", err)
	}

	methods := make(map[string]int)
	structFields := make(map[string]int)
	ast.Inspect(file, func(n ast.Node) bool {
		switch decl := n.(type) {
		case *ast.FuncDecl:
			if decl.Recv != nil {
				methods[receiverName(decl.Recv.List[0].Type)+"."+decl.Name.Name]++
			}
		case *ast.TypeSpec:
			if st, ok := decl.Type.(*ast.StructType); ok {
				for _, f := range st.Fields.List {
					for _, name := range f.Names {
						structFields[decl.Name.Name+"."+name.Name]++
					}
				}
			}
		}
		return true
	})

	for _, l := range layouts {
		for _, f := range l.Fields {
			for _, key := range []string{
				l.GoName + "." + f.GoName,
				l.GoName + "SOA." + f.GoName,
				l.GoName + "View." + f.GoName,
				l.GoName + "View.Set" + f.GoName,
			} {
				if count := structFields[key] + methods[key]; count != 1 {
					t.Errorf("expected %s to be generated exactly once; got %d", key, count)
				}
			}
		}

		seen := make(map[string]bool)
		for _, col := range l.Columns() {
			if seen[col.Path] {
				t.Errorf("%s: column %s is declared twice", l.Name, col.Path)
			}
			seen[col.Path] = true
		}
	}

	if !strings.HasPrefix(src.String(), "// Code generated by wavefront generate from embedded://workitem.schema. DO NOT EDIT.") {
		t.Fatalf("expected generated code header; got:\n%s", src.String()[:120])
	}
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	}
	return ""
}

func TestGenerateNestedLayout(t *testing.T) {
	src := `
flat int
flat Ray<C>
soa RayWorkItem<C> template C
field pixel int
field ray Ray<C>
end
soa Bounce<C> template C
field next RayWorkItem<C>
field depth int
end
`
	doc, err := schema.Parse("nested.schema", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	layouts, err := Generate(doc, DefaultTypeMap())
	if err != nil {
		t.Fatal(err)
	}

	bounce := layouts[1]
	if bounce.Field("next").Nested != layouts[0] {
		t.Fatal("expected next to embed the RayWorkItem layout")
	}
	cols := bounce.Columns()
	if len(cols) != 10 || cols[0].Path != "next.pixel" || cols[1].Path != "next.ray.origin_x" || cols[9].Path != "depth" {
		t.Fatalf("expected nested columns to be flattened; got %v", cols)
	}

	var out bytes.Buffer
	if err = EmitGo(&out, layouts, EmitOptions{Package: "nested"}); err != nil {
		t.Fatal(err)
	}
	for _, exp := range []string{"*RayWorkItemSOA[C]", "NewRayWorkItemSOA(ctx, n)", "s.Next.Get(i)", "s.Next.Free()"} {
		if !strings.Contains(out.String(), exp) {
			t.Errorf("expected generated code to contain %q", exp)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	type spec struct {
		src    string
		expErr string
	}
	specs := []spec{
		{
			"flat Widget\nsoa A\nfield w Widget\nend",
			`schema: [test.schema: 3] A.w: no storage mapping for flat type "Widget"`,
		},
		{
			"flat int\ninactive soa Miss<C> template C\nfield pixel int\nend\nsoa A<C> template C\nfield m Miss<C>\nend",
			`schema: [test.schema: 6] A<C>.m: references inactive work item "Miss<C>"`,
		},
		{
			"flat int\nsoa A\nfield x int\nfield set_x int\nend",
			`schema: [test.schema: 4] A.set_x: generated member "SetX" collides with field x`,
		},
		{
			"flat int\nsoa A\nfield slot int\nend",
			`schema: [test.schema: 3] A.slot: generated member "Slot" collides with a helper method`,
		},
	}

	for index, s := range specs {
		doc, err := schema.Parse("test.schema", strings.NewReader(s.src))
		if err != nil {
			t.Fatalf("[spec %d] unexpected load error: %v", index, err)
		}

		_, err = Generate(doc, DefaultTypeMap())
		var schemaErr *schema.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("[spec %d] expected a *schema.SchemaError; got %v", index, err)
		}
		if err.Error() != s.expErr {
			t.Errorf("[spec %d] expected error:\n%s\ngot:\n%s", index, s.expErr, err.Error())
		}
	}
}

func TestTypeMapMatchesStructurally(t *testing.T) {
	m := DefaultTypeMap()

	for _, typeName := range []string{"Sampler<C>", "Sampler<X>", "const Material<T>*", "Ray < C >"} {
		if _, ok := m.Lookup(typeName); !ok {
			t.Errorf("expected a mapping for %q", typeName)
		}
	}
	if _, ok := m.Lookup("Sampler"); ok {
		t.Error("expected no mapping for an unparametrized Sampler")
	}
	if len(m.Shapes()) != 10 {
		t.Fatalf("expected 10 default mappings; got %d", len(m.Shapes()))
	}
}

func TestNameConversion(t *testing.T) {
	type spec struct {
		in       string
		expGo    string
		expSnake string
	}
	specs := []spec{
		{"pixel", "Pixel", "pixel"},
		{"geom_id", "GeomID", "geom_id"},
		{"uv", "UV", "uv"},
		{"L", "L", "l"},
		{"MaterialWorkItem", "MaterialWorkItem", "material_work_item"},
		{"RayWorkItem", "RayWorkItem", "ray_work_item"},
	}

	for index, s := range specs {
		if got := exportName(s.in); got != s.expGo {
			t.Errorf("[spec %d] expected Go name %q; got %q", index, s.expGo, got)
		}
		if got := snakeName(exportName(s.in)); got != s.expSnake {
			t.Errorf("[spec %d] expected snake name %q; got %q", index, s.expSnake, got)
		}
	}
}

func TestColumnsDoNotAlias(t *testing.T) {
	ctx := backend.NewSerial(backend.SerialOptions{})

	vec, err := AllocVec3(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	spec, err := AllocSpectrum(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	uv, err := AllocVec2(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if exp := 4 * 4 * (3 + 3 + 2); ctx.InUse() != exp {
		t.Fatalf("expected %d bytes in use; got %d", exp, ctx.InUse())
	}

	for i := 0; i < 4; i++ {
		f := float32(i)
		vec.Set(i, types.XYZ(f, f+10, f+20))
		spec.Set(i, types.Spectrum{-f, -f - 10, -f - 20})
		uv.Set(i, types.XY(f*2, f*3))
	}
	for i := 0; i < 4; i++ {
		f := float32(i)
		if got := vec.Get(i); got != types.XYZ(f, f+10, f+20) {
			t.Fatalf("[slot %d] unexpected vector %v", i, got)
		}
		if got := spec.Get(i); got != (types.Spectrum{-f, -f - 10, -f - 20}) {
			t.Fatalf("[slot %d] unexpected spectrum %v", i, got)
		}
		if got := uv.Get(i); got != types.XY(f*2, f*3) {
			t.Fatalf("[slot %d] unexpected uv %v", i, got)
		}
	}

	vec.Free(ctx)
	spec.Free(ctx)
	uv.Free(ctx)
	if ctx.InUse() != 0 {
		t.Fatalf("expected all column storage to be released; got %d bytes in use", ctx.InUse())
	}
}

func TestColumnAllocOutOfMemory(t *testing.T) {
	ctx := backend.NewSerial(backend.SerialOptions{MemoryBudget: 40})

	_, err := AllocVec3(ctx, 4)
	if !errors.Is(err, backend.ErrOutOfMemory) {
		t.Fatalf("expected to get ErrOutOfMemory; got %v", err)
	}
	if ctx.InUse() != 0 {
		t.Fatalf("expected partial allocation to be released; got %d bytes in use", ctx.InUse())
	}
}

func TestEmitWGSLCompiles(t *testing.T) {
	doc, layouts := defaultLayouts(t)

	var src bytes.Buffer
	if err := EmitWGSL(&src, layouts, EmitOptions{Source: doc.Source}); err != nil {
		t.Fatal(err)
	}
	wgsl := src.String()
	for _, exp := range []string{
		"var<storage, read_write> material_work_item_queue: QueueHeader;",
		"var<storage, read_write> material_work_item_wo_x: array<f32>;",
		"var<storage, read_write> path_state_terminated: array<u32>;",
		"fn ray_work_item_claim() -> i32 {",
		"fn reset_queues() {",
	} {
		if !strings.Contains(wgsl, exp) {
			t.Fatalf("expected WGSL to contain %q; got:\n%s", exp, wgsl)
		}
	}

	spirv, err := CompileWGSL(wgsl)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "not yet implemented") || strings.Contains(errStr, "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		if strings.Contains(errStr, "lowering error") || strings.Contains(errStr, "atomic") {
			t.Skipf("Skipping: naga atomic/lowering limitation: %v", err)
		}
		t.Fatalf("failed to compile device layout: %v", err)
	}

	if len(spirv) < 4 {
		t.Fatal("SPIR-V too short")
	}
	if magic := binary.LittleEndian.Uint32(spirv[:4]); magic != 0x07230203 {
		t.Fatalf("expected SPIR-V magic 0x07230203; got 0x%08x", magic)
	}
}
