package soa

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/naga"
)

// Emit the device rendition of the layouts: a queue header with an atomic
// size counter per layout, one runtime-sized storage array per scalar column,
// a bounded claim function per queue and a reset_queues entry point.
func EmitWGSL(w io.Writer, layouts []*Layout, opts EmitOptions) error {
	var buf bytes.Buffer
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(&buf, format, args...)
		buf.WriteByte('\n')
	}

	p("// Code generated by wavefront generate from %s. DO NOT EDIT.", opts.Source)
	p("")
	p("struct QueueHeader {")
	p("    size: atomic<u32>,")
	p("    capacity: u32,")
	p("}")

	var (
		binding  int
		declared = make(map[string]string)
	)
	for _, l := range layouts {
		prefix := snakeName(l.GoName)
		declared[prefix+"_queue"] = l.Name + " queue header"

		p("")
		p("// %s", l.Name)
		p("@group(%d) @binding(%d) var<storage, read_write> %s_queue: QueueHeader;", opts.Group, binding, prefix)
		binding++
		for _, col := range l.Columns() {
			name := deviceColumnName(prefix, col.Path)
			if other, exists := declared[name]; exists {
				return fmt.Errorf("soa: device column %q of %s collides with %s", name, l.Name, other)
			}
			declared[name] = l.Name + "." + col.Path
			p("@group(%d) @binding(%d) var<storage, read_write> %s: array<%s>;", opts.Group, binding, name, col.Scalar)
			binding++
		}

		p("")
		p("fn %s_claim() -> i32 {", prefix)
		p("    let capacity = %s_queue.capacity;", prefix)
		p("    var cur = atomicLoad(&%s_queue.size);", prefix)
		p("    var slot = -1;")
		p("    loop {")
		p("        if (cur >= capacity) {")
		p("            break;")
		p("        }")
		p("        let res = atomicCompareExchangeWeak(&%s_queue.size, cur, cur + 1u);", prefix)
		p("        if (res.exchanged) {")
		p("            slot = i32(cur);")
		p("            break;")
		p("        }")
		p("        cur = res.old_value;")
		p("    }")
		p("    return slot;")
		p("}")
	}

	p("")
	p("@compute @workgroup_size(1)")
	p("fn reset_queues() {")
	for _, l := range layouts {
		p("    atomicStore(&%s_queue.size, 0u);", snakeName(l.GoName))
	}
	p("}")

	_, err := w.Write(buf.Bytes())
	return err
}

// Compile WGSL source to SPIR-V.
func CompileWGSL(src string) ([]byte, error) {
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("soa: device layout does not compile: %w", err)
	}
	return spirv, nil
}

func deviceColumnName(prefix, path string) string {
	return prefix + "_" + strings.ReplaceAll(path, ".", "_")
}
