package schema

import (
	"fmt"
	"strings"
)

// SchemaError reports malformed or unresolvable schema input. It carries
// enough context to point at the offending declaration.
type SchemaError struct {
	// Source file and 1-based line number (0 if not known).
	File string
	Line int

	// Offending work item type and field (may be empty).
	Type  string
	Field string

	Msg string

	// Include chain that led to the offending file.
	Stack []string
}

func (e *SchemaError) Error() string {
	var buf strings.Builder
	buf.WriteString("schema: ")
	if e.File != "" {
		fmt.Fprintf(&buf, "[%s: %d] ", e.File, e.Line)
	}
	switch {
	case e.Type != "" && e.Field != "":
		fmt.Fprintf(&buf, "%s.%s: ", e.Type, e.Field)
	case e.Type != "":
		fmt.Fprintf(&buf, "%s: ", e.Type)
	}
	buf.WriteString(e.Msg)
	for _, frame := range e.Stack {
		buf.WriteString("\n  ")
		buf.WriteString(frame)
	}
	return buf.String()
}
