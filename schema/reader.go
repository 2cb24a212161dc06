package schema

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/achilleasa/wavefront/asset"
	"github.com/achilleasa/wavefront/log"
)

// Max include nesting before a schema is assumed to include itself.
const maxIncludeDepth = 16

type schemaReader struct {
	logger log.Logger

	// The document being built.
	doc *Document

	// The currently open declaration and its field names.
	cur       *WorkItemType
	curFields map[string]struct{}

	// Work item base names seen so far.
	declared map[string]*WorkItemType

	// Flat type shapes seen so far.
	flatShapes map[string]struct{}

	// Include chain; the first entry is the innermost include.
	errStack []string
}

// Load schema from a local file, an http(s) URL or an embedded:// resource.
func Load(pathToSchema string) (*Document, error) {
	res, err := asset.NewResource(pathToSchema, nil)
	if err != nil {
		return nil, &SchemaError{File: pathToSchema, Msg: err.Error()}
	}
	defer res.Close()

	return newSchemaReader().read(res)
}

// Parse schema from a stream. Relative includes are resolved against name.
func Parse(name string, source io.Reader) (*Document, error) {
	return newSchemaReader().read(asset.NewResourceFromStream(name, source))
}

func newSchemaReader() *schemaReader {
	return &schemaReader{
		logger:     log.New("schema reader"),
		doc:        &Document{},
		declared:   make(map[string]*WorkItemType),
		flatShapes: make(map[string]struct{}),
	}
}

func (r *schemaReader) read(res *asset.Resource) (*Document, error) {
	start := time.Now()
	r.doc.Source = res.Path()

	err := r.parse(res)
	if err != nil {
		return nil, err
	}

	r.logger.Infof(
		"parsed schema %q in %d ms: %d flat types, %d work items (%d active)",
		res.Path(), time.Since(start).Nanoseconds()/1e6, len(r.doc.Flat), len(r.doc.WorkItems), len(r.doc.Active()),
	)
	return r.doc, nil
}

// Generate a schema error annotated with the current include stack.
func (r *schemaReader) emitError(file string, line int, typeName, field, msgFormat string, args ...interface{}) error {
	stack := make([]string, len(r.errStack))
	copy(stack, r.errStack)
	return &SchemaError{
		File:  file,
		Line:  line,
		Type:  typeName,
		Field: field,
		Msg:   fmt.Sprintf(msgFormat, args...),
		Stack: stack,
	}
}

// Push a frame to the error stack.
func (r *schemaReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *schemaReader) popFrame() {
	r.errStack = r.errStack[1:]
}

func (r *schemaReader) parse(res *asset.Resource) error {
	var lineNum int

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if commentIndex := strings.IndexByte(line, '#'); commentIndex != -1 {
			line = line[:commentIndex]
		}
		lineTokens := strings.Fields(line)
		if len(lineTokens) == 0 {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "header":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, "", "", `unsupported syntax for "header"; expected 1 argument; got 0`)
			}
			r.doc.Headers = append(r.doc.Headers, strings.Join(lineTokens[1:], " "))
		case "flat":
			err = r.parseFlat(res, lineNum, lineTokens)
		case "include":
			err = r.parseInclude(res, lineNum, lineTokens)
		case "soa":
			err = r.openDeclaration(res, lineNum, lineTokens[1:], true)
		case "inactive":
			if len(lineTokens) < 2 || lineTokens[1] != "soa" {
				return r.emitError(res.Path(), lineNum, "", "", `unsupported syntax for "inactive"; expected "inactive soa <name>"`)
			}
			err = r.openDeclaration(res, lineNum, lineTokens[2:], false)
		case "field":
			err = r.parseField(res, lineNum, lineTokens)
		case "end":
			err = r.closeDeclaration(res, lineNum)
		default:
			return r.emitError(res.Path(), lineNum, "", "", "unknown directive %q", lineTokens[0])
		}

		if err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "", "", "read error: %s", err.Error())
	}

	if r.cur != nil {
		return r.emitError(r.cur.File, r.cur.Line, r.cur.Name, "", `declaration is missing its "end" directive`)
	}

	return nil
}

func (r *schemaReader) parseFlat(res *asset.Resource, lineNum int, lineTokens []string) error {
	if len(lineTokens) < 2 {
		return r.emitError(res.Path(), lineNum, "", "", `unsupported syntax for "flat"; expected a type name`)
	}
	if r.cur != nil {
		return r.emitError(res.Path(), lineNum, r.cur.Name, "", `"flat" is not allowed inside a declaration`)
	}

	name := NormalizeType(strings.Join(lineTokens[1:], " "))
	shape := TypeShape(name)
	if _, exists := r.flatShapes[shape]; exists {
		return r.emitError(res.Path(), lineNum, "", "", "duplicate flat type %q", name)
	}
	r.flatShapes[shape] = struct{}{}

	_, args := SplitTemplate(name)
	flat := FlatType{Name: name}
	for _, arg := range args {
		if isTemplateParam(arg) {
			flat.Params = append(flat.Params, arg)
		}
	}
	r.doc.Flat = append(r.doc.Flat, flat)
	return nil
}

func (r *schemaReader) parseInclude(res *asset.Resource, lineNum int, lineTokens []string) error {
	if len(lineTokens) != 2 {
		return r.emitError(res.Path(), lineNum, "", "", `unsupported syntax for "include"; expected 1 argument; got %d`, len(lineTokens)-1)
	}
	if r.cur != nil {
		return r.emitError(res.Path(), lineNum, r.cur.Name, "", `"include" is not allowed inside a declaration`)
	}
	if len(r.errStack) >= maxIncludeDepth {
		return r.emitError(res.Path(), lineNum, "", "", "include depth exceeds %d; recursive include?", maxIncludeDepth)
	}

	incRes, err := asset.NewResource(lineTokens[1], res)
	if err != nil {
		return r.emitError(res.Path(), lineNum, "", "", "%s", err.Error())
	}
	defer incRes.Close()

	r.pushFrame(fmt.Sprintf("included from %s:%d", res.Path(), lineNum))
	err = r.parse(incRes)
	if err != nil {
		return err
	}
	r.popFrame()
	return nil
}

// Parse "<name> [template <P>]" and open a new declaration.
func (r *schemaReader) openDeclaration(res *asset.Resource, lineNum int, args []string, active bool) error {
	if r.cur != nil {
		return r.emitError(res.Path(), lineNum, r.cur.Name, "", "nested declarations are not supported; missing \"end\"?")
	}

	var marker string
	for index, tok := range args {
		if tok == "template" {
			marker = strings.Join(args[index+1:], "")
			args = args[:index]
			break
		}
	}
	header := NormalizeType(strings.Join(args, " "))
	if header == "" {
		return r.emitError(res.Path(), lineNum, "", "", `unsupported syntax for "soa"; expected a type name`)
	}

	baseName, params := SplitTemplate(header)
	if !isIdentifier(baseName) {
		return r.emitError(res.Path(), lineNum, header, "", "invalid work item name %q", baseName)
	}

	switch {
	case len(params) > 1:
		return r.emitError(res.Path(), lineNum, header, "", "only a single context parameter is supported; got %d", len(params))
	case len(params) == 1 && !isTemplateParam(params[0]):
		return r.emitError(res.Path(), lineNum, header, "", "invalid context parameter %q", params[0])
	case marker != "" && len(params) == 0:
		return r.emitError(res.Path(), lineNum, header, "", "template marker %q is not bound in the type name", marker)
	case marker != "" && marker != params[0]:
		return r.emitError(res.Path(), lineNum, header, "", "template marker %q does not match type parameter %q", marker, params[0])
	}

	if prev, exists := r.declared[baseName]; exists {
		return r.emitError(res.Path(), lineNum, header, "", "duplicate work item type; first declared at %s:%d", prev.File, prev.Line)
	}

	r.cur = &WorkItemType{
		Name:     header,
		BaseName: baseName,
		Active:   active,
		File:     res.Path(),
		Line:     lineNum,
	}
	if len(params) == 1 {
		r.cur.Template = params[0]
	}
	r.curFields = make(map[string]struct{})
	return nil
}

func (r *schemaReader) parseField(res *asset.Resource, lineNum int, lineTokens []string) error {
	if r.cur == nil {
		return r.emitError(res.Path(), lineNum, "", "", `"field" outside of a declaration`)
	}
	if len(lineTokens) < 3 {
		return r.emitError(res.Path(), lineNum, r.cur.Name, "", `unsupported syntax for "field"; expected "field <name> <type>"`)
	}

	field := &Field{
		Name: lineTokens[1],
		Type: NormalizeType(strings.Join(lineTokens[2:], " ")),
		Line: lineNum,
	}
	if !isIdentifier(field.Name) {
		return r.emitError(res.Path(), lineNum, r.cur.Name, field.Name, "invalid field name")
	}
	if _, exists := r.curFields[field.Name]; exists {
		return r.emitError(res.Path(), lineNum, r.cur.Name, field.Name, "duplicate field name")
	}

	// Template parameters used by the field must be bound by the declaration.
	_, args := SplitTemplate(field.Type)
	for _, arg := range args {
		if isTemplateParam(arg) && arg != r.cur.Template {
			return r.emitError(res.Path(), lineNum, r.cur.Name, field.Name, "type %q uses unbound template parameter %q", field.Type, arg)
		}
	}

	field.Resolved = r.resolve(field.Type)
	if field.Resolved == RefNone {
		if r.cur.Active {
			return r.emitError(res.Path(), lineNum, r.cur.Name, field.Name, "unknown type %q; not a flat type or a previously declared work item", field.Type)
		}
		r.logger.Infof("%s.%s: leaving type %q unresolved for inactive declaration", r.cur.Name, field.Name, field.Type)
	}

	r.curFields[field.Name] = struct{}{}
	r.cur.Fields = append(r.cur.Fields, field)
	return nil
}

func (r *schemaReader) closeDeclaration(res *asset.Resource, lineNum int) error {
	if r.cur == nil {
		return r.emitError(res.Path(), lineNum, "", "", `"end" outside of a declaration`)
	}
	if len(r.cur.Fields) == 0 && r.cur.Active {
		return r.emitError(r.cur.File, r.cur.Line, r.cur.Name, "", "declaration has no fields")
	}

	r.declared[r.cur.BaseName] = r.cur
	r.doc.WorkItems = append(r.doc.WorkItems, r.cur)
	r.cur, r.curFields = nil, nil
	return nil
}

// Resolve a field type against the flat vocabulary and the work items
// declared so far.
func (r *schemaReader) resolve(typeName string) RefKind {
	if r.doc.IsFlat(typeName) {
		return RefFlat
	}

	shape := TypeShape(typeName)
	for _, wt := range r.doc.WorkItems {
		if TypeShape(wt.Name) == shape {
			return RefWorkItem
		}
	}
	return RefNone
}

// Template parameters are single upper-case letters (C, T, ...).
func isTemplateParam(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for index, r := range s {
		if r == '_' || unicode.IsLetter(r) || (index > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
