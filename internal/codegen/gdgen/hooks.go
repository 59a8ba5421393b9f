package gdgen

import (
	"fmt"
	"strings"

	"bproto/internal/codegen"
	"bproto/internal/ir"
)

type hooks struct {
	schema   *ir.Schema
	w        *codegen.CodeWriter
	preloads map[string]bool // preload consts already emitted in this file

	started bool     // file header written
	current string   // package being traversed
	pending []string // namespace classes not yet opened
	depth   int      // class levels opened for the current package
}

func (h *hooks) BeginPackage(pkg *ir.Package) {
	h.current = pkg.Path
	if !h.started {
		h.started = true
		h.w.Comment(header)
		if top := topNamespace(pkg.Path); top != "" {
			h.w.Line("class_name %s", codegen.PascalCase(top))
		} else {
			h.w.Line("class_name Schema")
		}
	}
	h.pending = subSegments(pkg.Path)
}

// openNamespace opens the package's namespace classes once the first
// declaration arrives. Delaying this keeps preload constants at script
// scope, where every inner class can see them.
func (h *hooks) openNamespace() {
	for _, seg := range h.pending {
		h.w.Blank()
		h.w.Line("class %s:", codegen.PascalCase(seg))
		h.w.In()
		h.depth++
	}
	h.pending = nil
}

func (h *hooks) EndPackage(*ir.Package) {
	h.pending = nil
	for ; h.depth > 0; h.depth-- {
		h.w.Out()
	}
}

// Include emits a script-scope preload constant for dependencies living
// in another output file. Same-file dependencies resolve through the
// class tree.
func (h *hooks) Include(dep *ir.Package) {
	top := topNamespace(dep.Path)
	if top == topNamespace(h.current) {
		return
	}
	if h.preloads[top] {
		return
	}
	h.preloads[top] = true
	h.w.Line("const %s = preload(\"%s.gd\")", codegen.PascalCase(topOrSchema(top)), fileStem(dep.Path))
}

func (h *hooks) BeginEnum(e *ir.Enum) {
	h.openNamespace()
	h.w.Blank()
	h.w.Comment(e.Doc...)
	if unitOnly(e) {
		h.w.Line("enum %s {", e.Desc.Name())
		h.w.In()
		return
	}
	// Variants with payloads do not fit a GDScript enum; emit a class
	// holding the tag constants plus a tagged value pair.
	h.w.Line("class %s:", e.Desc.Name())
	h.w.In()
}

func (h *hooks) Variant(v *ir.Variant) {
	h.w.Comment(v.Doc...)
	if v.Payload == nil {
		h.w.Line("%s = %d,", codegen.ScreamingCase(v.Name), v.Tag)
	} else {
		h.w.Line("const %s = %d  # payload: %s", codegen.ScreamingCase(v.Name), v.Tag, h.gdType(v.Payload))
	}
}

func (h *hooks) EndEnum(e *ir.Enum) {
	if unitOnly(e) {
		h.w.Out()
		h.w.Line("}")
		return
	}
	h.w.Blank()
	h.w.Line("var tag: int = 0")
	h.w.Line("var value = null")
	h.w.Out()
}

func (h *hooks) BeginMessage(m *ir.Message) {
	h.openNamespace()
	h.w.Blank()
	h.w.Comment(m.Doc...)
	h.w.Line("class %s:", m.Desc.Name())
	h.w.In()
}

func (h *hooks) BeginMessageBody(m *ir.Message) {
	if len(m.Fields) == 0 && len(m.Nested) == 0 {
		h.w.Line("pass")
	}
}

func (h *hooks) Field(f *ir.Field) {
	h.w.Comment(f.Doc...)
	h.w.Line("var %s: %s = %s  # tag %d", codegen.SnakeCase(f.Name), h.gdType(f.Type), h.defaultExpr(f.Type), f.Tag)
}

func (h *hooks) EndMessage(*ir.Message) {
	h.w.Out()
}

// gdType renders the GDScript type annotation for a schema type.
func (h *hooks) gdType(t *ir.Type) string {
	switch t.Kind {
	case ir.KindNative:
		return nativeGD[t.Native]
	case ir.KindMessage:
		return h.refPath(*t.Ref)
	case ir.KindEnum:
		if decl, ok := h.schema.LookupType(t.Ref.FullName()); ok {
			if e, isEnum := decl.(*ir.Enum); isEnum && !unitOnly(e) {
				return h.refPath(*t.Ref)
			}
		}
		// Unit enums are plain int constants.
		return "int"
	case ir.KindArray:
		if elem := h.gdType(t.Elem); isPrimitiveAnnotation(elem) {
			return "Array[" + elem + "]"
		}
		return "Array"
	case ir.KindMap:
		return "Dictionary"
	default:
		return "Variant"
	}
}

// defaultExpr renders the initializer for a field type.
func (h *hooks) defaultExpr(t *ir.Type) string {
	switch t.Kind {
	case ir.KindNative:
		switch {
		case t.Native.IsFloat():
			return "0.0"
		case t.Native == ir.NativeBool || t.Native == ir.NativeBit:
			return "false"
		case t.Native == ir.NativeString:
			return "\"\""
		case t.Native == ir.NativeBytes:
			return "PackedByteArray()"
		default:
			return "0"
		}
	case ir.KindMessage:
		return h.refPath(*t.Ref) + ".new()"
	case ir.KindEnum:
		if decl, ok := h.schema.LookupType(t.Ref.FullName()); ok {
			if e, isEnum := decl.(*ir.Enum); isEnum {
				if !unitOnly(e) {
					return h.refPath(*t.Ref) + ".new()"
				}
				if len(e.Variants) > 0 {
					return fmt.Sprintf("%s.%s", h.refPath(*t.Ref), codegen.ScreamingCase(e.Variants[0].Name))
				}
			}
		}
		return "0"
	case ir.KindArray:
		return "[]"
	case ir.KindMap:
		return "{}"
	default:
		return "null"
	}
}

// refPath renders how a declaration is reached from the current
// package: by local class path inside the same package, through the
// namespace classes inside the same file, or through a preload constant
// for other files.
func (h *hooks) refPath(d ir.Descriptor) string {
	local := strings.Join(d.Path, ".")
	if d.Package == h.current {
		return local
	}

	var parts []string
	if topNamespace(d.Package) != topNamespace(h.current) {
		parts = append(parts, codegen.PascalCase(topOrSchema(topNamespace(d.Package))))
	}
	for _, seg := range subSegments(d.Package) {
		parts = append(parts, codegen.PascalCase(seg))
	}
	parts = append(parts, local)
	return strings.Join(parts, ".")
}

var nativeGD = map[ir.NativeType]string{
	ir.NativeU8:     "int",
	ir.NativeU16:    "int",
	ir.NativeU32:    "int",
	ir.NativeU64:    "int",
	ir.NativeI8:     "int",
	ir.NativeI16:    "int",
	ir.NativeI32:    "int",
	ir.NativeI64:    "int",
	ir.NativeF32:    "float",
	ir.NativeF64:    "float",
	ir.NativeBool:   "bool",
	ir.NativeBit:    "bool",
	ir.NativeByte:   "int",
	ir.NativeString: "String",
	ir.NativeBytes:  "PackedByteArray",
}

// isPrimitiveAnnotation reports whether a type name can parameterize a
// typed Array annotation without referencing a user class.
func isPrimitiveAnnotation(name string) bool {
	switch name {
	case "int", "float", "bool", "String", "PackedByteArray":
		return true
	default:
		return false
	}
}

func topOrSchema(top string) string {
	if top == "" {
		return "schema"
	}
	return top
}

func unitOnly(e *ir.Enum) bool {
	for _, v := range e.Variants {
		if v.Payload != nil {
			return false
		}
	}
	return true
}
