package rustgen

import (
	"fmt"
	"strings"

	"bproto/internal/codegen"
	"bproto/internal/ir"
)

type hooks struct {
	schema *ir.Schema
	w      *codegen.CodeWriter
}

func (h *hooks) BeginPackage(pkg *ir.Package) {
	h.w.Line(header)
	h.w.Blank()
	if packageUsesMaps(pkg) {
		h.w.Line("use std::collections::HashMap;")
		h.w.Blank()
	}
}

func (h *hooks) Include(dep *ir.Package) {
	h.w.Line("use crate::%s::*;", strings.Join(moduleSegments(dep.Path), "::"))
}

func (h *hooks) EndPackage(*ir.Package) {}

func (h *hooks) BeginEnum(e *ir.Enum) {
	h.w.Blank()
	h.w.Comment(e.Doc...)
	if unitOnly(e) {
		h.w.Line("#[derive(Clone, Copy, Debug, PartialEq, Eq)]")
		h.w.Line("#[repr(u32)]")
	} else {
		h.w.Line("#[derive(Clone, Debug, PartialEq)]")
	}
	h.w.Line("pub enum %s {", flatName(e.Desc))
	h.w.In()
}

func (h *hooks) Variant(v *ir.Variant) {
	h.w.Comment(v.Doc...)
	if v.Payload == nil {
		h.w.Line("%s = %d,", v.Name, v.Tag)
		return
	}
	h.w.Line("%s(%s), // tag %d", v.Name, h.rustType(v.Payload), v.Tag)
}

func (h *hooks) EndEnum(e *ir.Enum) {
	h.w.Out()
	h.w.Line("}")

	if len(e.Variants) == 0 {
		return
	}
	first := e.Variants[0]
	h.w.Blank()
	h.w.Line("impl Default for %s {", flatName(e.Desc))
	h.w.In()
	h.w.Line("fn default() -> Self {")
	h.w.In()
	if first.Payload == nil {
		h.w.Line("Self::%s", first.Name)
	} else {
		h.w.Line("Self::%s(%s)", first.Name, h.defaultExpr(first.Payload))
	}
	h.w.Out()
	h.w.Line("}")
	h.w.Out()
	h.w.Line("}")
}

func (h *hooks) BeginMessage(*ir.Message) {}

func (h *hooks) BeginMessageBody(m *ir.Message) {
	h.w.Blank()
	h.w.Comment(m.Doc...)
	h.w.Line("#[derive(Clone, Debug, PartialEq)]")
	h.w.Line("pub struct %s {", flatName(m.Desc))
	h.w.In()
}

func (h *hooks) Field(f *ir.Field) {
	h.w.Comment(f.Doc...)
	h.w.Line("pub %s: %s, // %s", codegen.SnakeCase(f.Name), h.rustType(f.Type), wireNote(f))
}

func (h *hooks) EndMessage(m *ir.Message) {
	h.w.Out()
	h.w.Line("}")

	h.w.Blank()
	h.w.Line("impl Default for %s {", flatName(m.Desc))
	h.w.In()
	h.w.Line("fn default() -> Self {")
	h.w.In()
	h.w.Line("Self {")
	h.w.In()
	for _, f := range m.Fields {
		h.w.Line("%s: %s,", codegen.SnakeCase(f.Name), h.defaultExpr(f.Type))
	}
	h.w.Out()
	h.w.Line("}")
	h.w.Out()
	h.w.Line("}")
	h.w.Out()
	h.w.Line("}")
}

// rustType renders the Rust type for a schema type.
func (h *hooks) rustType(t *ir.Type) string {
	switch t.Kind {
	case ir.KindNative:
		return nativeRust[t.Native]
	case ir.KindMessage, ir.KindEnum:
		return flatName(*t.Ref)
	case ir.KindArray:
		if t.Size > 0 {
			return fmt.Sprintf("[%s; %d]", h.rustType(t.Elem), t.Size)
		}
		return fmt.Sprintf("Vec<%s>", h.rustType(t.Elem))
	case ir.KindMap:
		return fmt.Sprintf("HashMap<%s, %s>", h.rustType(t.Key), h.rustType(t.Elem))
	default:
		return "()"
	}
}

// defaultExpr renders the default-value expression for a type.
func (h *hooks) defaultExpr(t *ir.Type) string {
	switch t.Kind {
	case ir.KindNative:
		switch {
		case t.Native.IsFloat():
			return "0.0"
		case t.Native == ir.NativeBool || t.Native == ir.NativeBit:
			return "false"
		case t.Native == ir.NativeString:
			return "String::new()"
		case t.Native == ir.NativeBytes:
			return "Vec::new()"
		default:
			return "0"
		}
	case ir.KindMessage, ir.KindEnum:
		return flatName(*t.Ref) + "::default()"
	case ir.KindArray:
		if t.Size > 0 {
			return fmt.Sprintf("std::array::from_fn(|_| %s)", h.defaultExpr(t.Elem))
		}
		return "Vec::new()"
	case ir.KindMap:
		return "HashMap::new()"
	default:
		return "Default::default()"
	}
}

var nativeRust = map[ir.NativeType]string{
	ir.NativeU8:     "u8",
	ir.NativeU16:    "u16",
	ir.NativeU32:    "u32",
	ir.NativeU64:    "u64",
	ir.NativeI8:     "i8",
	ir.NativeI16:    "i16",
	ir.NativeI32:    "i32",
	ir.NativeI64:    "i64",
	ir.NativeF32:    "f32",
	ir.NativeF64:    "f64",
	ir.NativeBool:   "bool",
	ir.NativeBit:    "bool",
	ir.NativeByte:   "u8",
	ir.NativeString: "String",
	ir.NativeBytes:  "Vec<u8>",
}

// flatName concatenates the nesting path into a single Rust item name:
// Outer.Inner becomes OuterInner.
func flatName(d ir.Descriptor) string {
	return codegen.PascalCase(d.Path...)
}

func unitOnly(e *ir.Enum) bool {
	for _, v := range e.Variants {
		if v.Payload != nil {
			return false
		}
	}
	return true
}

// wireNote summarizes the wire layout of a field for a trailing comment.
func wireNote(f *ir.Field) string {
	parts := []string{fmt.Sprintf("tag %d", f.Tag)}
	for _, enc := range f.Encodings {
		switch enc.Kind {
		case ir.EncodingBits, ir.EncodingBitsVariable, ir.EncodingPad:
			parts = append(parts, fmt.Sprintf("%s(%d)", enc.Kind, enc.A))
		case ir.EncodingFixedPoint:
			parts = append(parts, fmt.Sprintf("%s(%d, %d)", enc.Kind, enc.A, enc.B))
		default:
			parts = append(parts, enc.Kind.String())
		}
	}
	return strings.Join(parts, ", ")
}

// packageUsesMaps reports whether any field or payload in the package
// has a map type.
func packageUsesMaps(pkg *ir.Package) bool {
	found := false
	var scan func(d ir.TypeDecl)
	scan = func(d ir.TypeDecl) {
		switch d := d.(type) {
		case *ir.Message:
			for _, f := range d.Fields {
				f.Type.Walk(func(t *ir.Type) {
					if t.Kind == ir.KindMap {
						found = true
					}
				})
			}
			for _, nested := range d.Nested {
				scan(nested)
			}
		case *ir.Enum:
			for _, v := range d.Variants {
				if v.Payload != nil {
					v.Payload.Walk(func(t *ir.Type) {
						if t.Kind == ir.KindMap {
							found = true
						}
					})
				}
			}
		}
	}
	for _, d := range pkg.Decls {
		scan(d)
	}
	return found
}
