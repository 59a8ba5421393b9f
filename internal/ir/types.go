// Package ir is the resolved intermediate representation of a schema.
// Lowering produces one Package fragment per file; the linker merges
// fragments, resolves references, and assembles the Schema. After
// linking the IR is treated as immutable: generators only read it.
package ir

import (
	"strings"

	"bproto/internal/source"
)

// Descriptor identifies a named type: the package it lives in and the
// chain of enclosing type names ending with its own.
type Descriptor struct {
	Package string   // dot-separated package path, "" for the root package
	Path    []string // enclosing names then own name, never empty
}

// Name is the type's own (unqualified) name.
func (d Descriptor) Name() string {
	return d.Path[len(d.Path)-1]
}

// LocalName is the dot-joined path within the package (Outer.Inner).
func (d Descriptor) LocalName() string {
	return strings.Join(d.Path, ".")
}

// FullName is the fully-qualified dotted name including the package.
func (d Descriptor) FullName() string {
	if d.Package == "" {
		return d.LocalName()
	}
	return d.Package + "." + d.LocalName()
}

// TypeKind discriminates Type shapes.
type TypeKind uint8

const (
	KindInvalid TypeKind = iota
	KindNative
	KindMessage // resolved reference to a message
	KindEnum    // resolved reference to an enum
	KindArray
	KindMap
	KindRef // unresolved named reference, only before linking
)

// Type is a field or payload type. Before linking, user-type references
// have Kind KindRef with RefName set; the linker rewrites them to
// KindMessage or KindEnum with Ref pointing at the declaration.
type Type struct {
	Kind   TypeKind
	Native NativeType
	Ref    *Descriptor
	Elem   *Type  // array element or map value
	Key    *Type  // map key
	Size   uint32 // fixed array length, 0 for variable

	RefName string // dotted reference text, KindRef only
	RefSpan source.Span
}

// String renders the type in schema syntax.
func (t *Type) String() string {
	switch t.Kind {
	case KindNative:
		return t.Native.String()
	case KindMessage, KindEnum:
		return t.Ref.FullName()
	case KindArray:
		if t.Size > 0 {
			return "[" + utoa(t.Size) + "]" + t.Elem.String()
		}
		return "[]" + t.Elem.String()
	case KindMap:
		return "[" + t.Key.String() + "]" + t.Elem.String()
	case KindRef:
		return t.RefName
	default:
		return "<invalid>"
	}
}

// Walk visits t and every nested component type.
func (t *Type) Walk(fn func(*Type)) {
	if t == nil {
		return
	}
	fn(t)
	if t.Key != nil {
		t.Key.Walk(fn)
	}
	if t.Elem != nil {
		t.Elem.Walk(fn)
	}
}

func utoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// EncodingKind enumerates the wire encoding annotations.
type EncodingKind uint8

const (
	EncodingBits EncodingKind = iota
	EncodingBitsVariable
	EncodingZigzag
	EncodingDelta
	EncodingPad
	EncodingFixedPoint
)

var encodingNames = [...]string{
	EncodingBits:         "bits",
	EncodingBitsVariable: "bits_variable",
	EncodingZigzag:       "zigzag",
	EncodingDelta:        "delta",
	EncodingPad:          "pad",
	EncodingFixedPoint:   "fixed_point",
}

func (k EncodingKind) String() string {
	if int(k) < len(encodingNames) {
		return encodingNames[k]
	}
	return "<invalid>"
}

// Encoding is one wire encoding applied to a field. A holds the first
// argument (bit count for bits/bits_variable/pad, integer bits for
// fixed_point); B holds fixed_point's fractional bits.
type Encoding struct {
	Span source.Span
	Kind EncodingKind
	A    uint32
	B    uint32
}

// TypeDecl is a named declaration: *Message or *Enum.
type TypeDecl interface {
	Descriptor() Descriptor
	DeclSpan() source.Span
}

// Message is a resolved message declaration.
type Message struct {
	Desc     Descriptor
	Span     source.Span
	NameSpan source.Span
	Doc      []string
	Fields   []*Field
	Nested   []TypeDecl // nested messages and enums in source order
}

func (m *Message) Descriptor() Descriptor { return m.Desc }
func (m *Message) DeclSpan() source.Span  { return m.Span }

// Field is one message field.
type Field struct {
	Span      source.Span
	NameSpan  source.Span
	TagSpan   source.Span
	Name      string
	Type      *Type
	Tag       uint32
	Doc       []string
	Encodings []Encoding
}

// Enum is a resolved enum declaration.
type Enum struct {
	Desc     Descriptor
	Span     source.Span
	NameSpan source.Span
	Doc      []string
	Variants []*Variant
}

func (e *Enum) Descriptor() Descriptor { return e.Desc }
func (e *Enum) DeclSpan() source.Span  { return e.Span }

// Variant is one enum variant. Payload is nil for unit variants.
type Variant struct {
	Span     source.Span
	NameSpan source.Span
	TagSpan  source.Span
	Name     string
	Payload  *Type
	Tag      uint32
	Doc      []string
}
