// Package ast defines the syntax tree produced by the parser. Every node
// carries the span of the source text it was parsed from so later phases
// can report diagnostics without re-scanning.
package ast

import (
	"strings"

	"bproto/internal/source"
)

// File is the parse result for a single schema source file. A file with
// parse errors still yields a File holding whatever declarations were
// recovered.
type File struct {
	Span    source.Span
	Package *PackageDecl // nil when the file has no package declaration
	Imports []*ImportDecl
	Decls   []Decl // messages and enums in source order
}

// Decl is a top-level or nested declaration: *MessageDecl or *EnumDecl.
type Decl interface {
	DeclSpan() source.Span
	DeclName() string
}

// DocComment is a contiguous run of line comments immediately preceding a
// declaration. Lines hold the comment text without the leading slashes.
type DocComment struct {
	Span  source.Span
	Lines []string
}

// Text joins the comment lines with newlines.
func (d *DocComment) Text() string {
	if d == nil {
		return ""
	}
	return strings.Join(d.Lines, "\n")
}

// PackageDecl is `package a.b.c;`. Segments holds the dot-separated parts.
type PackageDecl struct {
	Span     source.Span
	Segments []string
}

// Path returns the dot-joined package path.
func (p *PackageDecl) Path() string {
	return strings.Join(p.Segments, ".")
}

// ImportDecl is `import a.b.c;` naming another schema package.
type ImportDecl struct {
	Span     source.Span
	Segments []string
}

func (i *ImportDecl) Path() string {
	return strings.Join(i.Segments, ".")
}

// MessageDecl is a message with fields and nested type declarations.
type MessageDecl struct {
	Span     source.Span
	NameSpan source.Span
	Name     string
	Doc      *DocComment
	Fields   []*FieldDecl
	Nested   []Decl // nested messages and enums in source order
}

func (m *MessageDecl) DeclSpan() source.Span { return m.Span }
func (m *MessageDecl) DeclName() string      { return m.Name }

// EnumDecl is an enum with variants. Variants without a payload type are
// plain named constants; variants with one carry a value of that type.
type EnumDecl struct {
	Span     source.Span
	NameSpan source.Span
	Name     string
	Doc      *DocComment
	Variants []*VariantDecl
}

func (e *EnumDecl) DeclSpan() source.Span { return e.Span }
func (e *EnumDecl) DeclName() string      { return e.Name }

// FieldDecl is `type name = tag [encodings];`.
type FieldDecl struct {
	Span      source.Span
	NameSpan  source.Span
	TagSpan   source.Span
	Name      string
	Type      *TypeExpr
	Tag       uint32
	Doc       *DocComment
	Encodings []*EncodingAnnot
}

// VariantDecl is either `Name = tag;` (unit) or `type Name = tag;`
// (payload-carrying). Payload is nil for unit variants.
type VariantDecl struct {
	Span     source.Span
	NameSpan source.Span
	TagSpan  source.Span
	Name     string
	Payload  *TypeExpr
	Tag      uint32
	Doc      *DocComment
}

// TypeExprKind discriminates the shapes a type expression can take.
type TypeExprKind uint8

const (
	TypeNamed TypeExprKind = iota // scalar or user type reference
	TypeArray                     // []T or [N]T
	TypeMap                       // [K]V with a named key type
)

// TypeExpr is a parsed type. For TypeNamed, Segments holds the
// dot-separated reference (a single segment for unqualified names and
// scalars). For TypeArray, Elem is the element type and Size is the fixed
// length (0 means variable). For TypeMap, Key and Elem are the key and
// value types.
type TypeExpr struct {
	Span     source.Span
	Kind     TypeExprKind
	Segments []string
	Elem     *TypeExpr
	Key      *TypeExpr
	Size     uint32
}

// Name returns the dot-joined reference for TypeNamed expressions.
func (t *TypeExpr) Name() string {
	return strings.Join(t.Segments, ".")
}

// EncodingAnnot is one entry of a bracketed encoding list, e.g. bits(5)
// or zigzag. Args holds the integer arguments in order.
type EncodingAnnot struct {
	Span source.Span
	Name string
	Args []uint32
}
