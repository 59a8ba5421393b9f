// Package lower turns a parsed file into an ir.Package fragment. It
// resolves native type names, validates whatever can be judged from one
// file alone (duplicate names and tags, map keys, encoding widths), and
// leaves user-type references unresolved for the linker.
package lower

import (
	"fmt"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/ir"
	"bproto/internal/source"
)

type lowerer struct {
	rep diag.Reporter
}

// File lowers one parsed file into a package fragment. path is the
// file's display path, recorded for provenance. Lowering never fails:
// problems become diagnostics and the fragment stays usable.
func File(path string, f *ast.File, rep diag.Reporter) *ir.Package {
	lw := &lowerer{rep: rep}

	pkg := &ir.Package{File: path}
	if f.Package != nil {
		pkg.Path = f.Package.Path()
		pkg.Span = f.Package.Span
	}
	for _, imp := range f.Imports {
		pkg.Imports = append(pkg.Imports, ir.Import{Span: imp.Span, Path: imp.Path()})
	}
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.MessageDecl:
			pkg.Decls = append(pkg.Decls, lw.message(pkg.Path, nil, d))
		case *ast.EnumDecl:
			pkg.Decls = append(pkg.Decls, lw.enum(pkg.Path, nil, d))
		}
	}
	return pkg
}

func (lw *lowerer) error(code diag.Code, sp source.Span, msg string) {
	if lw.rep != nil {
		lw.rep.Report(diag.NewError(diag.PhaseLower, code, sp, msg))
	}
}

func (lw *lowerer) errorWithNote(code diag.Code, sp source.Span, msg string, noteSpan source.Span, note string) {
	if lw.rep != nil {
		lw.rep.Report(diag.NewError(diag.PhaseLower, code, sp, msg).WithNote(noteSpan, note))
	}
}

func (lw *lowerer) message(pkgPath string, enclosing []string, d *ast.MessageDecl) *ir.Message {
	path := make([]string, 0, len(enclosing)+1)
	path = append(path, enclosing...)
	path = append(path, d.Name)

	msg := &ir.Message{
		Desc:     ir.Descriptor{Package: pkgPath, Path: path},
		Span:     d.Span,
		NameSpan: d.NameSpan,
		Doc:      docLines(d.Doc),
	}

	fieldNames := map[string]source.Span{}
	fieldTags := map[uint32]source.Span{}
	for _, f := range d.Fields {
		if prev, dup := fieldNames[f.Name]; dup {
			lw.errorWithNote(diag.SemaDuplicateName, f.NameSpan,
				fmt.Sprintf("field %q is already declared in message %s", f.Name, msg.Desc.LocalName()),
				prev, "first declared here")
			continue
		}
		if prev, dup := fieldTags[f.Tag]; dup {
			lw.errorWithNote(diag.SemaDuplicateTag, f.TagSpan,
				fmt.Sprintf("tag %d is already used in message %s", f.Tag, msg.Desc.LocalName()),
				prev, "first used here")
			continue
		}
		fieldNames[f.Name] = f.NameSpan
		fieldTags[f.Tag] = f.TagSpan
		msg.Fields = append(msg.Fields, lw.field(f))
	}

	nestedNames := map[string]source.Span{}
	for _, n := range d.Nested {
		if prev, dup := nestedNames[n.DeclName()]; dup {
			lw.errorWithNote(diag.SemaDuplicateName, n.DeclSpan(),
				fmt.Sprintf("type %q is already declared in message %s", n.DeclName(), msg.Desc.LocalName()),
				prev, "first declared here")
			continue
		}
		nestedNames[n.DeclName()] = n.DeclSpan()
		switch n := n.(type) {
		case *ast.MessageDecl:
			msg.Nested = append(msg.Nested, lw.message(pkgPath, path, n))
		case *ast.EnumDecl:
			msg.Nested = append(msg.Nested, lw.enum(pkgPath, path, n))
		}
	}
	return msg
}

func (lw *lowerer) field(f *ast.FieldDecl) *ir.Field {
	typ := lw.typ(f.Type)
	out := &ir.Field{
		Span:     f.Span,
		NameSpan: f.NameSpan,
		TagSpan:  f.TagSpan,
		Name:     f.Name,
		Type:     typ,
		Tag:      f.Tag,
		Doc:      docLines(f.Doc),
	}
	for _, e := range f.Encodings {
		if enc, ok := lw.encoding(e, typ); ok {
			out.Encodings = append(out.Encodings, enc)
		}
	}
	return out
}

func (lw *lowerer) enum(pkgPath string, enclosing []string, d *ast.EnumDecl) *ir.Enum {
	path := make([]string, 0, len(enclosing)+1)
	path = append(path, enclosing...)
	path = append(path, d.Name)

	enum := &ir.Enum{
		Desc:     ir.Descriptor{Package: pkgPath, Path: path},
		Span:     d.Span,
		NameSpan: d.NameSpan,
		Doc:      docLines(d.Doc),
	}

	names := map[string]source.Span{}
	tags := map[uint32]source.Span{}
	for _, v := range d.Variants {
		if prev, dup := names[v.Name]; dup {
			lw.errorWithNote(diag.SemaDuplicateName, v.NameSpan,
				fmt.Sprintf("variant %q is already declared in enum %s", v.Name, enum.Desc.LocalName()),
				prev, "first declared here")
			continue
		}
		if prev, dup := tags[v.Tag]; dup {
			lw.errorWithNote(diag.SemaDuplicateTag, v.TagSpan,
				fmt.Sprintf("tag %d is already used in enum %s", v.Tag, enum.Desc.LocalName()),
				prev, "first used here")
			continue
		}
		names[v.Name] = v.NameSpan
		tags[v.Tag] = v.TagSpan

		variant := &ir.Variant{
			Span:     v.Span,
			NameSpan: v.NameSpan,
			TagSpan:  v.TagSpan,
			Name:     v.Name,
			Tag:      v.Tag,
			Doc:      docLines(v.Doc),
		}
		if v.Payload != nil {
			variant.Payload = lw.typ(v.Payload)
		}
		enum.Variants = append(enum.Variants, variant)
	}
	return enum
}

// typ lowers a type expression. Single-segment names resolve against
// the native table first; everything else becomes an unresolved
// reference for the linker.
func (lw *lowerer) typ(t *ast.TypeExpr) *ir.Type {
	switch t.Kind {
	case ast.TypeNamed:
		if len(t.Segments) == 1 {
			if n, ok := ir.LookupNative(t.Segments[0]); ok {
				return &ir.Type{Kind: ir.KindNative, Native: n}
			}
		}
		return &ir.Type{Kind: ir.KindRef, RefName: t.Name(), RefSpan: t.Span}
	case ast.TypeArray:
		return &ir.Type{Kind: ir.KindArray, Elem: lw.typ(t.Elem), Size: t.Size}
	case ast.TypeMap:
		key := lw.typ(t.Key)
		if key.Kind != ir.KindNative || !key.Native.IsValidMapKey() {
			lw.error(diag.SemaBadMapKey, t.Key.Span,
				fmt.Sprintf("map key must be an integer, bool, byte or string type, got %s", key))
		}
		return &ir.Type{Kind: ir.KindMap, Key: key, Elem: lw.typ(t.Elem)}
	default:
		return &ir.Type{Kind: ir.KindInvalid}
	}
}

func docLines(d *ast.DocComment) []string {
	if d == nil {
		return nil
	}
	return d.Lines
}
