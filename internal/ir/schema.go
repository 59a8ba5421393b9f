package ir

import "bproto/internal/source"

// Import is a declared dependency on another package.
type Import struct {
	Span source.Span
	Path string
}

// Package is the lowered contents of one file. Package paths are
// globally unique, so file and package correspond one to one.
type Package struct {
	Path    string      // dot-separated, "" for the root package
	File    string      // display path of the source file
	Span    source.Span // the package declaration, or zero if implicit
	Imports []Import
	Decls   []TypeDecl

	// DependsOn is the computed dependency set: every distinct package
	// whose types this package's fields reference. Filled by the linker,
	// sorted lexicographically. Unlike Imports it reflects actual use.
	DependsOn []string
}

// Messages returns the top-level messages in declaration order.
func (p *Package) Messages() []*Message {
	var out []*Message
	for _, d := range p.Decls {
		if m, ok := d.(*Message); ok {
			out = append(out, m)
		}
	}
	return out
}

// Enums returns the top-level enums in declaration order.
func (p *Package) Enums() []*Enum {
	var out []*Enum
	for _, d := range p.Decls {
		if e, ok := d.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// Schema is the linked compilation result: every package, in the order
// their first file was lowered. That order is stable for a given input
// list, which keeps generated output deterministic.
type Schema struct {
	Packages []*Package

	byPath map[string]*Package
	byName map[string]TypeDecl
}

// NewSchema assembles a schema from packages, indexing packages by path
// and declarations, nested included, by full dotted name.
func NewSchema(packages []*Package) *Schema {
	s := &Schema{
		Packages: packages,
		byPath:   make(map[string]*Package, len(packages)),
		byName:   make(map[string]TypeDecl),
	}
	for _, p := range packages {
		s.byPath[p.Path] = p
		for _, d := range p.Decls {
			s.indexDecl(d)
		}
	}
	return s
}

func (s *Schema) indexDecl(d TypeDecl) {
	s.byName[d.Descriptor().FullName()] = d
	if m, ok := d.(*Message); ok {
		for _, nested := range m.Nested {
			s.indexDecl(nested)
		}
	}
}

// Package looks up a package by its dotted path.
func (s *Schema) Package(path string) (*Package, bool) {
	p, ok := s.byPath[path]
	return p, ok
}

// LookupType finds a declaration by its full dotted name.
func (s *Schema) LookupType(full string) (TypeDecl, bool) {
	d, ok := s.byName[full]
	return d, ok
}
