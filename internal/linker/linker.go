// Package linker merges per-file package fragments into a Schema. It
// owns everything that needs more than one file: package path
// uniqueness, the import graph, and resolution of symbolic type
// references. A failed link still returns the schema so that tooling
// can inspect whatever was resolved; generation is gated elsewhere on
// the absence of errors.
package linker

import (
	"fmt"
	"sort"

	"bproto/internal/diag"
	"bproto/internal/ir"
	"bproto/internal/source"
)

type linker struct {
	rep      diag.Reporter
	packages []*ir.Package          // first-registration order
	byPath   map[string]*ir.Package // package path -> fragment
	types    map[string]ir.TypeDecl // full dotted name -> declaration
	owner    map[string]*ir.Package // full dotted name -> owning package

	// used[pkg] is the set of package paths pkg's types actually
	// reference, filled during resolution.
	used map[string]map[string]bool
}

// Link assembles fragments into one schema. Fragment order determines
// package order, which keeps output deterministic for a fixed input
// list.
func Link(fragments []*ir.Package, rep diag.Reporter) *ir.Schema {
	lk := &linker{
		rep:    rep,
		byPath: make(map[string]*ir.Package, len(fragments)),
		types:  make(map[string]ir.TypeDecl),
		owner:  make(map[string]*ir.Package),
		used:   make(map[string]map[string]bool, len(fragments)),
	}

	lk.registerPackages(fragments)
	lk.registerTypes()
	lk.checkImports()
	lk.detectCycles()
	lk.resolveAll()
	lk.finishImports()

	return ir.NewSchema(lk.packages)
}

func (lk *linker) error(code diag.Code, sp source.Span, msg string) {
	if lk.rep != nil {
		lk.rep.Report(diag.NewError(diag.PhaseLink, code, sp, msg))
	}
}

func (lk *linker) warn(code diag.Code, sp source.Span, msg string) {
	if lk.rep != nil {
		lk.rep.Report(diag.NewWarning(diag.PhaseLink, code, sp, msg))
	}
}

// registerPackages indexes fragments by path. Two files declaring the
// same package path collide; the first wins, the second is dropped.
func (lk *linker) registerPackages(fragments []*ir.Package) {
	for _, frag := range fragments {
		if prev, dup := lk.byPath[frag.Path]; dup {
			d := diag.NewError(diag.PhaseLink, diag.SemaDuplicatePackage, frag.Span,
				fmt.Sprintf("package %s is already declared in %s", displayPath(frag.Path), prev.File)).
				WithNote(prev.Span, "first declared here")
			if lk.rep != nil {
				lk.rep.Report(d)
			}
			continue
		}
		lk.byPath[frag.Path] = frag
		lk.packages = append(lk.packages, frag)
		lk.used[frag.Path] = make(map[string]bool)
	}
}

// registerTypes walks every declaration, nested included, and indexes
// it by full dotted name. Within one file, lowering already rejected
// nested duplicates, so a collision here means duplicate top-level
// siblings.
func (lk *linker) registerTypes() {
	for _, pkg := range lk.packages {
		for _, decl := range pkg.Decls {
			lk.registerDecl(pkg, decl)
		}
	}
}

func (lk *linker) registerDecl(pkg *ir.Package, decl ir.TypeDecl) {
	full := decl.Descriptor().FullName()
	if prev, dup := lk.types[full]; dup {
		d := diag.NewError(diag.PhaseLink, diag.SemaDuplicateName, decl.DeclSpan(),
			fmt.Sprintf("type %s is declared more than once", full)).
			WithNote(prev.DeclSpan(), "first declared here")
		if lk.rep != nil {
			lk.rep.Report(d)
		}
		return
	}
	lk.types[full] = decl
	lk.owner[full] = pkg

	if msg, ok := decl.(*ir.Message); ok {
		for _, nested := range msg.Nested {
			lk.registerDecl(pkg, nested)
		}
	}
}

// checkImports verifies that every declared import names a known
// package.
func (lk *linker) checkImports() {
	for _, pkg := range lk.packages {
		for _, imp := range pkg.Imports {
			if _, ok := lk.byPath[imp.Path]; !ok {
				lk.error(diag.SemaUnknownImport, imp.Span,
					fmt.Sprintf("imported package %s is not part of this compilation", imp.Path))
			}
		}
	}
}

// finishImports fills the computed dependency sets and warns about
// imports nothing referenced.
func (lk *linker) finishImports() {
	for _, pkg := range lk.packages {
		deps := make([]string, 0, len(lk.used[pkg.Path]))
		for dep := range lk.used[pkg.Path] {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		pkg.DependsOn = deps

		for _, imp := range pkg.Imports {
			if imp.Path == pkg.Path {
				continue // self-import is reported as a cycle
			}
			if _, known := lk.byPath[imp.Path]; known && !lk.used[pkg.Path][imp.Path] {
				lk.warn(diag.SemaUnusedImport, imp.Span,
					fmt.Sprintf("imported package %s is never used", imp.Path))
			}
		}
	}
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
