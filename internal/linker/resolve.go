package linker

import (
	"fmt"
	"strings"

	"bproto/internal/diag"
	"bproto/internal/ir"
)

// resolveAll rewrites every symbolic reference to a resolved message or
// enum reference, or reports it unresolved.
func (lk *linker) resolveAll() {
	for _, pkg := range lk.packages {
		for _, decl := range pkg.Decls {
			lk.resolveDecl(pkg, decl)
		}
	}
}

func (lk *linker) resolveDecl(pkg *ir.Package, decl ir.TypeDecl) {
	switch decl := decl.(type) {
	case *ir.Message:
		for _, f := range decl.Fields {
			f.Type.Walk(func(t *ir.Type) {
				lk.resolveType(pkg, decl.Desc.Path, t)
			})
		}
		for _, nested := range decl.Nested {
			lk.resolveDecl(pkg, nested)
		}
	case *ir.Enum:
		for _, v := range decl.Variants {
			if v.Payload != nil {
				v.Payload.Walk(func(t *ir.Type) {
					lk.resolveType(pkg, decl.Desc.Path[:len(decl.Desc.Path)-1], t)
				})
			}
		}
	}
}

// resolveType resolves one KindRef type in the scope of the declaration
// whose type path is scope (the referencing message's own path, so its
// nested types are the innermost candidates). Lookup walks the
// enclosing scopes outward, then the package root, then treats the
// reference as fully qualified.
func (lk *linker) resolveType(pkg *ir.Package, scope []string, t *ir.Type) {
	if t.Kind != ir.KindRef {
		return
	}

	if target, full, ok := lk.lookup(pkg, scope, t.RefName); ok {
		owner := lk.owner[full]
		if owner != pkg {
			lk.used[pkg.Path][owner.Path] = true
			if !lk.imports(pkg, owner.Path) {
				lk.warn(diag.SemaUnimportedReference, t.RefSpan,
					fmt.Sprintf("%s lives in package %s, which %s does not import",
						t.RefName, displayPath(owner.Path), displayPath(pkg.Path)))
			}
		}
		desc := target.Descriptor()
		t.Ref = &desc
		switch target.(type) {
		case *ir.Message:
			t.Kind = ir.KindMessage
		case *ir.Enum:
			t.Kind = ir.KindEnum
		}
		return
	}

	lk.error(diag.SemaUnresolvedType, t.RefSpan,
		fmt.Sprintf("cannot resolve type %s", t.RefName))
}

// lookup tries each enclosing scope from innermost to the package root,
// then the reference as a fully qualified name.
func (lk *linker) lookup(pkg *ir.Package, scope []string, ref string) (ir.TypeDecl, string, bool) {
	for i := len(scope); i >= 0; i-- {
		parts := make([]string, 0, len(scope)+2)
		if pkg.Path != "" {
			parts = append(parts, pkg.Path)
		}
		parts = append(parts, scope[:i]...)
		parts = append(parts, ref)
		full := strings.Join(parts, ".")
		if decl, ok := lk.types[full]; ok {
			return decl, full, true
		}
	}
	if decl, ok := lk.types[ref]; ok {
		return decl, ref, true
	}
	return nil, "", false
}

// imports reports whether pkg declares an import of path. References
// within the same package never need one.
func (lk *linker) imports(pkg *ir.Package, path string) bool {
	for _, imp := range pkg.Imports {
		if imp.Path == path {
			return true
		}
	}
	return false
}
