// Package testkit holds invariant checks shared by tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"bproto/internal/ast"
	"bproto/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// file:
// 1) file.Span is non-empty and within file content bounds
// 2) every declaration span is non-empty and fully contained in file.Span
// 3) file.Span covers the union of declaration spans (if any exist)
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}

	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	var union source.Span
	var haveDecl bool
	check := func(what string, sp source.Span) error {
		if sp.End <= sp.Start {
			return fmt.Errorf("empty %s span: %v", what, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("%s span %v is outside file span %v", what, sp, f.Span)
		}
		if !haveDecl {
			union = sp
			haveDecl = true
		} else {
			union = union.Cover(sp)
		}
		return nil
	}

	if f.Package != nil {
		if err := check("package", f.Package.Span); err != nil {
			return err
		}
	}
	for _, imp := range f.Imports {
		if err := check("import", imp.Span); err != nil {
			return err
		}
	}
	for _, decl := range f.Decls {
		if err := check("declaration", decl.DeclSpan()); err != nil {
			return err
		}
	}

	if haveDecl {
		if union.Start < f.Span.Start || union.End > f.Span.End {
			return fmt.Errorf("file span %v does not cover union of declarations %v", f.Span, union)
		}
	}
	return nil
}
