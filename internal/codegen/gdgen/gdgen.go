// Package gdgen emits GDScript: one .gd file per top-level namespace,
// with deeper package segments and nested schema types rendered as
// nested classes. Cross-file references go through preload constants.
package gdgen

import (
	"strings"

	"bproto/internal/codegen"
	"bproto/internal/ir"
)

const header = "Code generated by bproto. DO NOT EDIT."

type Backend struct{}

func New() *Backend { return &Backend{} }

func (*Backend) Name() string { return "gdscript" }

// FilePath groups every package sharing a top-level namespace into one
// file: game.net and game.common both land in game.gd.
func (*Backend) FilePath(pkg *ir.Package) string {
	return fileStem(pkg.Path) + ".gd"
}

func (*Backend) NewWriter() *codegen.CodeWriter {
	return codegen.NewCodeWriter("  ", "##")
}

func (*Backend) NewHooks(schema *ir.Schema, w *codegen.CodeWriter) codegen.Hooks {
	return &hooks{
		schema:   schema,
		w:        w,
		preloads: map[string]bool{},
	}
}

// Finish has nothing to synthesize for GDScript.
func (*Backend) Finish(*ir.Schema, []string, func(string, []byte)) {}

// fileStem is the snake_case top namespace, "schema" for the root
// package.
func fileStem(pkgPath string) string {
	if pkgPath == "" {
		return "schema"
	}
	top, _, _ := strings.Cut(pkgPath, ".")
	return codegen.SnakeCase(top)
}

// topNamespace is the first package path segment, "" for the root.
func topNamespace(pkgPath string) string {
	top, _, _ := strings.Cut(pkgPath, ".")
	return top
}

// subSegments are the package segments below the top namespace.
func subSegments(pkgPath string) []string {
	if pkgPath == "" {
		return nil
	}
	parts := strings.Split(pkgPath, ".")
	return parts[1:]
}
