// Package rustgen emits Rust source: one module per schema package,
// snake_case file paths, and synthesized mod.rs indexes. Nested schema
// types are flattened into sibling items with concatenated names, since
// Rust has no nested type declarations.
package rustgen

import (
	"sort"
	"strings"

	"bproto/internal/codegen"
	"bproto/internal/ir"
)

const header = "// Code generated by bproto. DO NOT EDIT."

type Backend struct{}

func New() *Backend { return &Backend{} }

func (*Backend) Name() string { return "rust" }

// FilePath maps a package to its module file: game.net becomes
// game/net.rs, the root package becomes schema.rs.
func (*Backend) FilePath(pkg *ir.Package) string {
	segs := moduleSegments(pkg.Path)
	return strings.Join(segs, "/") + ".rs"
}

func (*Backend) NewWriter() *codegen.CodeWriter {
	return codegen.NewCodeWriter("    ", "///")
}

func (*Backend) NewHooks(schema *ir.Schema, w *codegen.CodeWriter) codegen.Hooks {
	return &hooks{schema: schema, w: w}
}

// Finish synthesizes a mod.rs for every output directory, declaring the
// child modules and subdirectories it contains.
func (*Backend) Finish(_ *ir.Schema, generated []string, emit func(path string, content []byte)) {
	children := map[string]map[string]bool{}
	addChild := func(dir, name string) {
		if children[dir] == nil {
			children[dir] = map[string]bool{}
		}
		children[dir][name] = true
	}

	for _, path := range generated {
		segs := strings.Split(path, "/")
		dir := ""
		for i, seg := range segs {
			name := seg
			if i == len(segs)-1 {
				name = strings.TrimSuffix(seg, ".rs")
			}
			addChild(dir, name)
			if dir == "" {
				dir = seg
			} else {
				dir = dir + "/" + seg
			}
		}
	}

	dirs := make([]string, 0, len(children))
	for dir := range children {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		mods := make([]string, 0, len(children[dir]))
		for name := range children[dir] {
			mods = append(mods, name)
		}
		sort.Strings(mods)

		w := codegen.NewCodeWriter("    ", "///")
		w.Line(header)
		w.Blank()
		for _, mod := range mods {
			w.Line("pub mod %s;", mod)
		}

		path := "mod.rs"
		if dir != "" {
			path = dir + "/mod.rs"
		}
		emit(path, w.Bytes())
	}
}

// moduleSegments converts a package path to snake_case module names.
func moduleSegments(pkgPath string) []string {
	if pkgPath == "" {
		return []string{"schema"}
	}
	parts := strings.Split(pkgPath, ".")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = codegen.SnakeCase(p)
	}
	return out
}
