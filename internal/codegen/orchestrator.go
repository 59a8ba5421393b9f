package codegen

import (
	"fmt"

	"bproto/internal/ir"
)

// Backend is one target language. FilePath may route several packages
// to the same output file; the orchestrator groups them and runs a
// single traversal per file.
type Backend interface {
	Name() string
	// FilePath computes the slash-separated relative output path for a
	// package.
	FilePath(pkg *ir.Package) string
	// NewWriter returns a CodeWriter configured for the target's
	// indentation and comment syntax.
	NewWriter() *CodeWriter
	// NewHooks binds traversal hooks for one output file to w.
	NewHooks(schema *ir.Schema, w *CodeWriter) Hooks
	// Finish may synthesize extra files (module indexes and the like)
	// after every package is generated. It must call emit once per
	// extra file.
	Finish(schema *ir.Schema, generated []string, emit func(path string, content []byte))
}

// Generate runs backend over the schema, writes every file to sink,
// and returns the path to content mapping. The sink is closed on every
// path, including failures.
func Generate(schema *ir.Schema, backend Backend, sink Sink) (files map[string][]byte, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// Group packages by output path, keeping first-seen path order.
	var order []string
	groups := make(map[string][]*ir.Package)
	for _, pkg := range schema.Packages {
		path := backend.FilePath(pkg)
		if _, seen := groups[path]; !seen {
			order = append(order, path)
		}
		groups[path] = append(groups[path], pkg)
	}

	files = make(map[string][]byte, len(order))
	for _, path := range order {
		w := backend.NewWriter()
		engine := NewEngine(schema, backend.NewHooks(schema, w))
		for _, pkg := range groups[path] {
			engine.Package(pkg)
		}
		files[path] = w.Bytes()
	}

	backend.Finish(schema, order, func(path string, content []byte) {
		if _, dup := files[path]; !dup {
			order = append(order, path)
		}
		files[path] = content
	})

	for _, path := range order {
		if perr := sink.Put(path, files[path]); perr != nil {
			return nil, fmt.Errorf("%s backend: %w", backend.Name(), perr)
		}
	}
	return files, nil
}
