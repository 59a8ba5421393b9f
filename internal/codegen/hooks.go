// Package codegen is the backend-independent generation framework: a
// traversal engine that feeds schema declarations to backend hooks, an
// indentation-aware code writer, output sinks, and the orchestrator
// that ties them together.
package codegen

import "bproto/internal/ir"

// Hooks receives traversal events for the declarations routed into one
// output file. Backends implement Hooks on top of a CodeWriter.
type Hooks interface {
	BeginPackage(pkg *ir.Package)
	// Include fires once per distinct computed dependency, before any
	// declaration of the package.
	Include(dep *ir.Package)
	BeginEnum(e *ir.Enum)
	Variant(v *ir.Variant)
	EndEnum(e *ir.Enum)
	// BeginMessage fires before the message's nested declarations,
	// BeginMessageBody after them and before the first field. Backends
	// that flatten nesting emit their type header in BeginMessageBody;
	// backends with real nesting open it in BeginMessage.
	BeginMessage(m *ir.Message)
	BeginMessageBody(m *ir.Message)
	Field(f *ir.Field)
	EndMessage(m *ir.Message)
	EndPackage(pkg *ir.Package)
}

// Engine drives one traversal over a package in the fixed emission
// order: includes, then enums, then messages, nested declarations
// always ahead of the enclosing message body.
type Engine struct {
	schema *ir.Schema
	hooks  Hooks
}

func NewEngine(schema *ir.Schema, hooks Hooks) *Engine {
	return &Engine{schema: schema, hooks: hooks}
}

// Package walks one package.
func (e *Engine) Package(pkg *ir.Package) {
	e.hooks.BeginPackage(pkg)
	for _, dep := range pkg.DependsOn {
		if p, ok := e.schema.Package(dep); ok {
			e.hooks.Include(p)
		}
	}
	for _, en := range pkg.Enums() {
		e.enum(en)
	}
	for _, m := range pkg.Messages() {
		e.message(m)
	}
	e.hooks.EndPackage(pkg)
}

func (e *Engine) enum(en *ir.Enum) {
	e.hooks.BeginEnum(en)
	for _, v := range en.Variants {
		e.hooks.Variant(v)
	}
	e.hooks.EndEnum(en)
}

func (e *Engine) message(m *ir.Message) {
	e.hooks.BeginMessage(m)
	for _, nested := range m.Nested {
		switch nested := nested.(type) {
		case *ir.Enum:
			e.enum(nested)
		case *ir.Message:
			e.message(nested)
		}
	}
	e.hooks.BeginMessageBody(m)
	for _, f := range m.Fields {
		e.hooks.Field(f)
	}
	e.hooks.EndMessage(m)
}

// NopHooks implements every hook as a no-op; backends embed it to skip
// events they do not care about.
type NopHooks struct{}

func (NopHooks) BeginPackage(*ir.Package)     {}
func (NopHooks) Include(*ir.Package)          {}
func (NopHooks) BeginEnum(*ir.Enum)           {}
func (NopHooks) Variant(*ir.Variant)          {}
func (NopHooks) EndEnum(*ir.Enum)             {}
func (NopHooks) BeginMessage(*ir.Message)     {}
func (NopHooks) BeginMessageBody(*ir.Message) {}
func (NopHooks) Field(*ir.Field)              {}
func (NopHooks) EndMessage(*ir.Message)       {}
func (NopHooks) EndPackage(*ir.Package)       {}
