package diag

import (
	"bproto/internal/source"
)

// Note is a secondary labeled span attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported problem, attributable to a source span and
// the phase that found it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Phase    Phase
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New constructs a diagnostic for the given phase.
func New(phase Phase, sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Phase:    phase,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is shorthand for an error-severity diagnostic.
func NewError(phase Phase, code Code, primary source.Span, msg string) Diagnostic {
	return New(phase, SevError, code, primary, msg)
}

// NewWarning is shorthand for a warning-severity diagnostic.
func NewWarning(phase Phase, code Code, primary source.Span, msg string) Diagnostic {
	return New(phase, SevWarning, code, primary, msg)
}

// WithNote returns a copy of d with an extra secondary span.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
