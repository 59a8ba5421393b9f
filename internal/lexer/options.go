package lexer

import (
	"bproto/internal/diag"
	"bproto/internal/source"
)

// Options configures a Lexer. A nil Reporter drops diagnostics but scanning
// still recovers and continues.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(diag.PhaseLex, code, sp, msg))
	}
}
