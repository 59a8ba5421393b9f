package parser

import (
	"fmt"
	"slices"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/source"
	"bproto/internal/token"
)

// fill pulls tokens from the lexer until a non-comment token is buffered.
// Comments are collected into the pending run, except trailing comments
// that share a line with already-consumed code.
func (p *Parser) fill() {
	if p.look != nil {
		return
	}
	for {
		t := p.lx.Next()
		if t.Kind == token.Comment {
			if !p.lastSpan.Empty() && p.lineOf(t.Span) == p.lineOf(p.lastSpan) {
				continue
			}
			p.pending = append(p.pending, t)
			continue
		}
		p.look = &t
		return
	}
}

func (p *Parser) peek() token.Token {
	p.fill()
	return *p.look
}

func (p *Parser) advance() token.Token {
	p.fill()
	tok := *p.look
	p.look = nil
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// getDiagnosticSpan picks the best span for an error at the current
// position. At EOF the zero-length position after the last token reads
// better than the synthetic EOF span.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && !p.lastSpan.Empty() {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports and returns (invalid, false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, diag.SevError, sp, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if sev >= diag.SevError {
		p.errors++
		if p.opts.MaxErrors > 0 && p.errors > p.opts.MaxErrors {
			return
		}
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(diag.New(diag.PhaseParse, sev, code, sp, msg))
	}
}

// resyncUntil skips tokens until one of the stop kinds or EOF. The stop
// token itself is not consumed.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		p.advance()
	}
}

// takeDoc claims the pending comment run as the doc comment of a
// declaration starting at declSpan. Only a run whose last line sits
// directly above the declaration attaches; anything else is dropped.
func (p *Parser) takeDoc(declSpan source.Span) *ast.DocComment {
	pending := p.pending
	p.pending = p.pending[:0]
	if len(pending) == 0 {
		return nil
	}

	declLine := p.lineOf(declSpan)
	end := len(pending)
	if p.lineOf(pending[end-1].Span)+1 != declLine {
		return nil
	}
	start := end - 1
	for start > 0 && p.lineOf(pending[start-1].Span)+1 == p.lineOf(pending[start].Span) {
		start--
	}

	run := pending[start:end]
	doc := &ast.DocComment{Span: run[0].Span.Cover(run[len(run)-1].Span)}
	for _, c := range run {
		doc.Lines = append(doc.Lines, c.Text)
	}
	return doc
}

func (p *Parser) lineOf(sp source.Span) uint32 {
	start, _ := p.fs.Resolve(sp)
	return start.Line
}

// describe renders a token for an error message.
func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit:
		return fmt.Sprintf("%q", t.Text)
	case token.StringLit:
		return fmt.Sprintf("string %q", t.Text)
	default:
		if t.Text != "" {
			return fmt.Sprintf("%q", t.Text)
		}
		return t.Kind.String()
	}
}
