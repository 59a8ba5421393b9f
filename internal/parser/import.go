package parser

import (
	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/source"
	"bproto/internal/token"
)

// parsePackageDecl parses `package a.b.c;`.
func (p *Parser) parsePackageDecl() (*ast.PackageDecl, bool) {
	kw := p.advance()
	segs, _, ok := p.parseDottedPath(diag.SynExpectPackagePath, "expected package path")
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after package path")
	if !ok {
		return nil, false
	}
	return &ast.PackageDecl{
		Span:     kw.Span.Cover(semi.Span),
		Segments: segs,
	}, true
}

// parseImportDecl parses `import a.b.c;` where the path names another
// schema package.
func (p *Parser) parseImportDecl() (*ast.ImportDecl, bool) {
	kw := p.advance()
	segs, _, ok := p.parseDottedPath(diag.SynExpectPackagePath, "expected import path")
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import path")
	if !ok {
		return nil, false
	}
	return &ast.ImportDecl{
		Span:     kw.Span.Cover(semi.Span),
		Segments: segs,
	}, true
}

// parseDottedPath parses Ident ('.' Ident)* and returns the segments plus
// the covering span.
func (p *Parser) parseDottedPath(code diag.Code, msg string) ([]string, source.Span, bool) {
	first, ok := p.expect(token.Ident, code, msg)
	if !ok {
		return nil, first.Span, false
	}
	segs := []string{first.Text}
	span := first.Span
	for p.at(token.Dot) {
		p.advance()
		seg, ok := p.expect(token.Ident, code, msg)
		if !ok {
			return nil, span, false
		}
		segs = append(segs, seg.Text)
		span = span.Cover(seg.Span)
	}
	return segs, span, true
}
