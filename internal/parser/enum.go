package parser

import (
	"fmt"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/token"
)

// parseEnumDecl parses `enum Name { variants }`.
func (p *Parser) parseEnumDecl() (*ast.EnumDecl, bool) {
	doc := p.takeDoc(p.peek().Span)
	kw := p.advance()

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected enum name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' after enum name"); !ok {
		return nil, false
	}

	enum := &ast.EnumDecl{
		NameSpan: nameTok.Span,
		Name:     nameTok.Text,
		Doc:      doc,
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		variant, ok := p.parseVariant()
		if !ok {
			p.resyncMember()
			continue
		}
		enum.Variants = append(enum.Variants, variant)
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' to close enum "+enum.Name)
	if !ok {
		return nil, false
	}
	enum.Span = kw.Span.Cover(closeTok.Span)
	return enum, true
}

// parseVariant parses one of:
//
//	Name = tag;         unit variant
//	type Name = tag;    payload-carrying variant
//
// The first form is a degenerate type expression followed by '=', so both
// start with parseTypeExpr.
func (p *Parser) parseVariant() (*ast.VariantDecl, bool) {
	doc := p.takeDoc(p.peek().Span)

	first, ok := p.parseTypeExpr()
	if !ok {
		return nil, false
	}

	variant := &ast.VariantDecl{Doc: doc}
	if p.at(token.Ident) {
		nameTok := p.advance()
		variant.Payload = first
		variant.Name = nameTok.Text
		variant.NameSpan = nameTok.Span
	} else {
		if first.Kind != ast.TypeNamed || len(first.Segments) != 1 {
			p.report(diag.SynExpectIdentifier, diag.SevError, first.Span, "expected variant name")
			return nil, false
		}
		variant.Name = first.Segments[0]
		variant.NameSpan = first.Span
	}

	if !p.at(token.Assign) {
		p.report(diag.SynMissingTag, diag.SevError, variant.NameSpan,
			fmt.Sprintf("variant %q has no tag; every variant needs '= N'", variant.Name))
		return nil, false
	}
	p.advance()

	tag, tagSpan, ok := p.parseTag("variant", variant.Name)
	if !ok {
		return nil, false
	}
	variant.Tag = tag
	variant.TagSpan = tagSpan

	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variant")
	if !ok {
		return nil, false
	}
	variant.Span = first.Span.Cover(semi.Span)
	return variant, true
}
