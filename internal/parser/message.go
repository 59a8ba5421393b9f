package parser

import (
	"fmt"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/source"
	"bproto/internal/token"
)

// parseMessageDecl parses `message Name { fields and nested decls }`.
func (p *Parser) parseMessageDecl() (*ast.MessageDecl, bool) {
	doc := p.takeDoc(p.peek().Span)
	kw := p.advance()

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected message name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' after message name"); !ok {
		return nil, false
	}

	msg := &ast.MessageDecl{
		NameSpan: nameTok.Span,
		Name:     nameTok.Text,
		Doc:      doc,
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwMessage:
			nested, ok := p.parseMessageDecl()
			if !ok {
				p.resyncMember()
				continue
			}
			msg.Nested = append(msg.Nested, nested)
		case token.KwEnum:
			nested, ok := p.parseEnumDecl()
			if !ok {
				p.resyncMember()
				continue
			}
			msg.Nested = append(msg.Nested, nested)
		default:
			field, ok := p.parseField()
			if !ok {
				p.resyncMember()
				continue
			}
			msg.Fields = append(msg.Fields, field)
		}
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' to close message "+msg.Name)
	if !ok {
		return nil, false
	}
	msg.Span = kw.Span.Cover(closeTok.Span)
	return msg, true
}

// parseField parses `type name = tag [encodings];`.
func (p *Parser) parseField() (*ast.FieldDecl, bool) {
	doc := p.takeDoc(p.peek().Span)

	typ, ok := p.parseTypeExpr()
	if !ok {
		return nil, false
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
	if !ok {
		return nil, false
	}

	if !p.at(token.Assign) {
		p.report(diag.SynMissingTag, diag.SevError, nameTok.Span,
			fmt.Sprintf("field %q has no tag; every field needs '= N'", nameTok.Text))
		return nil, false
	}
	p.advance()

	tag, tagSpan, ok := p.parseTag("field", nameTok.Text)
	if !ok {
		return nil, false
	}

	field := &ast.FieldDecl{
		NameSpan: nameTok.Span,
		TagSpan:  tagSpan,
		Name:     nameTok.Text,
		Type:     typ,
		Tag:      tag,
		Doc:      doc,
	}

	if p.at(token.LBracket) {
		encs, ok := p.parseEncodings()
		if !ok {
			return nil, false
		}
		field.Encodings = encs
	}

	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after field")
	if !ok {
		return nil, false
	}
	field.Span = typ.Span.Cover(semi.Span)
	return field, true
}

// parseTag parses the integer after '='. Tags are 32-bit and positive;
// zero is rejected here so later phases never see it.
func (p *Parser) parseTag(what, name string) (uint32, source.Span, bool) {
	tok, ok := p.expect(token.IntLit, diag.SynBadTag, "expected integer tag")
	if !ok {
		return 0, tok.Span, false
	}
	v, err := parseUint32(tok.Text)
	if err != nil {
		p.report(diag.SynBadTag, diag.SevError, tok.Span,
			fmt.Sprintf("tag of %s %q is out of range: %s", what, name, tok.Text))
		return 0, tok.Span, false
	}
	if v == 0 {
		p.report(diag.SynBadTag, diag.SevError, tok.Span,
			fmt.Sprintf("tag of %s %q must be positive", what, name))
		return 0, tok.Span, false
	}
	return v, tok.Span, true
}
