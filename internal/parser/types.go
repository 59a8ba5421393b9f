package parser

import (
	"fmt"
	"strconv"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/token"
)

// parseTypeExpr parses a type: a (possibly dotted) named reference,
// []T, [N]T, or [K]V. The bracket forms are disambiguated by the token
// after '[': ']' is a variable array, an integer is a fixed array, an
// identifier is a map key.
func (p *Parser) parseTypeExpr() (*ast.TypeExpr, bool) {
	switch p.peek().Kind {
	case token.Ident:
		return p.parseNamedType()
	case token.LBracket:
		open := p.advance()
		switch p.peek().Kind {
		case token.RBracket:
			p.advance()
			elem, ok := p.parseTypeExpr()
			if !ok {
				return nil, false
			}
			return &ast.TypeExpr{
				Span: open.Span.Cover(elem.Span),
				Kind: ast.TypeArray,
				Elem: elem,
			}, true
		case token.IntLit:
			sizeTok := p.advance()
			size, err := parseUint32(sizeTok.Text)
			if err != nil || size == 0 {
				p.report(diag.SynUnexpectedToken, diag.SevError, sizeTok.Span,
					fmt.Sprintf("array length must be a positive 32-bit integer, got %s", sizeTok.Text))
				return nil, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']' after array length"); !ok {
				return nil, false
			}
			elem, ok := p.parseTypeExpr()
			if !ok {
				return nil, false
			}
			return &ast.TypeExpr{
				Span: open.Span.Cover(elem.Span),
				Kind: ast.TypeArray,
				Elem: elem,
				Size: size,
			}, true
		case token.Ident:
			key, ok := p.parseNamedType()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']' after map key type"); !ok {
				return nil, false
			}
			val, ok := p.parseTypeExpr()
			if !ok {
				return nil, false
			}
			return &ast.TypeExpr{
				Span: open.Span.Cover(val.Span),
				Kind: ast.TypeMap,
				Key:  key,
				Elem: val,
			}, true
		default:
			p.err(diag.SynExpectType, "expected ']', array length or map key type after '['")
			return nil, false
		}
	default:
		p.err(diag.SynExpectType, "expected type, got "+describe(p.peek()))
		return nil, false
	}
}

// parseNamedType parses Ident ('.' Ident)* as a TypeNamed expression.
func (p *Parser) parseNamedType() (*ast.TypeExpr, bool) {
	segs, span, ok := p.parseDottedPath(diag.SynExpectType, "expected type name")
	if !ok {
		return nil, false
	}
	return &ast.TypeExpr{
		Span:     span,
		Kind:     ast.TypeNamed,
		Segments: segs,
	}, true
}

func parseUint32(text string) (uint32, error) {
	v, err := strconv.ParseUint(text, 10, 32)
	return uint32(v), err
}
