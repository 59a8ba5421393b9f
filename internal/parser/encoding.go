package parser

import (
	"fmt"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/token"
)

// encodingArity maps the known encoding annotations to their argument
// count. Width and applicability checks happen during lowering; here we
// only reject names and shapes the grammar does not know.
var encodingArity = map[string]int{
	"bits":          1,
	"bits_variable": 1,
	"zigzag":        0,
	"delta":         0,
	"pad":           1,
	"fixed_point":   2,
}

// parseEncodings parses a bracketed annotation list after the tag:
//
//	[bits(5), zigzag]
//	[fixed_point(8, 24)]
func (p *Parser) parseEncodings() ([]*ast.EncodingAnnot, bool) {
	p.advance() // '['

	var out []*ast.EncodingAnnot
	for {
		annot, ok := p.parseEncoding()
		if !ok {
			return nil, false
		}
		out = append(out, annot)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']' to close encoding list"); !ok {
		return nil, false
	}
	return out, true
}

func (p *Parser) parseEncoding() (*ast.EncodingAnnot, bool) {
	nameTok, ok := p.expect(token.Ident, diag.SynBadEncoding, "expected encoding name")
	if !ok {
		return nil, false
	}
	annot := &ast.EncodingAnnot{
		Span: nameTok.Span,
		Name: nameTok.Text,
	}

	if p.at(token.LParen) {
		p.advance()
		for {
			argTok, ok := p.expect(token.IntLit, diag.SynBadEncoding, "expected integer encoding argument")
			if !ok {
				return nil, false
			}
			v, err := parseUint32(argTok.Text)
			if err != nil {
				p.report(diag.SynBadEncoding, diag.SevError, argTok.Span,
					"encoding argument out of range: "+argTok.Text)
				return nil, false
			}
			annot.Args = append(annot.Args, v)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		closeTok, ok := p.expect(token.RParen, diag.SynBadEncoding, "expected ')' after encoding arguments")
		if !ok {
			return nil, false
		}
		annot.Span = annot.Span.Cover(closeTok.Span)
	}

	arity, known := encodingArity[annot.Name]
	if !known {
		p.report(diag.SynBadEncoding, diag.SevError, annot.Span,
			fmt.Sprintf("unknown encoding %q", annot.Name))
		return nil, false
	}
	if len(annot.Args) != arity {
		p.report(diag.SynBadEncoding, diag.SevError, annot.Span,
			fmt.Sprintf("encoding %q takes %d argument(s), got %d", annot.Name, arity, len(annot.Args)))
		return nil, false
	}
	return annot, true
}
