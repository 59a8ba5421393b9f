package lexer

import (
	"fmt"
	"math"
	"strconv"

	"bproto/internal/diag"
	"bproto/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: sp,
		Text: text,
	}
}

// scanNumber scans an unsigned decimal literal. Values must fit in 64 bits;
// out-of-range literals are a lex-time error (spilling to parse time would
// lose the exact span).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// A trailing identifier character glued to digits ("12abc") is one
	// invalid token, not two valid ones.
	if isIdentStartByte(lx.cursor.Peek()) {
		for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("malformed number %q", lx.text(sp)))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if _, err := strconv.ParseUint(text, 10, 64); err != nil {
		lx.report(diag.LexIntOverflow, sp,
			fmt.Sprintf("integer literal exceeds maximum (%d): %s", uint64(math.MaxUint64), text))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		b := lx.cursor.Peek()
		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexStringNewline, sp, "string literal cannot contain a line break")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
		if b == '"' && lx.cursor.Off > uint32(start)+1 {
			break
		}
	}

	sp := lx.cursor.SpanFrom(start)
	raw := lx.text(sp)
	return token.Token{
		Kind: token.StringLit,
		Span: sp,
		Text: raw[1 : len(raw)-1], // without quotes
	}
}

// scanComment consumes a // line comment up to (excluding) the newline.
// The leading slashes and at most one following space are stripped from
// Text so doc comments render cleanly.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '/'
	for lx.cursor.Eat('/') {
		// tolerate /// style
	}
	contentStart := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	text := lx.text(lx.cursor.SpanFrom(contentStart))
	if len(text) > 0 && text[0] == ' ' {
		text = text[1:]
	}
	return token.Token{
		Kind: token.Comment,
		Span: lx.cursor.SpanFrom(start),
		Text: text,
	}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	var kind token.Kind
	switch b {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '=':
		kind = token.Assign
	case '.':
		kind = token.Dot
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unrecognized character %q", string(rune(b))))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
