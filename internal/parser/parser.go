// Package parser builds an ast.File from a token stream. Errors do not
// stop the parse: the parser reports a diagnostic, resynchronizes at the
// nearest declaration or statement boundary, and keeps going, so a single
// pass surfaces as many problems as possible.
package parser

import (
	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/lexer"
	"bproto/internal/source"
	"bproto/internal/token"
)

type Options struct {
	// MaxErrors stops reporting after this many errors. 0 means unlimited.
	MaxErrors uint
	Reporter  diag.Reporter
}

// Parser holds the per-file parse state.
type Parser struct {
	fs       *source.FileSet
	file     *source.File
	lx       *lexer.Lexer
	opts     Options
	look     *token.Token  // one non-comment token of lookahead
	pending  []token.Token // comment run collected while filling look
	lastSpan source.Span   // span of the last consumed token
	errors   uint
}

// ParseFile parses one file into an AST. A file with errors still yields
// whatever declarations were recovered.
func ParseFile(fs *source.FileSet, file *source.File, opts Options) *ast.File {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		fs:       fs,
		file:     file,
		lx:       lx,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	return p.parseFile()
}

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{}
	start := p.peek().Span

	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwPackage:
			decl, ok := p.parsePackageDecl()
			if !ok {
				p.resyncTopLevel()
				continue
			}
			switch {
			case f.Package != nil:
				p.report(diag.SynDuplicatePackage, diag.SevError, decl.Span,
					"file already declares package "+f.Package.Path())
			case len(f.Imports) > 0 || len(f.Decls) > 0:
				p.report(diag.SynPackageNotFirst, diag.SevError, decl.Span,
					"package declaration must precede imports and declarations")
				f.Package = decl
			default:
				f.Package = decl
			}
		case token.KwImport:
			decl, ok := p.parseImportDecl()
			if !ok {
				p.resyncTopLevel()
				continue
			}
			f.Imports = append(f.Imports, decl)
		case token.KwMessage:
			decl, ok := p.parseMessageDecl()
			if !ok {
				p.resyncTopLevel()
				continue
			}
			f.Decls = append(f.Decls, decl)
		case token.KwEnum:
			decl, ok := p.parseEnumDecl()
			if !ok {
				p.resyncTopLevel()
				continue
			}
			f.Decls = append(f.Decls, decl)
		default:
			p.err(diag.SynUnexpectedTopLevel,
				"expected 'package', 'import', 'message' or 'enum', got "+describe(p.peek()))
			p.resyncTopLevel()
		}
	}

	f.Span = start.Cover(p.peek().Span)
	return f
}

// resyncTopLevel skips tokens until a token that can begin a top-level
// declaration, eating one stray ';' if that is what stopped us.
func (p *Parser) resyncTopLevel() {
	p.resyncUntil(token.Semicolon, token.KwPackage, token.KwImport, token.KwMessage, token.KwEnum)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// resyncMember recovers inside a message or enum body: skip to the next
// ';', nested declaration keyword, or the closing brace.
func (p *Parser) resyncMember() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.KwMessage, token.KwEnum)
	if p.at(token.Semicolon) {
		p.advance()
	}
}
