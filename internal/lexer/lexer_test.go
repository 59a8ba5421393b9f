package lexer

import (
	"testing"

	"bproto/internal/diag"
	"bproto/internal/source"
	"bproto/internal/token"
)

func lexAll(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bproto", []byte(input))
	bag := diag.NewBag(64)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.Tokens(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexSimpleMessage(t *testing.T) {
	toks, bag := lexAll(t, "message A { u32 id = 1; }")
	want := []token.Kind{
		token.KwMessage, token.Ident, token.LBrace,
		token.Ident, token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestLexCommentRetained(t *testing.T) {
	toks, _ := lexAll(t, "// doc line\nmessage A {}")
	if toks[0].Kind != token.Comment {
		t.Fatalf("first token = %v, want Comment", toks[0].Kind)
	}
	if toks[0].Text != "doc line" {
		t.Errorf("comment text = %q, want %q", toks[0].Text, "doc line")
	}
}

func TestLexTripleSlashComment(t *testing.T) {
	toks, _ := lexAll(t, "/// doc")
	if toks[0].Kind != token.Comment || toks[0].Text != "doc" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestLexStringLiteral(t *testing.T) {
	toks, bag := lexAll(t, `"foo/bar.bproto"`)
	if toks[0].Kind != token.StringLit || toks[0].Text != "foo/bar.bproto" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Text)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestLexUnterminatedString(t *testing.T) {
	toks, bag := lexAll(t, `"unclosed`)
	if toks[0].Kind != token.Invalid {
		t.Fatalf("got %v, want Invalid", toks[0].Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestLexStringWithNewline(t *testing.T) {
	_, bag := lexAll(t, "\"a\nb\"")
	if bag.Len() == 0 || bag.Items()[0].Code != diag.LexStringNewline {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestLexIntBounds(t *testing.T) {
	toks, bag := lexAll(t, "18446744073709551615")
	if toks[0].Kind != token.IntLit {
		t.Fatalf("max uint64 should lex, got %v", toks[0].Kind)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	toks, bag = lexAll(t, "18446744073709551616")
	if toks[0].Kind != token.Invalid {
		t.Fatalf("uint64+1 should be Invalid, got %v", toks[0].Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexIntOverflow {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestLexMalformedNumber(t *testing.T) {
	toks, bag := lexAll(t, "12abc;")
	if toks[0].Kind != token.Invalid {
		t.Fatalf("got %v, want Invalid", toks[0].Kind)
	}
	// Recovery: scanning continues past the bad token.
	if toks[1].Kind != token.Semicolon {
		t.Fatalf("token after Invalid = %v, want Semicolon", toks[1].Kind)
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestLexUnknownCharRecovers(t *testing.T) {
	toks, bag := lexAll(t, "message # A")
	got := kinds(toks)
	want := []token.Kind{token.KwMessage, token.Invalid, token.Ident, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestLexSpans(t *testing.T) {
	toks, _ := lexAll(t, "package a.b;")
	if toks[0].Span.Start != 0 || toks[0].Span.End != 7 {
		t.Errorf("package span = %v", toks[0].Span)
	}
	if toks[1].Span.Start != 8 || toks[1].Span.End != 9 {
		t.Errorf("ident span = %v", toks[1].Span)
	}
}

func TestLexPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bproto", []byte("enum E"))
	lx := New(fs.Get(id), Options{})
	if lx.Peek().Kind != token.KwEnum {
		t.Fatal("peek should see enum")
	}
	if lx.Next().Kind != token.KwEnum {
		t.Fatal("next after peek should still be enum")
	}
	if lx.Next().Kind != token.Ident {
		t.Fatal("second next should be ident")
	}
}

func TestLexEOFIsSticky(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bproto", []byte(""))
	lx := New(fs.Get(id), Options{})
	for i := 0; i < 3; i++ {
		if lx.Next().Kind != token.EOF {
			t.Fatalf("call %d: want EOF", i)
		}
	}
}
