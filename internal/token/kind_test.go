package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		text string
		want Kind
	}{
		{"package", KwPackage},
		{"import", KwImport},
		{"message", KwMessage},
		{"enum", KwEnum},
		{"u32", Ident},
		{"string", Ident},
		{"Message", Ident}, // keywords are case-sensitive
		{"", Ident},
	}
	for _, tc := range cases {
		if got := LookupKeyword(tc.text); got != tc.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if KwMessage.String() != "message" {
		t.Errorf("KwMessage.String() = %q", KwMessage.String())
	}
	if Semicolon.String() != ";" {
		t.Errorf("Semicolon.String() = %q", Semicolon.String())
	}
	if Kind(250).String() != "Unknown" {
		t.Errorf("out-of-range Kind should stringify as Unknown")
	}
}

func TestTokenPredicates(t *testing.T) {
	if !(Token{Kind: KwEnum}).IsKeyword() {
		t.Error("KwEnum should be a keyword")
	}
	if (Token{Kind: Ident}).IsKeyword() {
		t.Error("Ident is not a keyword")
	}
	if !(Token{Kind: LBrace}).IsPunct() {
		t.Error("LBrace should be punctuation")
	}
	if !(Token{Kind: Ident}).IsIdent() {
		t.Error("Ident should be an identifier")
	}
}
