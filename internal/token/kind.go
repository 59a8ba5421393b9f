package token

// Kind is the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token. The lexer substitutes one for
	// any byte sequence it cannot scan and keeps going.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident is an identifier or scalar type name.
	Ident
	// IntLit is an unsigned decimal integer literal.
	IntLit
	// StringLit is a double-quoted string literal.
	StringLit
	// Comment is a line comment. Comments are retained (not discarded)
	// because contiguous blocks become doc comments during parsing.
	Comment

	// KwPackage is the 'package' keyword.
	KwPackage // package
	// KwImport is the 'import' keyword.
	KwImport // import
	// KwMessage is the 'message' keyword.
	KwMessage // message
	// KwEnum is the 'enum' keyword.
	KwEnum // enum

	// LBrace is '{'.
	LBrace // {
	// RBrace is '}'.
	RBrace // }
	// LBracket is '['.
	LBracket // [
	// RBracket is ']'.
	RBracket // ]
	// LParen is '('.
	LParen // (
	// RParen is ')'.
	RParen // )
	// Semicolon is ';'.
	Semicolon // ;
	// Comma is ','.
	Comma // ,
	// Assign is '='.
	Assign // =
	// Dot is '.'.
	Dot // .
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	StringLit: "StringLit",
	Comment:   "Comment",
	KwPackage: "package",
	KwImport:  "import",
	KwMessage: "message",
	KwEnum:    "enum",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	LParen:    "(",
	RParen:    ")",
	Semicolon: ";",
	Comma:     ",",
	Assign:    "=",
	Dot:       ".",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}
