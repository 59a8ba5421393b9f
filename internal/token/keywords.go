package token

var keywords = map[string]Kind{
	"package": KwPackage,
	"import":  KwImport,
	"message": KwMessage,
	"enum":    KwEnum,
}

// LookupKeyword returns the keyword kind for text, or Ident if text is not
// a keyword. Scalar type names (u32, string, ...) are deliberately plain
// identifiers; the parser resolves them by name, which keeps them usable
// as field names.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
