package driver

import (
	"bproto/internal/diag"
	"bproto/internal/lexer"
	"bproto/internal/source"
	"bproto/internal/token"
)

// TokenizeResult carries the token stream of one file for the debug
// command.
type TokenizeResult struct {
	FileSet *source.FileSet
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes a single in-memory file.
func Tokenize(path string, content []byte, maxDiagnostics int) *TokenizeResult {
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(path, content)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(fileSet.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	return &TokenizeResult{
		FileSet: fileSet,
		Tokens:  lx.Tokens(),
		Bag:     bag,
	}
}
