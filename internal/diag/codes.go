package diag

import (
	"fmt"
)

// Code is a stable diagnostic identifier. Ranges are reserved per phase:
// 1xxx lexical, 2xxx syntactic, 3xxx semantic, 4xxx generation.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexIntOverflow        Code = 1003
	LexStringNewline      Code = 1004

	// Syntactic
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectSemicolon    Code = 2004
	SynExpectLBrace       Code = 2005
	SynExpectRBrace       Code = 2006
	SynExpectType         Code = 2007
	SynMissingTag         Code = 2008
	SynBadTag             Code = 2009
	SynExpectPackagePath  Code = 2010
	SynDuplicatePackage   Code = 2011
	SynPackageNotFirst    Code = 2012
	SynBadEncoding        Code = 2013
	SynExpectRBracket     Code = 2014

	// Semantic
	SemaInfo                Code = 3000
	SemaDuplicateName       Code = 3001
	SemaDuplicateTag        Code = 3002
	SemaUnresolvedType      Code = 3003
	SemaDuplicatePackage    Code = 3004
	SemaImportCycle         Code = 3005
	SemaUnknownImport       Code = 3006
	SemaUnusedImport        Code = 3007
	SemaUnimportedReference Code = 3008
	SemaBadEncodingWidth    Code = 3009
	SemaBadMapKey           Code = 3010
	SemaKindMismatch        Code = 3011
	SemaBadEncodingTarget   Code = 3012

	// Generation
	GenInfo         Code = 4000
	GenSinkFailure  Code = 4001
	GenBadSchema    Code = 4002
	GenNoSuchTarget Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown error",

	LexInfo:               "lexical note",
	LexUnknownChar:        "unrecognized character",
	LexUnterminatedString: "unterminated string literal",
	LexIntOverflow:        "integer literal out of range",
	LexStringNewline:      "string literal contains a line break",

	SynInfo:               "syntax note",
	SynUnexpectedToken:    "unexpected token",
	SynUnexpectedTopLevel: "unexpected top-level construct",
	SynExpectIdentifier:   "expected identifier",
	SynExpectSemicolon:    "expected ';'",
	SynExpectLBrace:       "expected '{'",
	SynExpectRBrace:       "expected '}'",
	SynExpectType:         "expected type",
	SynMissingTag:         "missing field tag",
	SynBadTag:             "invalid field tag",
	SynExpectPackagePath:  "expected package path",
	SynDuplicatePackage:   "duplicate package declaration",
	SynPackageNotFirst:    "package declaration must come first",
	SynBadEncoding:        "invalid encoding annotation",
	SynExpectRBracket:     "expected ']'",

	SemaInfo:                "semantic note",
	SemaDuplicateName:       "duplicate name",
	SemaDuplicateTag:        "duplicate tag",
	SemaUnresolvedType:      "unresolved type reference",
	SemaDuplicatePackage:    "duplicate package path",
	SemaImportCycle:         "import cycle",
	SemaUnknownImport:       "unknown import",
	SemaUnusedImport:        "unused import",
	SemaUnimportedReference: "reference to package that is not imported",
	SemaBadEncodingWidth:    "encoding exceeds type width",
	SemaBadMapKey:           "invalid map key type",
	SemaKindMismatch:        "reference does not name a message or enum",
	SemaBadEncodingTarget:   "encoding not applicable to this type",

	GenInfo:         "generation note",
	GenSinkFailure:  "output sink failure",
	GenBadSchema:    "internal schema invariant violation",
	GenNoSuchTarget: "unknown generation target",
}

// ID renders the code as a short stable identifier, e.g. SYN2008.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

// Phase maps the code range back to the phase that owns it.
func (c Code) Phase() Phase {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return PhaseLex
	case ic >= 2000 && ic < 3000:
		return PhaseParse
	case ic >= 3000 && ic < 4000:
		return PhaseLink
	default:
		return PhaseGenerate
	}
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
