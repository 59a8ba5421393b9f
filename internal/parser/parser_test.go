package parser

import (
	"testing"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/source"
)

func parseSrc(t *testing.T, input string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bproto", []byte(input))
	bag := diag.NewBag(64)
	f := ParseFile(fs, fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return f, bag
}

func codesOf(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestParseFullFile(t *testing.T) {
	src := `package demo.net;

import demo.common;

// Player position update.
message Position {
	u32 id = 1;
	f32 x = 2;
	f32 y = 3;
}

enum Status {
	Idle = 1;
	u32 Moving = 2;
}
`
	f, bag := parseSrc(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if f.Package == nil || f.Package.Path() != "demo.net" {
		t.Fatalf("package = %v", f.Package)
	}
	if len(f.Imports) != 1 || f.Imports[0].Path() != "demo.common" {
		t.Fatalf("imports = %v", f.Imports)
	}
	if len(f.Decls) != 2 {
		t.Fatalf("decls = %d", len(f.Decls))
	}

	msg, ok := f.Decls[0].(*ast.MessageDecl)
	if !ok || msg.Name != "Position" {
		t.Fatalf("first decl = %#v", f.Decls[0])
	}
	if msg.Doc == nil || msg.Doc.Text() != "Player position update." {
		t.Errorf("doc = %v", msg.Doc)
	}
	if len(msg.Fields) != 3 {
		t.Fatalf("fields = %d", len(msg.Fields))
	}
	if msg.Fields[0].Name != "id" || msg.Fields[0].Tag != 1 || msg.Fields[0].Type.Name() != "u32" {
		t.Errorf("field 0 = %+v", msg.Fields[0])
	}

	enum, ok := f.Decls[1].(*ast.EnumDecl)
	if !ok || enum.Name != "Status" {
		t.Fatalf("second decl = %#v", f.Decls[1])
	}
	if len(enum.Variants) != 2 {
		t.Fatalf("variants = %d", len(enum.Variants))
	}
	if enum.Variants[0].Payload != nil || enum.Variants[0].Name != "Idle" || enum.Variants[0].Tag != 1 {
		t.Errorf("variant 0 = %+v", enum.Variants[0])
	}
	if enum.Variants[1].Payload == nil || enum.Variants[1].Payload.Name() != "u32" || enum.Variants[1].Name != "Moving" {
		t.Errorf("variant 1 = %+v", enum.Variants[1])
	}
}

func TestParseNestedDecls(t *testing.T) {
	src := `message Outer {
	message Inner {
		u8 b = 1;
	}
	enum Mode {
		On = 1;
	}
	Inner inner = 1;
}`
	f, bag := parseSrc(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	msg := f.Decls[0].(*ast.MessageDecl)
	if len(msg.Nested) != 2 {
		t.Fatalf("nested = %d", len(msg.Nested))
	}
	if msg.Nested[0].DeclName() != "Inner" || msg.Nested[1].DeclName() != "Mode" {
		t.Errorf("nested names: %s, %s", msg.Nested[0].DeclName(), msg.Nested[1].DeclName())
	}
	if len(msg.Fields) != 1 || msg.Fields[0].Type.Name() != "Inner" {
		t.Errorf("fields = %+v", msg.Fields)
	}
}

func TestParseMissingTag(t *testing.T) {
	src := `message M {
	u32 id;
	u32 ok = 2;
}`
	f, bag := parseSrc(t, src)
	if got := codesOf(bag); len(got) != 1 || got[0] != diag.SynMissingTag {
		t.Fatalf("codes = %v", got)
	}
	// Recovery keeps the well-formed field.
	msg := f.Decls[0].(*ast.MessageDecl)
	if len(msg.Fields) != 1 || msg.Fields[0].Name != "ok" {
		t.Fatalf("fields after recovery = %+v", msg.Fields)
	}
}

func TestParseTagZeroRejected(t *testing.T) {
	_, bag := parseSrc(t, "message M { u32 id = 0; }")
	if got := codesOf(bag); len(got) != 1 || got[0] != diag.SynBadTag {
		t.Fatalf("codes = %v", got)
	}
}

func TestParseTagOverflow(t *testing.T) {
	_, bag := parseSrc(t, "message M { u32 id = 4294967296; }")
	if got := codesOf(bag); len(got) != 1 || got[0] != diag.SynBadTag {
		t.Fatalf("codes = %v", got)
	}
}

func TestParseArrayAndMapTypes(t *testing.T) {
	src := `message M {
	[]u8 blob = 1;
	[16]f32 mat = 2;
	[u32]string names = 3;
	[][]u8 nested = 4;
}`
	f, bag := parseSrc(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	fields := f.Decls[0].(*ast.MessageDecl).Fields

	if fields[0].Type.Kind != ast.TypeArray || fields[0].Type.Size != 0 {
		t.Errorf("blob type = %+v", fields[0].Type)
	}
	if fields[1].Type.Kind != ast.TypeArray || fields[1].Type.Size != 16 {
		t.Errorf("mat type = %+v", fields[1].Type)
	}
	m := fields[2].Type
	if m.Kind != ast.TypeMap || m.Key.Name() != "u32" || m.Elem.Name() != "string" {
		t.Errorf("names type = %+v", m)
	}
	outer := fields[3].Type
	if outer.Kind != ast.TypeArray || outer.Elem.Kind != ast.TypeArray {
		t.Errorf("nested type = %+v", outer)
	}
}

func TestParseQualifiedTypeReference(t *testing.T) {
	f, bag := parseSrc(t, "message M { demo.common.Vec2 pos = 1; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	typ := f.Decls[0].(*ast.MessageDecl).Fields[0].Type
	if typ.Name() != "demo.common.Vec2" {
		t.Errorf("type = %q", typ.Name())
	}
}

func TestParseEncodings(t *testing.T) {
	src := "message M { u32 v = 1 [bits(5), zigzag]; i64 w = 2 [fixed_point(8, 24)]; }"
	f, bag := parseSrc(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	fields := f.Decls[0].(*ast.MessageDecl).Fields
	encs := fields[0].Encodings
	if len(encs) != 2 || encs[0].Name != "bits" || encs[0].Args[0] != 5 || encs[1].Name != "zigzag" {
		t.Errorf("encodings = %+v", encs)
	}
	fp := fields[1].Encodings[0]
	if fp.Name != "fixed_point" || len(fp.Args) != 2 || fp.Args[0] != 8 || fp.Args[1] != 24 {
		t.Errorf("fixed_point = %+v", fp)
	}
}

func TestParseUnknownEncoding(t *testing.T) {
	_, bag := parseSrc(t, "message M { u32 v = 1 [wat]; }")
	if got := codesOf(bag); len(got) != 1 || got[0] != diag.SynBadEncoding {
		t.Fatalf("codes = %v", got)
	}
}

func TestParseEncodingArity(t *testing.T) {
	_, bag := parseSrc(t, "message M { u32 v = 1 [bits]; }")
	if got := codesOf(bag); len(got) != 1 || got[0] != diag.SynBadEncoding {
		t.Fatalf("codes = %v", got)
	}
}

func TestParseDuplicatePackage(t *testing.T) {
	f, bag := parseSrc(t, "package a;\npackage b;\n")
	if got := codesOf(bag); len(got) != 1 || got[0] != diag.SynDuplicatePackage {
		t.Fatalf("codes = %v", got)
	}
	if f.Package.Path() != "a" {
		t.Errorf("package = %q, want first declaration kept", f.Package.Path())
	}
}

func TestParsePackageNotFirst(t *testing.T) {
	f, bag := parseSrc(t, "import x;\npackage a;\n")
	if got := codesOf(bag); len(got) != 1 || got[0] != diag.SynPackageNotFirst {
		t.Fatalf("codes = %v", got)
	}
	if f.Package == nil || f.Package.Path() != "a" {
		t.Errorf("misplaced package should still be recorded, got %v", f.Package)
	}
}

func TestParseTopLevelRecovery(t *testing.T) {
	src := `package a;
= = =
message M { u32 id = 1; }`
	f, bag := parseSrc(t, src)
	if !bag.HasErrors() {
		t.Fatal("expected at least one error")
	}
	if len(f.Decls) != 1 || f.Decls[0].DeclName() != "M" {
		t.Fatalf("recovery lost the message: %+v", f.Decls)
	}
}

func TestParseDocCommentAdjacency(t *testing.T) {
	src := `// detached comment

// attached line one
// attached line two
message M {
	// field doc
	u32 id = 1;
	u32 free = 2; // trailing, belongs to nobody
	u32 next = 3;
}`
	f, bag := parseSrc(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	msg := f.Decls[0].(*ast.MessageDecl)
	if msg.Doc == nil || msg.Doc.Text() != "attached line one\nattached line two" {
		t.Errorf("message doc = %v", msg.Doc)
	}
	if msg.Fields[0].Doc == nil || msg.Fields[0].Doc.Text() != "field doc" {
		t.Errorf("field doc = %v", msg.Fields[0].Doc)
	}
	if msg.Fields[2].Doc != nil {
		t.Errorf("trailing comment wrongly attached: %v", msg.Fields[2].Doc)
	}
}

func TestParseUnclosedMessage(t *testing.T) {
	_, bag := parseSrc(t, "message M { u32 id = 1;")
	found := false
	for _, c := range codesOf(bag) {
		if c == diag.SynExpectRBrace {
			found = true
		}
	}
	if !found {
		t.Fatalf("codes = %v", codesOf(bag))
	}
}

func TestParseMaxErrors(t *testing.T) {
	bag := diag.NewBag(0)
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bproto", []byte("message M { u32 a = 0; u32 b = 0; u32 c = 0; }"))
	ParseFile(fs, fs.Get(id), Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}
