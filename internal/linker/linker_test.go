package linker

import (
	"testing"

	"bproto/internal/diag"
	"bproto/internal/ir"
	"bproto/internal/lower"
	"bproto/internal/parser"
	"bproto/internal/source"
)

type srcFile struct {
	name string
	text string
}

func linkSrc(t *testing.T, files ...srcFile) (*ir.Schema, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}

	var frags []*ir.Package
	for _, f := range files {
		id := fs.AddVirtual(f.name, []byte(f.text))
		parsed := parser.ParseFile(fs, fs.Get(id), parser.Options{Reporter: rep})
		frags = append(frags, lower.File(f.name, parsed, rep))
	}
	if bag.HasErrors() {
		t.Fatalf("pre-link errors: %v", bag.Items())
	}
	return Link(frags, rep), bag
}

func errCodes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			out = append(out, d.Code)
		}
	}
	return out
}

func TestLinkCrossPackageReference(t *testing.T) {
	schema, bag := linkSrc(t,
		srcFile{"common.bproto", `package game.common;
message Vec2 { f32 x = 1; f32 y = 2; }`},
		srcFile{"net.bproto", `package game.net;
import game.common;
message Update { game.common.Vec2 pos = 1; }`},
	)
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("diags: %v", bag.Items())
	}

	netPkg, ok := schema.Package("game.net")
	if !ok {
		t.Fatal("game.net missing")
	}
	typ := netPkg.Messages()[0].Fields[0].Type
	if typ.Kind != ir.KindMessage || typ.Ref.FullName() != "game.common.Vec2" {
		t.Fatalf("type = %+v", typ)
	}
	if len(netPkg.DependsOn) != 1 || netPkg.DependsOn[0] != "game.common" {
		t.Fatalf("DependsOn = %v", netPkg.DependsOn)
	}
}

func TestLinkScopeResolution(t *testing.T) {
	schema, bag := linkSrc(t, srcFile{"a.bproto", `package p;
enum Mode { On = 1; }
message Outer {
	message Inner {
		Mode mode = 1;
		Peer peer = 2;
	}
	message Peer { u8 b = 1; }
	Inner inner = 1;
}`})
	if bag.HasErrors() {
		t.Fatalf("diags: %v", bag.Items())
	}
	pkg, _ := schema.Package("p")
	outer := pkg.Messages()[0]
	inner := outer.Nested[0].(*ir.Message)

	if typ := inner.Fields[0].Type; typ.Kind != ir.KindEnum || typ.Ref.FullName() != "p.Mode" {
		t.Errorf("mode = %+v", typ)
	}
	// Peer is a sibling nested inside Outer, found by walking outward.
	if typ := inner.Fields[1].Type; typ.Kind != ir.KindMessage || typ.Ref.FullName() != "p.Outer.Peer" {
		t.Errorf("peer = %+v", typ)
	}
	if typ := outer.Fields[0].Type; typ.Ref.FullName() != "p.Outer.Inner" {
		t.Errorf("inner = %+v", typ)
	}
}

func TestLinkInnermostWins(t *testing.T) {
	schema, bag := linkSrc(t, srcFile{"a.bproto", `package p;
message Thing { u8 a = 1; }
message Outer {
	message Thing { u16 b = 1; }
	Thing t = 1;
}`})
	if bag.HasErrors() {
		t.Fatalf("diags: %v", bag.Items())
	}
	pkg, _ := schema.Package("p")
	outer := pkg.Messages()[1]
	if typ := outer.Fields[0].Type; typ.Ref.FullName() != "p.Outer.Thing" {
		t.Errorf("resolved to %s, want the nested declaration", typ.Ref.FullName())
	}
}

func TestLinkUnresolvedReference(t *testing.T) {
	_, bag := linkSrc(t, srcFile{"a.bproto", "message M { Missing x = 1; }"})
	if got := errCodes(bag); len(got) != 1 || got[0] != diag.SemaUnresolvedType {
		t.Fatalf("codes = %v", got)
	}
}

func TestLinkUnresolvedPayloadVariant(t *testing.T) {
	_, bag := linkSrc(t, srcFile{"a.bproto", "enum E { Missing V = 1; }"})
	if got := errCodes(bag); len(got) != 1 || got[0] != diag.SemaUnresolvedType {
		t.Fatalf("codes = %v", got)
	}
}

func TestLinkUnknownImport(t *testing.T) {
	_, bag := linkSrc(t, srcFile{"a.bproto", "package p;\nimport nowhere;\nmessage M { u8 b = 1; }"})
	got := errCodes(bag)
	if len(got) != 1 || got[0] != diag.SemaUnknownImport {
		t.Fatalf("codes = %v", got)
	}
}

func TestLinkUnusedImportWarns(t *testing.T) {
	_, bag := linkSrc(t,
		srcFile{"a.bproto", "package a;\nmessage A { u8 b = 1; }"},
		srcFile{"b.bproto", "package b;\nimport a;\nmessage B { u8 b = 1; }"},
	)
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnusedImport || items[0].Severity != diag.SevWarning {
		t.Fatalf("diags = %v", items)
	}
}

func TestLinkUnimportedReferenceWarns(t *testing.T) {
	schema, bag := linkSrc(t,
		srcFile{"a.bproto", "package a;\nmessage A { u8 b = 1; }"},
		srcFile{"b.bproto", "package b;\nmessage B { a.A x = 1; }"},
	)
	if bag.HasErrors() {
		t.Fatalf("errors: %v", bag.Items())
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnimportedReference {
		t.Fatalf("diags = %v", items)
	}
	// The reference still resolves.
	pkg, _ := schema.Package("b")
	if typ := pkg.Messages()[0].Fields[0].Type; typ.Kind != ir.KindMessage {
		t.Errorf("type = %+v", typ)
	}
}

func TestLinkSelfImportCycle(t *testing.T) {
	_, bag := linkSrc(t, srcFile{"a.bproto", "package p;\nimport p;\nmessage M { u8 b = 1; }"})
	got := errCodes(bag)
	if len(got) != 1 || got[0] != diag.SemaImportCycle {
		t.Fatalf("codes = %v", got)
	}
}

func TestLinkTwoPackageCycle(t *testing.T) {
	_, bag := linkSrc(t,
		srcFile{"a.bproto", "package a;\nimport b;\nmessage A { b.B x = 1; }"},
		srcFile{"b.bproto", "package b;\nimport a;\nmessage B { a.A x = 1; }"},
	)
	found := false
	for _, c := range errCodes(bag) {
		if c == diag.SemaImportCycle {
			found = true
		}
	}
	if !found {
		t.Fatalf("codes = %v", errCodes(bag))
	}
}

func TestLinkPackageCollision(t *testing.T) {
	schema, bag := linkSrc(t,
		srcFile{"a.bproto", "package p;\nmessage A { u8 b = 1; }"},
		srcFile{"b.bproto", "package p;\nmessage B { u8 b = 1; }"},
	)
	got := errCodes(bag)
	if len(got) != 1 || got[0] != diag.SemaDuplicatePackage {
		t.Fatalf("codes = %v", got)
	}
	// First file wins.
	pkg, ok := schema.Package("p")
	if !ok || pkg.File != "a.bproto" {
		t.Fatalf("kept package from %q", pkg.File)
	}
}

func TestLinkDuplicateTopLevelType(t *testing.T) {
	_, bag := linkSrc(t, srcFile{"a.bproto", `package p;
message M { u8 a = 1; }
message M { u8 b = 1; }`})
	got := errCodes(bag)
	if len(got) != 1 || got[0] != diag.SemaDuplicateName {
		t.Fatalf("codes = %v", got)
	}
}

func TestLinkPackageOrderIsInputOrder(t *testing.T) {
	schema, _ := linkSrc(t,
		srcFile{"z.bproto", "package z;\nmessage Z { u8 b = 1; }"},
		srcFile{"a.bproto", "package a;\nmessage A { u8 b = 1; }"},
	)
	if schema.Packages[0].Path != "z" || schema.Packages[1].Path != "a" {
		t.Fatalf("order = %s, %s", schema.Packages[0].Path, schema.Packages[1].Path)
	}
}
