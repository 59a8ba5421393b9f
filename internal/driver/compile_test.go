package driver

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"bproto/internal/diag"
)

func in(path, text string) Input {
	return Input{Path: path, Content: []byte(text)}
}

func TestCompileRustEndToEnd(t *testing.T) {
	res, err := Compile(context.Background(), []Input{
		in("common.bproto", "package game.common;\nmessage Vec2 { f32 x = 1; f32 y = 2; }"),
		in("net.bproto", "package game.net;\nimport game.common;\nmessage Update { game.common.Vec2 pos = 1; }"),
	}, Options{Target: "rust"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok {
		t.Fatalf("diags: %v", res.Diagnostics)
	}
	if _, ok := res.Outputs["game/net.rs"]; !ok {
		t.Fatalf("outputs: %v", outputPaths(res.Outputs))
	}
	if _, ok := res.Outputs["mod.rs"]; !ok {
		t.Fatalf("mod.rs missing: %v", outputPaths(res.Outputs))
	}
}

func TestCompileGDScriptEndToEnd(t *testing.T) {
	res, err := Compile(context.Background(), []Input{
		in("a.bproto", "package hud;\nmessage Panel { string title = 1; }"),
	}, Options{Target: "gdscript"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok {
		t.Fatalf("diags: %v", res.Diagnostics)
	}
	content := string(res.Outputs["hud.gd"])
	if !strings.Contains(content, "class Panel:") {
		t.Fatalf("content:\n%s", content)
	}
}

func TestCompileMissingTagProducesNoOutput(t *testing.T) {
	res, err := Compile(context.Background(), []Input{
		in("bad.bproto", "package p;\nmessage M {\n\tu32 id;\n}"),
	}, Options{Target: "rust"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ok {
		t.Fatal("expected failure")
	}
	if len(res.Outputs) != 0 {
		t.Fatalf("no outputs expected, got %v", outputPaths(res.Outputs))
	}
	found := false
	for _, d := range res.Diagnostics {
		if d.Code == diag.SynMissingTag {
			found = true
		}
	}
	if !found {
		t.Fatalf("diags: %v", res.Diagnostics)
	}
}

func TestCompileCheckOnly(t *testing.T) {
	res, err := Compile(context.Background(), []Input{
		in("a.bproto", "package p;\nmessage M { u32 id = 1; }"),
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok || len(res.Outputs) != 0 {
		t.Fatalf("check-only run: ok=%v outputs=%v", res.Ok, outputPaths(res.Outputs))
	}
	if res.Schema == nil {
		t.Fatal("schema missing")
	}
}

func TestCompileUnknownTarget(t *testing.T) {
	res, err := Compile(context.Background(), []Input{
		in("a.bproto", "package p;\nmessage M { u32 id = 1; }"),
	}, Options{Target: "cobol"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ok {
		t.Fatal("expected failure")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.GenNoSuchTarget {
		t.Fatalf("diags: %v", res.Diagnostics)
	}
}

func TestCompileDeterministic(t *testing.T) {
	inputs := []Input{
		in("b.bproto", "package b;\nmessage B { u32 x = 1; }"),
		in("a.bproto", "package a;\nimport b;\nmessage A { b.B x = 1; }"),
	}
	first, err := Compile(context.Background(), inputs, Options{Target: "rust", Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Compile(context.Background(), inputs, Options{Target: "rust", Jobs: 4})
		if err != nil {
			t.Fatal(err)
		}
		if len(again.Outputs) != len(first.Outputs) {
			t.Fatalf("run %d: output count changed", i)
		}
		for p, c := range first.Outputs {
			if !bytes.Equal(c, again.Outputs[p]) {
				t.Fatalf("run %d: %s differs", i, p)
			}
		}
	}
}

func TestCompileManyFilesParallel(t *testing.T) {
	var inputs []Input
	for i := 0; i < 32; i++ {
		inputs = append(inputs, in(
			fmt.Sprintf("p%02d.bproto", i),
			fmt.Sprintf("package p%02d;\nmessage M { u32 id = 1; }", i),
		))
	}
	res, err := Compile(context.Background(), inputs, Options{Target: "gdscript"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok {
		t.Fatalf("diags: %v", res.Diagnostics)
	}
	if len(res.Outputs) != 32 {
		t.Fatalf("outputs = %d", len(res.Outputs))
	}
	// Package order follows input order.
	if res.Schema.Packages[0].Path != "p00" || res.Schema.Packages[31].Path != "p31" {
		t.Fatal("package order must follow input order")
	}
}

func TestCompileDiagnosticsSorted(t *testing.T) {
	res, err := Compile(context.Background(), []Input{
		in("a.bproto", "package p;\nmessage M {\n\tu32 a = 0;\n\tu32 b;\n}"),
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 2 {
		t.Fatalf("diags: %v", res.Diagnostics)
	}
	if res.Diagnostics[0].Primary.Start > res.Diagnostics[1].Primary.Start {
		t.Fatal("diagnostics must be span-sorted")
	}
}

func TestCompileCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inputs := []Input{in("a.bproto", "package p;\nmessage M { u32 id = 1; }")}

	first, err := Compile(context.Background(), inputs, Options{Target: "rust", Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Fatal("first run must miss")
	}

	second, err := Compile(context.Background(), inputs, Options{Target: "rust", Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("second run must hit")
	}
	for p, c := range first.Outputs {
		if !bytes.Equal(c, second.Outputs[p]) {
			t.Fatalf("cached %s differs", p)
		}
	}

	// A different target misses.
	third, err := Compile(context.Background(), inputs, Options{Target: "gdscript", Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Fatal("different target must miss")
	}

	// Changed content misses.
	changed := []Input{in("a.bproto", "package p;\nmessage M { u32 id = 2; }")}
	fourth, err := Compile(context.Background(), changed, Options{Target: "rust", Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit {
		t.Fatal("changed input must miss")
	}
}

func TestTokenize(t *testing.T) {
	res := Tokenize("t.bproto", []byte("message M {}"), 0)
	if len(res.Tokens) != 5 { // message, M, {, }, EOF
		t.Fatalf("tokens = %d", len(res.Tokens))
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("diags: %v", res.Bag.Items())
	}
}

func outputPaths(m map[string][]byte) []string {
	var out []string
	for p := range m {
		out = append(out, p)
	}
	return out
}
