package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bproto.toml"), `
[package]
name = "game"

[compile]
inputs = ["schemas"]
imports = ["vendor/schemas"]
target = "rust"
output = "gen"
`)

	m, err := Load(filepath.Join(dir, "bproto.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Config.Package.Name != "game" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if m.Config.Compile.Target != "rust" || m.Config.Compile.Output != "gen" {
		t.Errorf("compile = %+v", m.Config.Compile)
	}
	if got := m.InputRoots(); len(got) != 1 || got[0] != filepath.Join(dir, "schemas") {
		t.Errorf("input roots = %v", got)
	}
	if got := m.ImportRoots(); len(got) != 1 || got[0] != filepath.Join(dir, "vendor", "schemas") {
		t.Errorf("import roots = %v", got)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bproto.toml"), "[package]\nname = \"x\"\n")

	m, err := Load(filepath.Join(dir, "bproto.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if got := m.InputRoots(); len(got) != 1 || got[0] != m.Root {
		t.Errorf("default input roots = %v, want manifest root", got)
	}
	if m.Config.Compile.Target != "" {
		t.Errorf("target = %q", m.Config.Compile.Target)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name, content, want string
	}{
		{"missing_package", "[compile]\ntarget = \"rust\"\n", "missing [package]"},
		{"empty_name", "[package]\nname = \"\"\n", "missing [package].name"},
		{"bad_target", "[package]\nname = \"x\"\n[compile]\ntarget = \"cpp\"\n", "unknown [compile].target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".toml")
			write(t, path, tc.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestFindWalksUpward(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bproto.toml"), "[package]\nname = \"x\"\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || path != filepath.Join(dir, "bproto.toml") {
		t.Fatalf("found %q ok=%v", path, ok)
	}

	_, ok, err = Find(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("empty tree must not find a manifest")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "b.bproto"), "package b;")
	write(t, filepath.Join(dir, "sub", "a.bproto"), "package a;")
	write(t, filepath.Join(dir, "sub", "notes.txt"), "skip me")
	write(t, filepath.Join(dir, ".hidden", "c.bproto"), "package c;")

	files, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v", files)
	}
	if filepath.Base(files[0]) != "b.bproto" || filepath.Base(files[1]) != "a.bproto" {
		t.Errorf("order = %v", files)
	}

	// A root given twice dedupes; an explicit file joins the walk.
	again, err := Discover(dir, filepath.Join(dir, "b.bproto"))
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 {
		t.Fatalf("deduped files = %v", again)
	}
}

func TestDiscoverRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "notes.txt"), "x")
	if _, err := Discover(filepath.Join(dir, "notes.txt")); err == nil {
		t.Fatal("expected error for non-schema file")
	}
}

func TestDisplayPath(t *testing.T) {
	base := filepath.Join("/proj")
	if got := DisplayPath(base, filepath.Join("/proj", "sub", "a.bproto")); got != "sub/a.bproto" {
		t.Errorf("got %q", got)
	}
	if got := DisplayPath(base, filepath.Join("/other", "a.bproto")); got != filepath.Join("/other", "a.bproto") {
		t.Errorf("got %q", got)
	}
}
