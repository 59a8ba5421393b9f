// Package project locates and decodes the optional bproto.toml manifest
// and discovers schema files on disk. The compiler core never touches
// the filesystem; everything here runs before a compilation starts.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the upward search looks for.
const ManifestName = "bproto.toml"

// Manifest is a loaded bproto.toml plus its location.
type Manifest struct {
	Path   string // absolute path to the manifest file
	Root   string // directory containing it
	Config Config
}

// Config mirrors the TOML layout.
type Config struct {
	Package PackageConfig `toml:"package"`
	Compile CompileConfig `toml:"compile"`
}

// PackageConfig names the project.
type PackageConfig struct {
	Name string `toml:"name"`
}

// CompileConfig holds compilation defaults. Every field is optional;
// CLI flags override them.
type CompileConfig struct {
	// Inputs are files or directories searched for schemas, relative
	// to the manifest root.
	Inputs []string `toml:"inputs"`
	// Imports are extra directories searched for imported schemas.
	Imports []string `toml:"imports"`
	// Target is the default backend.
	Target string `toml:"target"`
	// Output is the directory generated files land in.
	Output string `toml:"output"`
}

// Find walks from startDir upward looking for bproto.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Compile.Target != "" {
		switch cfg.Compile.Target {
		case "rust", "gdscript":
		default:
			return nil, fmt.Errorf("%s: unknown [compile].target %q", path, cfg.Compile.Target)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Manifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}, nil
}

// LoadNearest finds and loads the manifest governing startDir. The
// boolean is false when no manifest exists anywhere above startDir.
func LoadNearest(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// InputRoots resolves the manifest's input entries against its root.
// An empty inputs list means the root itself.
func (m *Manifest) InputRoots() []string {
	if len(m.Config.Compile.Inputs) == 0 {
		return []string{m.Root}
	}
	roots := make([]string, 0, len(m.Config.Compile.Inputs))
	for _, in := range m.Config.Compile.Inputs {
		roots = append(roots, filepath.Join(m.Root, filepath.FromSlash(in)))
	}
	return roots
}

// ImportRoots resolves the manifest's import directories against its
// root.
func (m *Manifest) ImportRoots() []string {
	roots := make([]string, 0, len(m.Config.Compile.Imports))
	for _, in := range m.Config.Compile.Imports {
		roots = append(roots, filepath.Join(m.Root, filepath.FromSlash(in)))
	}
	return roots
}
