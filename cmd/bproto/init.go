package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bproto/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new bproto project",
	Long: `Initialize a new bproto project by creating a project manifest (bproto.toml)
and a starter schema (schemas/example.bproto). If [path|name] is omitted,
initializes the current directory. If a non-existing name is provided, a
directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "bproto-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	schemaPath := filepath.Join(target, "schemas", "example.bproto")
	createdSchema := false
	if _, err := os.Stat(schemaPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(schemaPath), 0o755); err != nil {
			return fmt.Errorf("failed to create schemas directory: %w", err)
		}
		if err := os.WriteFile(schemaPath, []byte(defaultSchema()), 0o600); err != nil {
			return fmt.Errorf("failed to write example schema: %w", err)
		}
		createdSchema = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized bproto project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", project.ManifestName)
	if createdSchema {
		fmt.Fprintf(os.Stdout, "  - schemas/example.bproto\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - schemas/example.bproto (existing)\n")
	}
	return nil
}

func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# bproto project manifest
[package]
name = "%s"

[compile]
inputs = ["schemas"]
target = "rust"
output = "gen"
`, name)
}

func defaultSchema() string {
	return `package example;

// A starter message. Run "bproto compile" to generate code for it.
message Greeting {
	u32 id = 1;
	string text = 2;
}
`
}
