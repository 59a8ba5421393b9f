package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"bproto/internal/codegen"
	"bproto/internal/diag"
	"bproto/internal/driver"
	"bproto/internal/project"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [paths...]",
	Short: "Compile schema files into target-language types",
	Long: `Compile parses, checks and links every schema file found under the given
paths (or under the bproto.toml inputs when no path is given), then emits
code for the selected target. Without a target the schemas are only checked.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().Bool("rust", false, "emit Rust types")
	compileCmd.Flags().Bool("gdscript", false, "emit GDScript types")
	compileCmd.Flags().String("target", "", "target backend (rust|gdscript)")
	compileCmd.Flags().StringP("output", "o", "", "output directory for generated files")
	compileCmd.Flags().StringArrayP("import-dir", "I", nil, "extra directory searched for imported schemas")
	compileCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	compileCmd.Flags().Bool("no-cache", false, "bypass the compiled-schema disk cache")
	compileCmd.Flags().Int("jobs", 0, "parse parallelism (0 = number of CPUs)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	target, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	importDirs, err := cmd.Flags().GetStringArray("import-dir")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	manifest, manifestFound, err := project.LoadNearest(".")
	if err != nil {
		return err
	}

	roots := args
	baseDir := ""
	if manifestFound {
		baseDir = manifest.Root
		if len(roots) == 0 {
			roots = manifest.InputRoots()
		}
		importDirs = append(importDirs, manifest.ImportRoots()...)
		if target == "" {
			target = manifest.Config.Compile.Target
		}
		if outputDir == "" {
			outputDir = manifest.Config.Compile.Output
			if outputDir != "" && !filepath.IsAbs(outputDir) {
				outputDir = filepath.Join(manifest.Root, outputDir)
			}
		}
	}
	if len(roots) == 0 {
		return fmt.Errorf("no input paths given and no bproto.toml found")
	}

	paths, err := project.Discover(append(roots, importDirs...)...)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", project.SchemaExt)
	}
	display, contents, err := project.ReadAll(baseDir, paths)
	if err != nil {
		return err
	}
	inputs := make([]driver.Input, len(paths))
	for i := range paths {
		inputs[i] = driver.Input{Path: display[i], Content: contents[i]}
	}

	opts := driver.Options{
		Target:         target,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if target != "" && !noCache {
		if cache, cacheErr := driver.OpenDiskCache("bproto"); cacheErr == nil {
			opts.Cache = cache
		}
	}

	var res *driver.Result
	if shouldUseTUI(uiValue) && len(inputs) > 0 {
		res, err = runCompileWithUI(cmd.Context(), "bproto compile", display, inputs, opts)
	} else {
		res, err = driver.Compile(cmd.Context(), inputs, opts)
	}
	if err != nil {
		return err
	}

	printDiagnostics(cmd, res)
	if !res.Ok {
		return fmt.Errorf("compilation failed")
	}

	// Outputs are written from the result map rather than through a
	// sink so cache hits land on disk too.
	if target != "" && outputDir != "" {
		if err := writeOutputs(outputDir, res.Outputs); err != nil {
			return err
		}
	}

	if !quiet {
		switch {
		case target == "":
			fmt.Fprintf(os.Stdout, "checked %d file(s)\n", len(inputs))
		case outputDir != "":
			fmt.Fprintf(os.Stdout, "generated %d file(s) in %s\n", len(res.Outputs), outputDir)
		default:
			fmt.Fprintf(os.Stdout, "generated %d file(s)\n", len(res.Outputs))
		}
	}
	return nil
}

func writeOutputs(dir string, outputs map[string][]byte) error {
	sink := codegen.NewFileSink(dir)
	defer sink.Close()
	paths := make([]string, 0, len(outputs))
	for p := range outputs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := sink.Put(p, outputs[p]); err != nil {
			return err
		}
	}
	return nil
}

func resolveTarget(cmd *cobra.Command) (string, error) {
	rust, err := cmd.Flags().GetBool("rust")
	if err != nil {
		return "", err
	}
	gdscript, err := cmd.Flags().GetBool("gdscript")
	if err != nil {
		return "", err
	}
	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return "", err
	}
	if rust && gdscript {
		return "", fmt.Errorf("--rust and --gdscript are mutually exclusive")
	}
	switch {
	case rust:
		if target != "" && target != "rust" {
			return "", fmt.Errorf("--rust conflicts with --target=%s", target)
		}
		return "rust", nil
	case gdscript:
		if target != "" && target != "gdscript" {
			return "", fmt.Errorf("--gdscript conflicts with --target=%s", target)
		}
		return "gdscript", nil
	}
	return target, nil
}

func printDiagnostics(cmd *cobra.Command, res *driver.Result) {
	if len(res.Diagnostics) == 0 {
		return
	}
	opts := diag.RenderOptions{Color: useColor(cmd, os.Stderr)}
	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, diag.Render(d, res.FileSet, opts))
	}
}

func shouldUseTUI(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
