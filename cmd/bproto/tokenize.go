package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bproto/internal/diag"
	"bproto/internal/driver"
	"bproto/internal/source"
	"bproto/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.bproto",
	Short: "Tokenize a schema file",
	Long:  "Tokenize breaks a schema file into its constituent tokens, for debugging the lexer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", filePath, err)
	}
	result := driver.Tokenize(filePath, content, maxDiagnostics)

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		opts := diag.RenderOptions{Color: useColor(cmd, os.Stderr)}
		for _, block := range diag.RenderAll(result.Bag, result.FileSet, opts) {
			fmt.Fprintln(os.Stderr, block)
		}
	}

	switch format {
	case "pretty":
		printTokensPretty(result.Tokens, result.FileSet)
		return nil
	case "json":
		return printTokensJSON(result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func printTokensPretty(tokens []token.Token, fs *source.FileSet) {
	for _, tok := range tokens {
		start, _ := fs.Resolve(tok.Span)
		if tok.Text == "" {
			fmt.Fprintf(os.Stdout, "%4d:%-3d %s\n", start.Line, start.Col, tok.Kind)
			continue
		}
		fmt.Fprintf(os.Stdout, "%4d:%-3d %-12s %q\n", start.Line, start.Col, tok.Kind, tok.Text)
	}
}

type tokenPayload struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

func printTokensJSON(tokens []token.Token, fs *source.FileSet) error {
	payload := make([]tokenPayload, 0, len(tokens))
	for _, tok := range tokens {
		start, _ := fs.Resolve(tok.Span)
		payload = append(payload, tokenPayload{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Line: start.Line,
			Col:  start.Col,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
