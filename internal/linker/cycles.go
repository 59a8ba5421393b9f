package linker

import (
	"fmt"
	"strings"

	"bproto/internal/diag"
	"bproto/internal/ir"
)

const (
	colorWhite = iota // unvisited
	colorGray         // on the DFS stack
	colorBlack        // done
)

// detectCycles runs a DFS over the declared import graph and reports
// every cycle once, including self-imports. Only imports that resolve
// to a known package become edges; unknown imports were already
// reported.
func (lk *linker) detectCycles() {
	color := make(map[string]int, len(lk.packages))
	var stack []string

	var visit func(pkg *ir.Package)
	visit = func(pkg *ir.Package) {
		color[pkg.Path] = colorGray
		stack = append(stack, pkg.Path)

		for _, imp := range pkg.Imports {
			next, known := lk.byPath[imp.Path]
			if !known {
				continue
			}
			switch color[next.Path] {
			case colorWhite:
				visit(next)
			case colorGray:
				lk.error(diag.SemaImportCycle, imp.Span,
					fmt.Sprintf("import cycle: %s", cycleString(stack, next.Path)))
			}
		}

		stack = stack[:len(stack)-1]
		color[pkg.Path] = colorBlack
	}

	for _, pkg := range lk.packages {
		if color[pkg.Path] == colorWhite {
			visit(pkg)
		}
	}
}

// cycleString renders the cycle portion of the DFS stack, closing the
// loop back to target: "a -> b -> a".
func cycleString(stack []string, target string) string {
	start := 0
	for i, p := range stack {
		if p == target {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(stack)-start+1)
	for _, p := range stack[start:] {
		parts = append(parts, displayPath(p))
	}
	parts = append(parts, displayPath(target))
	return strings.Join(parts, " -> ")
}
