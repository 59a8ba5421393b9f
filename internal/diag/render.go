package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bproto/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	gutterColor  = color.New(color.FgBlue)
)

// RenderOptions controls human-readable diagnostic output.
type RenderOptions struct {
	Color    bool
	PathMode string // "relative", "absolute", "basename"
}

// Render produces a caret-annotated excerpt for one diagnostic:
// severity header, source line, column marker, and secondary notes.
func Render(d Diagnostic, fs *source.FileSet, opts RenderOptions) string {
	var b strings.Builder

	sev := d.Severity.String()
	header := fmt.Sprintf("%s[%s] %s", strings.ToLower(sev), d.Code.ID(), d.Message)
	if opts.Color {
		header = severityColor(d.Severity).Sprintf("%s[%s]", strings.ToLower(sev), d.Code.ID()) + " " + d.Message
	}
	b.WriteString(header)
	b.WriteByte('\n')

	writeExcerpt(&b, d.Primary, fs, opts, "^")
	for _, note := range d.Notes {
		b.WriteString("  note: ")
		b.WriteString(note.Msg)
		b.WriteByte('\n')
		if note.Span != (source.Span{}) {
			writeExcerpt(&b, note.Span, fs, opts, "-")
		}
	}
	fmt.Fprintf(&b, "  phase: %s\n", d.Phase)
	return b.String()
}

// RenderAll renders a sorted bag into printable blocks, one per diagnostic.
func RenderAll(bag *Bag, fs *source.FileSet, opts RenderOptions) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, Render(d, fs, opts))
	}
	return out
}

func severityColor(sev Severity) *color.Color {
	switch sev {
	case SevError:
		return errorColor
	case SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func writeExcerpt(b *strings.Builder, span source.Span, fs *source.FileSet, opts RenderOptions, marker string) {
	if fs == nil {
		return
	}
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)

	pathMode := opts.PathMode
	if pathMode == "" {
		pathMode = "relative"
	}
	loc := fmt.Sprintf("  --> %s:%d:%d", file.FormatPath(pathMode, fs.BaseDir()), start.Line, start.Col)
	b.WriteString(loc)
	b.WriteByte('\n')

	line := file.GetLine(start.Line)
	gutter := fmt.Sprintf("%4d | ", start.Line)
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
	}
	b.WriteString(gutter)
	b.WriteString(line)
	b.WriteByte('\n')

	// Column math respects rune display width so carets line up under
	// wide characters and tabs.
	prefix := line
	if int(start.Col-1) <= len(line) {
		prefix = line[:start.Col-1]
	}
	pad := runewidth.StringWidth(expandTabs(prefix))

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		seg := line
		if int(end.Col-1) <= len(line) {
			seg = line[start.Col-1 : end.Col-1]
		}
		if w := runewidth.StringWidth(expandTabs(seg)); w > 0 {
			width = w
		}
	}

	b.WriteString("     | ")
	b.WriteString(strings.Repeat(" ", pad))
	caret := strings.Repeat(marker, width)
	if opts.Color {
		caret = errorColor.Sprint(caret)
	}
	b.WriteString(caret)
	b.WriteByte('\n')
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
