package codegen

import (
	"bytes"
	"fmt"
	"strings"
)

// CodeWriter builds one output file. It tracks indentation and knows
// the target's line comment leader so backends can emit doc comments
// without repeating the syntax everywhere.
type CodeWriter struct {
	buf       bytes.Buffer
	depth     int
	indentStr string
	comment   string
}

// NewCodeWriter creates a writer using indentStr per nesting level
// ("\t", "  ") and comment as the line comment leader ("//", "##").
func NewCodeWriter(indentStr, comment string) *CodeWriter {
	return &CodeWriter{indentStr: indentStr, comment: comment}
}

// In increases the indentation level.
func (w *CodeWriter) In() { w.depth++ }

// Out decreases the indentation level.
func (w *CodeWriter) Out() {
	if w.depth > 0 {
		w.depth--
	}
}

// Line writes one indented line.
func (w *CodeWriter) Line(format string, args ...any) {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString(w.indentStr)
	}
	if len(args) == 0 {
		w.buf.WriteString(format)
	} else {
		fmt.Fprintf(&w.buf, format, args...)
	}
	w.buf.WriteByte('\n')
}

// Blank writes an empty line.
func (w *CodeWriter) Blank() {
	w.buf.WriteByte('\n')
}

// Comment writes each line as a line comment at the current level.
func (w *CodeWriter) Comment(lines ...string) {
	for _, line := range lines {
		for _, part := range strings.Split(line, "\n") {
			if part == "" {
				w.Line(w.comment)
				continue
			}
			w.Line(w.comment + " " + part)
		}
	}
}

// Len reports the number of bytes written so far.
func (w *CodeWriter) Len() int { return w.buf.Len() }

// Bytes returns the accumulated file content.
func (w *CodeWriter) Bytes() []byte { return w.buf.Bytes() }
