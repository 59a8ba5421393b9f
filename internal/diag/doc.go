// Package diag collects and renders compiler diagnostics.
//
// Every phase (lex, parse, lower, link, generate) reports through the
// Reporter interface into a per-invocation Bag. Diagnostics carry a stable
// numeric Code, a primary span, optional secondary notes, and the phase
// that produced them. A compilation run owns exactly one Bag; nothing in
// this package is process-global.
package diag
