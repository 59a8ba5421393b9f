// Package token defines the lexical vocabulary of the bproto schema
// language: token kinds, the Token value produced by the lexer, and the
// keyword table.
package token
