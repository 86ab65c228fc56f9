// Package token defines the lexical vocabulary of textual IR.
package token
