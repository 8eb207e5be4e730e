// File: token.go
// Title: Token and Diagnostic Definitions
// Description: Defines the token categories, the positioned Token value and
//              the LexicalError diagnostic produced by the lexer. Provides
//              string forms for result panes and the plain-text token dump.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-12
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-12 v0.1.0: Initial token definitions
// - 2026-10-16 v0.2.0: Token dump writer, JSON encoding

package lexer

import (
	"bufio"
	"fmt"
	"io"
)

// TokenCategory classifies a token
type TokenCategory int

const (
	// tokenError only lives inside the pattern table; it is converted to a
	// LexicalError before anything is returned.
	tokenError TokenCategory = iota

	TokenInteger    // 42
	TokenDecimal    // 3.14
	TokenIdentifier // counter
	TokenComment    // // line, /* block */
	TokenReserved   // if, while, int, ...
	TokenArithmeticOp
	TokenRelLogOp // < <= > >= == != && ||
	TokenSymbol   // ( ) { } , ;
	TokenAssignment
)

// Categories lists every category that can appear in a token list
var Categories = []TokenCategory{
	TokenInteger,
	TokenDecimal,
	TokenIdentifier,
	TokenComment,
	TokenReserved,
	TokenArithmeticOp,
	TokenRelLogOp,
	TokenSymbol,
	TokenAssignment,
}

// String returns the dump name of the category
func (c TokenCategory) String() string {
	switch c {
	case TokenInteger:
		return "INTEGER"
	case TokenDecimal:
		return "DECIMAL"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenComment:
		return "COMMENT"
	case TokenReserved:
		return "RESERVED"
	case TokenArithmeticOp:
		return "ARITHMETIC_OP"
	case TokenRelLogOp:
		return "REL_LOG_OP"
	case TokenSymbol:
		return "SYMBOL"
	case TokenAssignment:
		return "ASSIGNMENT"
	case tokenError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the category by name
func (c TokenCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name
func (c *TokenCategory) UnmarshalText(text []byte) error {
	for _, candidate := range Categories {
		if candidate.String() == string(text) {
			*c = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown token category %q", text)
}

// Token is a classified, positioned piece of source text
type Token struct {
	Category TokenCategory `json:"category"` // Token category
	Lexeme   string        `json:"lexeme"`   // Matched text
	Line     int           `json:"line"`     // Line number (1-based)
	Column   int           `json:"column"`   // Column number (1-based, in characters)
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("Token(%s, '%s', line=%d, col=%d)", t.Category, t.Lexeme, t.Line, t.Column)
}

// Is reports whether the token has the given category and lexeme
func (t Token) Is(category TokenCategory, lexeme string) bool {
	return t.Category == category && t.Lexeme == lexeme
}

// Lexical error messages
const (
	MsgInvalidDecimal = "invalid decimal number"
	MsgUnrecognized   = "unrecognized character"
)

// LexicalError is a lexical diagnostic. It never aborts scanning.
type LexicalError struct {
	Lexeme  string `json:"lexeme"`  // Offending text
	Line    int    `json:"line"`    // Line number (1-based)
	Column  int    `json:"column"`  // Column number (1-based)
	Message string `json:"message"` // MsgInvalidDecimal or MsgUnrecognized
}

// String returns a string representation of the diagnostic
func (e LexicalError) String() string {
	return fmt.Sprintf("error: %s '%s' at line %d, column %d", e.Message, e.Lexeme, e.Line, e.Column)
}

// WriteDump writes one token per line as "category lexeme line column"
func WriteDump(w io.Writer, tokens []Token) error {
	bw := bufio.NewWriter(w)
	for _, tok := range tokens {
		if _, err := fmt.Fprintf(bw, "%s %s %d %d\n", tok.Category, tok.Lexeme, tok.Line, tok.Column); err != nil {
			return err
		}
	}
	return bw.Flush()
}
