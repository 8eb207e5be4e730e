// File: lexer.go
// Title: Lexical Analyzer
// Description: Converts program text into positioned tokens plus lexical
//              diagnostics. Block comments are extracted in a first pass so
//              their embedded newlines cannot confuse the line-oriented
//              pattern scan that handles everything else.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-12
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-12 v0.1.0: Initial lexer implementation
// - 2026-10-15 v0.2.0: Ordered pattern table with resolver entries

package lexer

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// pattern is one entry of the ordered pattern table. An entry either has a
// fixed category or a resolver that picks the category from the lexeme.
type pattern struct {
	re       *regexp.Regexp
	category TokenCategory
	resolve  func(lexeme string) TokenCategory
	skip     bool // whitespace and newlines produce no token
}

// blockComment matches /* ... */ non-greedily across lines
var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

// reservedWords is the fixed keyword set. then, until, bool, true and false
// are left to the parser.
var reservedWords = map[string]struct{}{
	"if": {}, "else": {}, "end": {}, "do": {}, "while": {}, "switch": {},
	"case": {}, "int": {}, "float": {}, "main": {}, "cin": {}, "cout": {},
}

// patterns is tried in order at every position; the first match wins.
// Compound operators precede their one-character prefixes and decimals
// precede integers.
var patterns = []pattern{
	// \r is skipped so CRLF files scan cleanly.
	{re: regexp.MustCompile(`^[ \t\r]+`), skip: true},
	{re: regexp.MustCompile(`^\n`), skip: true},
	{re: regexp.MustCompile(`^//[^\n]*`), category: TokenComment},

	{re: regexp.MustCompile(`^\+\+`), category: TokenArithmeticOp},
	{re: regexp.MustCompile(`^--`), category: TokenArithmeticOp},
	{re: regexp.MustCompile(`^[+\-*/%^]`), category: TokenArithmeticOp},

	{re: regexp.MustCompile(`^[0-9]+\.[0-9]+`), category: TokenDecimal},
	// Only reached when no digit follows the dot.
	{re: regexp.MustCompile(`^[0-9]+\.`), category: tokenError},
	{re: regexp.MustCompile(`^[0-9]+`), category: TokenInteger},

	{re: regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*`), resolve: identOrReserved},

	{re: regexp.MustCompile(`^(<=|>=|==|!=|<|>)`), category: TokenRelLogOp},
	{re: regexp.MustCompile(`^(&&|\|\|)`), category: TokenRelLogOp},
	{re: regexp.MustCompile(`^[(){},;]`), category: TokenSymbol},
	{re: regexp.MustCompile(`^=`), category: TokenAssignment},
}

// scanner holds the working state of a single Tokenize call
type scanner struct {
	tokens []Token
	errors []LexicalError
	line   int
	column int
}

// Tokenize converts source into tokens and lexical diagnostics. It never
// fails: every character ends up in a token, a diagnostic or skipped
// whitespace.
func Tokenize(source string) ([]Token, []LexicalError) {
	s := &scanner{
		tokens: make([]Token, 0),
		errors: make([]LexicalError, 0),
		line:   1,
		column: 1,
	}

	pos := 0
	for _, loc := range blockComment.FindAllStringIndex(source, -1) {
		s.scan(source[pos:loc[0]])

		comment := source[loc[0]:loc[1]]
		s.tokens = append(s.tokens, Token{
			Category: TokenComment,
			Lexeme:   comment,
			Line:     s.line,
			Column:   s.column,
		})
		s.advance(comment)
		pos = loc[1]
	}
	s.scan(source[pos:])

	return s.tokens, s.errors
}

// scan tokenizes a stretch of text that contains no block comments
func (s *scanner) scan(text string) {
	for pos := 0; pos < len(text); {
		pos += s.next(text[pos:])
	}
}

// next consumes one lexeme at the start of rest and returns its byte length,
// which is always at least one.
func (s *scanner) next(rest string) int {
	for _, p := range patterns {
		loc := p.re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		lexeme := rest[:loc[1]]

		if !p.skip {
			category := p.category
			if p.resolve != nil {
				category = p.resolve(lexeme)
			}
			if category == tokenError {
				s.errors = append(s.errors, LexicalError{
					Lexeme:  lexeme,
					Line:    s.line,
					Column:  s.column,
					Message: MsgInvalidDecimal,
				})
			} else {
				s.tokens = append(s.tokens, Token{
					Category: category,
					Lexeme:   lexeme,
					Line:     s.line,
					Column:   s.column,
				})
			}
		}

		s.advance(lexeme)
		return len(lexeme)
	}

	// Nothing matched: report exactly one character and resynchronize.
	_, size := utf8.DecodeRuneInString(rest)
	s.errors = append(s.errors, LexicalError{
		Lexeme:  rest[:size],
		Line:    s.line,
		Column:  s.column,
		Message: MsgUnrecognized,
	})
	s.column++
	return size
}

// advance moves the line/column counters past text
func (s *scanner) advance(text string) {
	if n := strings.Count(text, "\n"); n > 0 {
		s.line += n
		s.column = utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:]) + 1
		return
	}
	s.column += utf8.RuneCountInString(text)
}

// identOrReserved resolves identifier-shaped lexemes
func identOrReserved(lexeme string) TokenCategory {
	if IsReserved(lexeme) {
		return TokenReserved
	}
	return TokenIdentifier
}

// IsReserved reports whether word belongs to the reserved-word set
func IsReserved(word string) bool {
	_, ok := reservedWords[word]
	return ok
}

// ReservedWords returns the reserved-word set in sorted order
func ReservedWords() []string {
	words := make([]string, 0, len(reservedWords))
	for w := range reservedWords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
