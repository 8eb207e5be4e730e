// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     frontend
// Description: Analysis pipeline running the lexer and the parser
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package frontend

import (
	"fmt"
	"time"

	"github.com/msto63/mIDE/internal/ast"
	"github.com/msto63/mIDE/internal/lexer"
	"github.com/msto63/mIDE/internal/parser"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
)

// Result holds everything one analysis produced
type Result struct {
	Tokens        []lexer.Token
	LexicalErrors []lexer.LexicalError
	Tree          *ast.Node
	SyntaxErrors  []string
	Duration      time.Duration
}

// HasErrors reports whether any diagnostic was produced
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of lexical and syntax diagnostics
func (r *Result) ErrorCount() int {
	return len(r.LexicalErrors) + len(r.SyntaxErrors)
}

// Summary returns a one-line description of the result
func (r *Result) Summary() string {
	return fmt.Sprintf("%d tokens, %d lexical errors, %d syntax errors, %d AST nodes",
		len(r.Tokens), len(r.LexicalErrors), len(r.SyntaxErrors), ast.Count(r.Tree))
}

// Analyzer runs the front-end over complete sources
type Analyzer struct {
	parser *parser.Parser
	logger *midelog.Logger
}

// NewAnalyzer creates an analyzer; a nil logger selects the default logger
func NewAnalyzer(logger *midelog.Logger) *Analyzer {
	if logger == nil {
		logger = midelog.GetDefault()
	}
	return &Analyzer{
		parser: parser.New(parser.Options{Logger: logger}),
		logger: logger.WithField("component", "analyzer"),
	}
}

// Analyze tokenizes and parses source
func (a *Analyzer) Analyze(source string) *Result {
	start := time.Now()

	timer := a.logger.StartTimer("tokenize").WithField("bytes", len(source))
	tokens, lexErrs := lexer.Tokenize(source)
	timer.WithField("tokens", len(tokens)).Stop()

	tree, syntaxErrs := a.parser.Parse(tokens)

	result := &Result{
		Tokens:        tokens,
		LexicalErrors: lexErrs,
		Tree:          tree,
		SyntaxErrors:  syntaxErrs,
		Duration:      time.Since(start),
	}

	a.logger.Debug("analysis finished", midelog.Fields{
		"tokens":         len(tokens),
		"lexical_errors": len(lexErrs),
		"syntax_errors":  len(syntaxErrs),
		"duration":       result.Duration.String(),
	})
	return result
}
