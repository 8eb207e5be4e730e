// File: parser.go
// Title: Recursive Descent Parser
// Description: Builds the AST from a token list. Every grammar production
//              records a diagnostic and keeps going when a mandatory token
//              is missing, so a tree is produced for any input. Post
//              increment and decrement statements are desugared into
//              assignments while parsing.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-13
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-13 v0.1.0: Initial parser implementation
// - 2026-10-16 v0.2.0: Statement-level recovery and contextual keywords

package parser

import (
	"fmt"

	"github.com/msto63/mIDE/internal/ast"
	"github.com/msto63/mIDE/internal/lexer"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
)

// Parser parses token lists. It holds configuration only and may be used
// from several goroutines at once.
type Parser struct {
	logger *midelog.Logger
}

// Options configures parser behavior
type Options struct {
	Logger *midelog.Logger
}

// New creates a new parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = midelog.GetDefault()
	}
	return &Parser{
		logger: opts.Logger.WithField("component", "parser"),
	}
}

// Parse parses tokens with a parser using the default logger
func Parse(tokens []lexer.Token) (*ast.Node, []string) {
	return New(Options{}).Parse(tokens)
}

// Parse builds the tree for tokens and returns it with the syntax
// diagnostics in the order they were found. The root is never nil.
func (p *Parser) Parse(tokens []lexer.Token) (*ast.Node, []string) {
	timer := p.logger.StartTimer("parse")

	s := newState(tokens)
	root := s.program()
	if tok := s.current(); tok != nil {
		s.errorf("unexpected token '%s' %s", tok.Lexeme, where(tok))
	}

	timer.WithField("tokens", len(s.tokens)).WithField("errors", len(s.errors)).Stop()
	if len(s.errors) > 0 {
		p.logger.Debug("syntax errors found", midelog.Fields{
			"count": len(s.errors),
			"first": s.errors[0],
		})
	}

	return root, s.errors
}

var (
	typeWords       = []string{"int", "float", "bool"}
	relationalOps   = map[string]bool{"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true}
	logicalOps      = map[string]bool{"&&": true, "||": true}
	additiveOps     = map[string]bool{"+": true, "-": true}
	multiplicOps    = map[string]bool{"*": true, "/": true, "%": true}
	contextualWords = map[string]bool{"then": true, "until": true, "bool": true, "true": true, "false": true}
)

// state is the working state of one Parse call
type state struct {
	tokens []lexer.Token
	pos    int
	errors []string
}

func newState(tokens []lexer.Token) *state {
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Category != lexer.TokenComment {
			filtered = append(filtered, tok)
		}
	}
	return &state{tokens: filtered, errors: make([]string, 0)}
}

func (s *state) current() *lexer.Token {
	if s.pos < len(s.tokens) {
		return &s.tokens[s.pos]
	}
	return nil
}

func (s *state) peek() *lexer.Token {
	if s.pos+1 < len(s.tokens) {
		return &s.tokens[s.pos+1]
	}
	return nil
}

func (s *state) advance() {
	s.pos++
}

func (s *state) errorf(format string, args ...interface{}) {
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func where(tok *lexer.Token) string {
	if tok == nil {
		return "at end of input"
	}
	return fmt.Sprintf("at line %d, col %d", tok.Line, tok.Column)
}

func (s *state) at(category lexer.TokenCategory, lexeme string) bool {
	tok := s.current()
	return tok != nil && tok.Is(category, lexeme)
}

// atWord matches identifier-shaped keywords regardless of how the lexer
// classified them.
func (s *state) atWord(word string) bool {
	tok := s.current()
	return tok != nil && tok.Lexeme == word &&
		(tok.Category == lexer.TokenReserved || tok.Category == lexer.TokenIdentifier)
}

func (s *state) atType() bool {
	for _, w := range typeWords {
		if s.atWord(w) {
			return true
		}
	}
	return false
}

// expect consumes the token if it matches, otherwise records a diagnostic
func (s *state) expect(category lexer.TokenCategory, lexeme string) bool {
	if s.at(category, lexeme) {
		s.advance()
		return true
	}
	s.errorf("expected '%s' %s", lexeme, where(s.current()))
	return false
}

func (s *state) expectWord(word string) bool {
	if s.atWord(word) {
		s.advance()
		return true
	}
	s.errorf("expected '%s' %s", word, where(s.current()))
	return false
}

func isName(tok *lexer.Token) bool {
	return tok != nil && tok.Category == lexer.TokenIdentifier && !contextualWords[tok.Lexeme]
}

func startsStatement(tok *lexer.Token) bool {
	if tok == nil {
		return false
	}
	if tok.Category == lexer.TokenReserved {
		switch tok.Lexeme {
		case "if", "while", "do", "cin", "cout":
			return true
		}
		return false
	}
	return isName(tok)
}

// closesList reports whether tok ends a nested statement list
func (s *state) closesList() bool {
	return s.at(lexer.TokenReserved, "end") ||
		s.at(lexer.TokenReserved, "else") ||
		s.atWord("until") ||
		s.at(lexer.TokenSymbol, "}")
}

// closesExpression reports whether tok can only follow an expression
func (s *state) closesExpression() bool {
	tok := s.current()
	if tok.Category == lexer.TokenSymbol {
		switch tok.Lexeme {
		case ";", ")", "}", ",":
			return true
		}
	}
	return s.atWord("then") || s.atWord("until") || s.atWord("end") || s.atWord("else")
}

func (s *state) program() *ast.Node {
	if len(s.tokens) == 0 {
		return ast.NewProgram(ast.NewDeclarationList())
	}

	s.expect(lexer.TokenReserved, "main")
	s.expect(lexer.TokenSymbol, "{")
	declarations := s.declarationList()
	s.expect(lexer.TokenSymbol, "}")

	return ast.NewProgram(declarations)
}

func (s *state) declarationList() *ast.Node {
	var items []*ast.Node
	for tok := s.current(); tok != nil && !tok.Is(lexer.TokenSymbol, "}"); tok = s.current() {
		switch {
		case s.atType():
			items = append(items, s.variableDeclaration())
		case startsStatement(tok):
			items = append(items, s.statement())
		default:
			s.skipInvalidStatement(tok)
		}
	}
	return ast.NewDeclarationList(items...)
}

func (s *state) statementList() *ast.Node {
	var items []*ast.Node
	for tok := s.current(); tok != nil && !s.closesList(); tok = s.current() {
		if startsStatement(tok) {
			items = append(items, s.statement())
		} else {
			s.skipInvalidStatement(tok)
		}
	}
	return ast.NewStatementList(items...)
}

func (s *state) skipInvalidStatement(tok *lexer.Token) {
	s.errorf("invalid statement '%s' %s", tok.Lexeme, where(tok))
	s.advance()
}

func (s *state) variableDeclaration() *ast.Node {
	typ := s.typ()

	var identifiers []*ast.Node
	if id := s.identifier("expected identifier"); id != nil {
		identifiers = append(identifiers, id)
		for s.at(lexer.TokenSymbol, ",") {
			s.advance()
			next := s.identifier("expected identifier after ','")
			if next == nil {
				break
			}
			identifiers = append(identifiers, next)
		}
	}
	s.expect(lexer.TokenSymbol, ";")

	return ast.NewVariableDeclaration(typ, identifiers...)
}

func (s *state) typ() *ast.Node {
	tok := s.current()
	if s.atType() {
		s.advance()
		return ast.NewType(tok.Lexeme, tok.Line, tok.Column)
	}
	if tok == nil {
		s.errorf("expected type %s", where(tok))
	} else {
		s.errorf("invalid type '%s' %s", tok.Lexeme, where(tok))
	}
	return ast.NewType(ast.UnknownType, 0, 0)
}

// identifier consumes a variable name or records message with the position
func (s *state) identifier(message string) *ast.Node {
	tok := s.current()
	if !isName(tok) {
		s.errorf("%s %s", message, where(tok))
		return nil
	}
	s.advance()
	return ast.NewIdentifier(tok.Lexeme, tok.Line, tok.Column)
}

// statement parses one statement; the current token satisfies startsStatement
func (s *state) statement() *ast.Node {
	tok := s.current()
	switch {
	case tok.Is(lexer.TokenReserved, "if"):
		return s.ifStatement()
	case tok.Is(lexer.TokenReserved, "while"):
		return s.whileStatement()
	case tok.Is(lexer.TokenReserved, "do"):
		return s.doUntilStatement()
	case tok.Is(lexer.TokenReserved, "cin"):
		return s.inputStatement()
	case tok.Is(lexer.TokenReserved, "cout"):
		return s.outputStatement()
	}

	if next := s.peek(); next != nil &&
		(next.Is(lexer.TokenArithmeticOp, "++") || next.Is(lexer.TokenArithmeticOp, "--")) {
		return s.postIncrement()
	}
	return s.assignment()
}

func (s *state) ifStatement() *ast.Node {
	s.advance()
	condition := s.expression()
	s.expectWord("then")
	then := s.statementList()

	var otherwise *ast.Node
	if s.at(lexer.TokenReserved, "else") {
		s.advance()
		otherwise = s.statementList()
	}
	s.expect(lexer.TokenReserved, "end")

	return ast.NewIf(condition, then, otherwise)
}

func (s *state) whileStatement() *ast.Node {
	s.advance()
	condition := s.expression()
	body := s.statementList()
	s.expect(lexer.TokenReserved, "end")

	return ast.NewWhile(condition, body)
}

func (s *state) doUntilStatement() *ast.Node {
	s.advance()
	body := s.statementList()
	s.expectWord("until")
	condition := s.expression()
	s.expect(lexer.TokenSymbol, ";")

	return ast.NewDoUntil(body, condition)
}

func (s *state) inputStatement() *ast.Node {
	s.advance()
	s.expect(lexer.TokenRelLogOp, ">")
	s.expect(lexer.TokenRelLogOp, ">")
	target := s.identifier("expected identifier")
	s.expect(lexer.TokenSymbol, ";")

	return ast.NewInput(target)
}

func (s *state) outputStatement() *ast.Node {
	s.advance()
	s.expect(lexer.TokenRelLogOp, "<")
	s.expect(lexer.TokenRelLogOp, "<")
	value := s.expression()
	if s.at(lexer.TokenSymbol, ";") {
		s.advance()
	}

	return ast.NewOutput(value)
}

// postIncrement builds x = x + 1 for x++ and x = x - 1 for x--
func (s *state) postIncrement() *ast.Node {
	name := *s.current()
	s.advance()
	op := *s.current()
	s.advance()
	s.expect(lexer.TokenSymbol, ";")

	binary := "+"
	if op.Lexeme == "--" {
		binary = "-"
	}

	return ast.NewAssignment(
		ast.NewIdentifier(name.Lexeme, name.Line, name.Column),
		ast.NewBinaryOp(binary, op.Line, op.Column,
			ast.NewIdentifier(name.Lexeme, name.Line, name.Column),
			ast.NewNumber("1", name.Line, name.Column),
		),
	)
}

func (s *state) assignment() *ast.Node {
	name := *s.current()
	s.advance()
	target := ast.NewIdentifier(name.Lexeme, name.Line, name.Column)

	s.expect(lexer.TokenAssignment, "=")
	var value *ast.Node
	if !s.at(lexer.TokenSymbol, ";") {
		value = s.expression()
	}
	s.expect(lexer.TokenSymbol, ";")

	return ast.NewAssignment(target, value)
}

// operator returns the current token when it is an operator of category
// contained in ops
func (s *state) operator(category lexer.TokenCategory, ops map[string]bool) *lexer.Token {
	tok := s.current()
	if tok != nil && tok.Category == category && ops[tok.Lexeme] {
		return tok
	}
	return nil
}

// expression allows one relational comparison followed by any number of
// logical operators
func (s *state) expression() *ast.Node {
	left := s.simpleExpression()

	if op := s.operator(lexer.TokenRelLogOp, relationalOps); op != nil {
		s.advance()
		right := s.simpleExpression()
		left = ast.NewBinaryOp(op.Lexeme, op.Line, op.Column, left, right)
	}

	for op := s.operator(lexer.TokenRelLogOp, logicalOps); op != nil; op = s.operator(lexer.TokenRelLogOp, logicalOps) {
		s.advance()
		right := s.simpleExpression()
		left = ast.NewBinaryOp(op.Lexeme, op.Line, op.Column, left, right)
	}

	return left
}

func (s *state) simpleExpression() *ast.Node {
	left := s.term()
	for op := s.operator(lexer.TokenArithmeticOp, additiveOps); op != nil; op = s.operator(lexer.TokenArithmeticOp, additiveOps) {
		s.advance()
		right := s.term()
		left = ast.NewBinaryOp(op.Lexeme, op.Line, op.Column, left, right)
	}
	return left
}

func (s *state) term() *ast.Node {
	left := s.factor()
	for op := s.operator(lexer.TokenArithmeticOp, multiplicOps); op != nil; op = s.operator(lexer.TokenArithmeticOp, multiplicOps) {
		s.advance()
		right := s.factor()
		left = ast.NewBinaryOp(op.Lexeme, op.Line, op.Column, left, right)
	}
	return left
}

// factor binds a single '^' pair
func (s *state) factor() *ast.Node {
	left := s.component()
	if tok := s.current(); tok != nil && tok.Is(lexer.TokenArithmeticOp, "^") {
		op := *tok
		s.advance()
		right := s.component()
		left = ast.NewBinaryOp(op.Lexeme, op.Line, op.Column, left, right)
	}
	return left
}

func (s *state) component() *ast.Node {
	tok := s.current()
	switch {
	case tok == nil:
		// reported by the enclosing production's next expectation
		return nil

	case tok.Is(lexer.TokenSymbol, "("):
		s.advance()
		inner := s.expression()
		s.expect(lexer.TokenSymbol, ")")
		return inner

	case tok.Category == lexer.TokenInteger || tok.Category == lexer.TokenDecimal:
		s.advance()
		return ast.NewNumber(tok.Lexeme, tok.Line, tok.Column)

	case s.atWord("true") || s.atWord("false"):
		s.advance()
		return ast.NewBoolean(tok.Lexeme, tok.Line, tok.Column)

	case isName(tok):
		s.advance()
		return ast.NewIdentifier(tok.Lexeme, tok.Line, tok.Column)

	case tok.Is(lexer.TokenRelLogOp, "!"):
		op := *tok
		s.advance()
		return ast.NewUnaryOp(op.Lexeme, op.Line, op.Column, s.component())

	case s.closesExpression():
		s.errorf("expected expression %s", where(tok))
		return nil

	default:
		s.errorf("invalid component '%s' %s", tok.Lexeme, where(tok))
		s.advance()
		return nil
	}
}
