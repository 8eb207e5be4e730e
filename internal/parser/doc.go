// File: doc.go
// Title: Parser Package Documentation
// Description: Recursive descent parser for the mIDE teaching language.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-13
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-13 v0.1.0: Initial parser implementation
// - 2026-10-16 v0.2.0: Statement-level recovery and contextual keywords

/*
Package parser builds an AST from the token list produced by the lexer.

Grammar:

	program       := 'main' '{' decl_list '}'
	decl_list     := declaration*
	declaration   := var_decl | statement
	var_decl      := type id (',' id)* ';'
	type          := 'int' | 'float' | 'bool'
	stmt_list     := statement*
	statement     := if_stmt | while_stmt | do_until_stmt | input_stmt
	               | output_stmt | post_incr | assignment
	if_stmt       := 'if' expr 'then' stmt_list ('else' stmt_list)? 'end'
	while_stmt    := 'while' expr stmt_list 'end'
	do_until_stmt := 'do' stmt_list 'until' expr ';'
	input_stmt    := 'cin' '>' '>' id ';'
	output_stmt   := 'cout' '<' '<' expr ';'?
	post_incr     := id ('++' | '--') ';'
	assignment    := id '=' expr? ';'
	expr          := simple_expr (rel_op simple_expr)? (logic_op simple_expr)*
	simple_expr   := term (('+'|'-') term)*
	term          := factor (('*'|'/'|'%') factor)*
	factor        := component ('^' component)?
	component     := '(' expr ')' | NUMBER | id | 'true' | 'false' | '!' component

An expression holds at most one relational comparison, and '^' binds a
single pair: in a^b^c the trailing ^c is left unconsumed.

Post-increment and post-decrement never reach the tree. x++; is built as
the assignment x = x + 1; and x--; as x = x - 1;.

The words then, until, bool, true and false are not in the lexer's reserved
set. The parser recognizes them by lexeme and never treats them as variable
names.

Parsing never fails. Problems are collected as diagnostic strings in the
order they are found and the parser keeps going with a best-effort tree.
The returned root is always a Program node.
*/
package parser
