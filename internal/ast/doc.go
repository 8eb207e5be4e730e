// File: doc.go
// Title: AST Package Documentation
// Description: Abstract syntax tree for the mIDE teaching language.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-12
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-12 v0.1.0: Initial AST package
// - 2026-10-16 v0.2.0: Text, JSON and YAML printers

/*
Package ast defines the syntax tree produced by the parser.

The tree is built from a single tagged node type. Every Node carries a Kind
discriminant, an optional scalar Value, an optional source position and an
ordered list of children:

	Program             [DeclarationList]
	DeclarationList     zero or more declarations or statements
	VariableDeclaration [Type, Identifier+]
	Type                value "int", "float", "bool" or "unknown"
	Identifier          value is the name
	StatementList       zero or more statements
	Assignment          [Identifier, Expression?]
	If                  [Expression, StatementList, StatementList?]
	While               [Expression, StatementList]
	DoUntil             [StatementList, Expression]
	Input               [Identifier]
	Output              [Expression]
	BinaryOp            value is the operator, [left, right]
	UnaryOp             value is the operator, [operand]
	Number              value is the literal text
	Boolean             value "true" or "false"

Positions are present on leaf-derived nodes only. Aggregate nodes such as
Program or StatementList report Line 0.

Nodes are created through the New* constructors and are not modified
afterwards. Walk traverses a tree; Fprint, FprintJSON and FprintYAML render
it for the command line, the inspector and the websocket endpoint.
*/
package ast
