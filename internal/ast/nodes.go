// File: nodes.go
// Title: AST Node Definitions
// Description: Defines the tagged AST node type, its kinds and the
//              constructors used by the parser. Constructors drop nil
//              children so partially parsed constructs stay well formed.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-12
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-12 v0.1.0: Initial node definitions
// - 2026-10-16 v0.2.0: Equality and counting helpers

package ast

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a node
type Kind int

const (
	KindProgram Kind = iota
	KindDeclarationList
	KindVariableDeclaration
	KindType
	KindIdentifier
	KindStatementList
	KindAssignment
	KindIf
	KindWhile
	KindDoUntil
	KindInput
	KindOutput
	KindBinaryOp
	KindUnaryOp
	KindNumber
	KindBoolean
)

var kindNames = [...]string{
	KindProgram:             "Program",
	KindDeclarationList:     "DeclarationList",
	KindVariableDeclaration: "VariableDeclaration",
	KindType:                "Type",
	KindIdentifier:          "Identifier",
	KindStatementList:       "StatementList",
	KindAssignment:          "Assignment",
	KindIf:                  "If",
	KindWhile:               "While",
	KindDoUntil:             "DoUntil",
	KindInput:               "Input",
	KindOutput:              "Output",
	KindBinaryOp:            "BinaryOp",
	KindUnaryOp:             "UnaryOp",
	KindNumber:              "Number",
	KindBoolean:             "Boolean",
}

// String returns the kind name
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// UnknownType is the Type value used when no valid type keyword was found
const UnknownType = "unknown"

// Node is a single AST node
type Node struct {
	Kind     Kind    // Variant tag
	Value    string  // Scalar payload, empty for aggregate nodes
	Line     int     // Line number (1-based), 0 when the node has no position
	Column   int     // Column number (1-based)
	Children []*Node // Ordered children
}

// HasPosition reports whether the node carries a source position
func (n *Node) HasPosition() bool {
	return n != nil && n.Line > 0
}

// Child returns the i-th child or nil when it does not exist
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// String returns a compact one-line representation of the subtree
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	n.writeCompact(&sb)
	return sb.String()
}

func (n *Node) writeCompact(sb *strings.Builder) {
	sb.WriteString(n.Kind.String())
	if n.Value == "" && len(n.Children) == 0 {
		return
	}
	sb.WriteByte('(')
	parts := 0
	if n.Value != "" {
		fmt.Fprintf(sb, "%q", n.Value)
		parts++
	}
	for _, c := range n.Children {
		if parts > 0 {
			sb.WriteString(", ")
		}
		c.writeCompact(sb)
		parts++
	}
	sb.WriteByte(')')
}

func newNode(kind Kind, value string, line, column int, children ...*Node) *Node {
	n := &Node{Kind: kind, Value: value, Line: line, Column: column}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// NewProgram creates the root node
func NewProgram(declarations *Node) *Node {
	return newNode(KindProgram, "", 0, 0, declarations)
}

// NewDeclarationList creates the top-level list of declarations and statements
func NewDeclarationList(items ...*Node) *Node {
	return newNode(KindDeclarationList, "", 0, 0, items...)
}

// NewVariableDeclaration creates a declaration of one or more identifiers
func NewVariableDeclaration(typ *Node, identifiers ...*Node) *Node {
	return newNode(KindVariableDeclaration, "", 0, 0, append([]*Node{typ}, identifiers...)...)
}

// NewType creates a type node
func NewType(name string, line, column int) *Node {
	return newNode(KindType, name, line, column)
}

// NewIdentifier creates an identifier node
func NewIdentifier(name string, line, column int) *Node {
	return newNode(KindIdentifier, name, line, column)
}

// NewStatementList creates a nested statement list
func NewStatementList(statements ...*Node) *Node {
	return newNode(KindStatementList, "", 0, 0, statements...)
}

// NewAssignment creates an assignment; value may be nil
func NewAssignment(target, value *Node) *Node {
	return newNode(KindAssignment, "", 0, 0, target, value)
}

// NewIf creates a conditional; otherwise may be nil. Nil arguments are
// dropped, so a missing condition makes Child(0) the then-branch. Inspect
// child kinds rather than indexing by role.
func NewIf(condition, then, otherwise *Node) *Node {
	return newNode(KindIf, "", 0, 0, condition, then, otherwise)
}

// NewWhile creates a pre-tested loop
func NewWhile(condition, body *Node) *Node {
	return newNode(KindWhile, "", 0, 0, condition, body)
}

// NewDoUntil creates a post-tested loop
func NewDoUntil(body, condition *Node) *Node {
	return newNode(KindDoUntil, "", 0, 0, body, condition)
}

// NewInput creates a cin statement
func NewInput(target *Node) *Node {
	return newNode(KindInput, "", 0, 0, target)
}

// NewOutput creates a cout statement
func NewOutput(value *Node) *Node {
	return newNode(KindOutput, "", 0, 0, value)
}

// NewBinaryOp creates a binary operation positioned at its operator. A nil
// operand is dropped, leaving a single-child node.
func NewBinaryOp(op string, line, column int, left, right *Node) *Node {
	return newNode(KindBinaryOp, op, line, column, left, right)
}

// NewUnaryOp creates a prefix operation positioned at its operator
func NewUnaryOp(op string, line, column int, operand *Node) *Node {
	return newNode(KindUnaryOp, op, line, column, operand)
}

// NewNumber creates a numeric literal
func NewNumber(text string, line, column int) *Node {
	return newNode(KindNumber, text, line, column)
}

// NewBoolean creates a boolean literal
func NewBoolean(value string, line, column int) *Node {
	return newNode(KindBoolean, value, line, column)
}

// Equal reports whether two trees have the same shape and values.
// Positions are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Value != b.Value || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree rooted at n
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}
