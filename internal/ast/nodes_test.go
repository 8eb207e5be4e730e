// File: nodes_test.go
// Title: AST Unit Tests
// Description: Tests for node construction, equality, traversal and the
//              text, JSON and YAML printers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial test suite

package ast

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// sample builds: int a; a = 5 + 3 * 2;
func sample() *Node {
	return NewProgram(NewDeclarationList(
		NewVariableDeclaration(NewType("int", 1, 8), NewIdentifier("a", 1, 12)),
		NewAssignment(
			NewIdentifier("a", 1, 15),
			NewBinaryOp("+", 1, 21,
				NewNumber("5", 1, 19),
				NewBinaryOp("*", 1, 25, NewNumber("3", 1, 23), NewNumber("2", 1, 27)),
			),
		),
	))
}

func TestConstructors_DropNilChildren(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		expected int
	}{
		{"Assignment without value", NewAssignment(NewIdentifier("x", 1, 1), nil), 1},
		{"If without else", NewIf(NewBoolean("true", 1, 4), NewStatementList(), nil), 2},
		{"If with else", NewIf(NewBoolean("true", 1, 4), NewStatementList(), NewStatementList()), 3},
		{"Declaration without identifiers", NewVariableDeclaration(NewType(UnknownType, 1, 1)), 1},
		{"Binary with missing operand", NewBinaryOp("+", 1, 3, NewNumber("1", 1, 1), nil), 1},
		{"If without condition", NewIf(nil, NewStatementList(), nil), 1},
		{"Empty program", NewProgram(NewDeclarationList()), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.node.Children); got != tt.expected {
				t.Errorf("Expected %d children, got %d", tt.expected, got)
			}
			for _, c := range tt.node.Children {
				if c == nil {
					t.Error("Nil child retained")
				}
			}
		})
	}
}

func TestNode_Positions(t *testing.T) {
	root := sample()
	if root.HasPosition() {
		t.Error("Program must not carry a position")
	}
	if root.Child(0).HasPosition() {
		t.Error("DeclarationList must not carry a position")
	}

	plus := root.Child(0).Child(1).Child(1)
	if plus.Kind != KindBinaryOp || plus.Line != 1 || plus.Column != 21 {
		t.Errorf("Unexpected operator node %+v", plus)
	}
	if root.Child(5) != nil {
		t.Error("Child out of range should be nil")
	}
}

func TestNode_String(t *testing.T) {
	n := NewAssignment(NewIdentifier("a", 1, 1), NewBinaryOp("+", 1, 5, NewIdentifier("a", 1, 3), NewNumber("1", 1, 7)))
	expected := `Assignment(Identifier("a"), BinaryOp("+", Identifier("a"), Number("1")))`
	if got := n.String(); got != expected {
		t.Errorf("String() = %s, want %s", got, expected)
	}
	if got := NewStatementList().String(); got != "StatementList" {
		t.Errorf("String() = %s", got)
	}
}

func TestKind_String(t *testing.T) {
	if KindDoUntil.String() != "DoUntil" {
		t.Errorf("Unexpected name %s", KindDoUntil)
	}
	if Kind(42).String() != "Kind(42)" {
		t.Errorf("Unexpected name %s", Kind(42))
	}
}

func TestEqual(t *testing.T) {
	a := NewBinaryOp("+", 1, 3, NewIdentifier("x", 1, 1), NewNumber("1", 1, 5))
	b := NewBinaryOp("+", 7, 9, NewIdentifier("x", 7, 2), NewNumber("1", 7, 11))
	c := NewBinaryOp("-", 1, 3, NewIdentifier("x", 1, 1), NewNumber("1", 1, 5))
	d := NewBinaryOp("+", 1, 3, NewIdentifier("x", 1, 1), nil)

	tests := []struct {
		name     string
		a, b     *Node
		expected bool
	}{
		{"Different positions", a, b, true},
		{"Different operator", a, c, false},
		{"Different child count", a, d, false},
		{"Missing operand dropped", d, NewBinaryOp("+", 1, 3, NewIdentifier("x", 1, 1), nil), true},
		{"Both nil", nil, nil, true},
		{"One nil", a, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.expected {
				t.Errorf("Equal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	var kinds []string
	Walk(sample(), func(n *Node) bool {
		kinds = append(kinds, n.Kind.String())
		return n.Kind != KindVariableDeclaration
	})

	expected := "Program DeclarationList VariableDeclaration Assignment Identifier BinaryOp Number BinaryOp Number Number"
	if got := strings.Join(kinds, " "); got != expected {
		t.Errorf("Walk order = %s, want %s", got, expected)
	}

	if got := Count(sample()); got != 12 {
		t.Errorf("Count() = %d, want 12", got)
	}
	if got := len(Find(sample(), KindNumber)); got != 3 {
		t.Errorf("Find() returned %d numbers, want 3", got)
	}
}

func TestOperatorName(t *testing.T) {
	tests := map[string]string{
		"+": "PLUS", "-": "MINUS", "*": "MULTIPLY", "/": "DIVIDE", "%": "MODULO",
		"^": "POWER", "==": "EQUAL", "!=": "NOT_EQUAL", "<": "LESS_THAN",
		"<=": "LESS_EQUAL", ">": "GREATER_THAN", ">=": "GREATER_EQUAL",
		"&&": "AND", "||": "OR", "!": "NOT", "?": "?",
	}
	for op, want := range tests {
		if got := OperatorName(op); got != want {
			t.Errorf("OperatorName(%q) = %s, want %s", op, got, want)
		}
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, sample()); err != nil {
		t.Fatalf("Fprint() error = %v", err)
	}

	expected := `Program
  DeclarationList
    VariableDeclaration
      Type int [1:8]
      Identifier a [1:12]
    Assignment
      Identifier a [1:15]
      BinaryOp PLUS (+) [1:21]
        Number 5 [1:19]
        BinaryOp MULTIPLY (*) [1:25]
          Number 3 [1:23]
          Number 2 [1:27]
`
	if buf.String() != expected {
		t.Errorf("Fprint() =\n%s\nwant\n%s", buf.String(), expected)
	}
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FprintJSON(&buf, sample()); err != nil {
		t.Fatalf("FprintJSON() error = %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if doc.Kind != "Program" || doc.Line != 0 {
		t.Errorf("Unexpected root %+v", doc)
	}
	plus := doc.Children[0].Children[1].Children[1]
	if plus.Value != "+" || plus.Operator != "PLUS" || plus.Column != 21 {
		t.Errorf("Unexpected operator document %+v", plus)
	}
	if strings.Contains(buf.String(), `"line": 0`) {
		t.Error("Structural nodes must omit their position")
	}
}

func TestFprintYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := FprintYAML(&buf, sample()); err != nil {
		t.Fatalf("FprintYAML() error = %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if got := doc.Children[0].Children[0].Children[0].Value; got != "int" {
		t.Errorf("Expected type int, got %q", got)
	}
	if !strings.HasPrefix(buf.String(), "kind: Program\n") {
		t.Errorf("Unexpected YAML head:\n%s", buf.String())
	}
}

func TestToDocument_Nil(t *testing.T) {
	if ToDocument(nil) != nil {
		t.Error("Expected nil document for nil node")
	}
}

func TestConstructors_ShiftChildrenWhenNil(t *testing.T) {
	body := NewStatementList()
	n := NewIf(nil, body, nil)
	if n.Child(0) != body {
		t.Errorf("Child(0) = %v, want the then-branch", n.Child(0))
	}

	left := NewNumber("1", 1, 2)
	op := NewBinaryOp("+", 1, 4, left, nil)
	if op.Child(0) != left || op.Child(1) != nil {
		t.Errorf("BinaryOp children = %v", op.Children)
	}
}
