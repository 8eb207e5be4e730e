// File: print.go
// Title: AST Printers
// Description: Renders trees as an indented outline with operator names,
//              as JSON and as YAML. The exported document form is shared by
//              the JSON and YAML printers and by the websocket endpoint.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var operatorNames = map[string]string{
	"+":  "PLUS",
	"-":  "MINUS",
	"*":  "MULTIPLY",
	"/":  "DIVIDE",
	"%":  "MODULO",
	"^":  "POWER",
	"=":  "ASSIGN",
	"==": "EQUAL",
	"!=": "NOT_EQUAL",
	"<":  "LESS_THAN",
	"<=": "LESS_EQUAL",
	">":  "GREATER_THAN",
	">=": "GREATER_EQUAL",
	"&&": "AND",
	"||": "OR",
	"!":  "NOT",
	"++": "INCREMENT",
	"--": "DECREMENT",
}

// OperatorName returns the symbolic name of an operator, e.g. PLUS for "+".
// Unknown operators are returned unchanged.
func OperatorName(op string) string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return op
}

// Fprint writes an indented outline of the tree to w
func Fprint(w io.Writer, node *Node) error {
	p := &printer{w: w}
	p.print(node)
	return p.err
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(n *Node) {
	if n == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	switch n.Kind {
	case KindBinaryOp, KindUnaryOp:
		fmt.Fprintf(&sb, " %s (%s)", OperatorName(n.Value), n.Value)
	default:
		if n.Value != "" {
			fmt.Fprintf(&sb, " %s", n.Value)
		}
	}
	if n.HasPosition() {
		fmt.Fprintf(&sb, " [%d:%d]", n.Line, n.Column)
	}
	p.printf("%s\n", sb.String())

	p.indent++
	for _, c := range n.Children {
		p.print(c)
	}
	p.indent--
}

// Document is the serializable form of a node
type Document struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Value    string     `json:"value,omitempty" yaml:"value,omitempty"`
	Operator string     `json:"operator,omitempty" yaml:"operator,omitempty"`
	Line     int        `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int        `json:"column,omitempty" yaml:"column,omitempty"`
	Children []Document `json:"children,omitempty" yaml:"children,omitempty"`
}

// ToDocument converts a tree into its serializable form
func ToDocument(n *Node) *Document {
	if n == nil {
		return nil
	}
	d := toDocument(n)
	return &d
}

func toDocument(n *Node) Document {
	d := Document{
		Kind:   n.Kind.String(),
		Value:  n.Value,
		Line:   n.Line,
		Column: n.Column,
	}
	if n.Kind == KindBinaryOp || n.Kind == KindUnaryOp {
		d.Operator = OperatorName(n.Value)
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, toDocument(c))
	}
	return d
}

// FprintJSON writes a JSON representation of the tree to w
func FprintJSON(w io.Writer, node *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToDocument(node))
}

// FprintYAML writes a YAML representation of the tree to w
func FprintYAML(w io.Writer, node *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToDocument(node)); err != nil {
		return err
	}
	return enc.Close()
}
