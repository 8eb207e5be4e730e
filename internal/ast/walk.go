// File: walk.go
// Title: AST Traversal
// Description: Depth-first traversal over the tagged node tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package ast

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node *Node) bool

// Walk traverses the tree in depth-first pre-order
func Walk(node *Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}
	for _, c := range node.Children {
		Walk(c, v)
	}
}

// Find returns all nodes of the given kind in pre-order
func Find(root *Node, kind Kind) []*Node {
	var found []*Node
	Walk(root, func(n *Node) bool {
		if n.Kind == kind {
			found = append(found, n)
		}
		return true
	})
	return found
}
