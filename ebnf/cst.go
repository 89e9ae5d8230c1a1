// Package ebnf compiles EBNF grammars (golang.org/x/exp/ebnf) into grammars
// for the local lexing engine, producing concrete syntax trees. Lexical
// productions (names not starting with an uppercase letter) become
// scannerless terminals parsed by the engine itself; literal tokens and
// character ranges are matched by a generated lexer.
package ebnf

import (
	"fmt"
	"io"
	"strings"
)

// Node is a node in the concrete syntax tree. Token leaves have Kind
// "token"; production nodes carry the production name. Start and End are
// rune offsets into the parsed input.
type Node struct {
	Kind     string
	Literal  string
	Children []*Node
	Start    int
	End      int
}

// IsToken returns true if this is a leaf node produced by the lexer.
func (n *Node) IsToken() bool {
	return n.Kind == "token"
}

// Text returns the source text covered by this node.
func (n *Node) Text() string {
	return n.Literal
}

// Dump writes an indented rendering of the tree, one node per line.
func (n *Node) Dump(w io.Writer) {
	n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsToken() {
		fmt.Fprintf(w, "%s%q [%d:%d]\n", indent, n.Literal, n.Start, n.End)
		return
	}
	fmt.Fprintf(w, "%s%s [%d:%d]\n", indent, n.Kind, n.Start, n.End)
	for _, child := range n.Children {
		child.dump(w, depth+1)
	}
}
