package ebnf

import "github.com/dhamidi/locallex/grammar"

// cstLexer matches the grammar's literal and range terminals, emitting
// token leaves.
type cstLexer struct {
	matchers map[int]matcher
}

func (l *cstLexer) Parse(input grammar.Input, pos int, key grammar.TerminalKey[Unit]) []grammar.Token[Unit, Node] {
	m, ok := l.matchers[key.Terminal]
	if !ok {
		return nil
	}
	if m.isRange {
		ch, ok := input.At(pos)
		if !ok || ch < m.lo || ch > m.hi {
			return nil
		}
		return []grammar.Token[Unit, Node]{{
			Length: 1,
			Result: &Node{Kind: "token", Literal: string(ch), Start: pos, End: pos + 1},
		}}
	}
	runes := []rune(m.lit)
	for i, want := range runes {
		ch, ok := input.At(pos + i)
		if !ok || ch != want {
			return nil
		}
	}
	return []grammar.Token[Unit, Node]{{
		Length: len(runes),
		Result: &Node{Kind: "token", Literal: m.lit, Start: pos, End: pos + len(runes)},
	}}
}

// cstBuilder assembles CST nodes. Synthetic helper nonterminals produce
// unnamed nodes whose children are spliced into the parent.
type cstBuilder struct {
	names map[grammar.Symbol]string
}

func (b *cstBuilder) EvalRule(input grammar.Input, key grammar.ItemKey[Unit], rhs grammar.CompletedRHS[Unit, Node]) *Node {
	node := &Node{
		Kind:  b.names[key.Symbol],
		Start: key.Start,
		End:   key.End,
	}
	if si, ok := input.(grammar.StringInput); ok {
		node.Literal = si.Slice(key.Start, key.End)
	}
	for _, child := range rhs {
		cn := child.Result
		if cn == nil {
			continue
		}
		if cn.Kind == "" {
			node.Children = append(node.Children, cn.Children...)
		} else {
			node.Children = append(node.Children, cn)
		}
	}
	return node
}

func (b *cstBuilder) Terminal(_ grammar.ItemKey[Unit], result *Node) *Node {
	return result
}

func (b *cstBuilder) Merge(_ grammar.ItemKey[Unit], results []*Node) *Node {
	if len(results) == 0 {
		return nil
	}
	return results[0]
}
