// Package grammar defines parameterized grammars for the local lexing
// engine: symbols carrying user-computed input and output parameters, rules
// with per-stage evaluation functions, and the lexer, selector, and result
// builder interfaces a grammar is parsed with.
package grammar

import "fmt"

// Grammar is an immutable parse configuration: indexed rules plus the
// user collaborators the engine consults while parsing. Build one with New;
// the zero value is not usable.
type Grammar[P comparable, R any] struct {
	Rules    []Rule[P]
	Lexer    Lexer[P, R]
	Selector Selector[P, R]
	Results  ResultBuilder[P, R]

	byLhs map[Symbol][]int
}

// New validates the rule list and collaborators and builds the lhs index.
func New[P comparable, R any](
	rules []Rule[P],
	lexer Lexer[P, R],
	selector Selector[P, R],
	results ResultBuilder[P, R],
) (*Grammar[P, R], error) {
	if lexer == nil {
		return nil, fmt.Errorf("grammar: nil lexer")
	}
	if selector == nil {
		return nil, fmt.Errorf("grammar: nil selector")
	}
	if results == nil {
		return nil, fmt.Errorf("grammar: nil result builder")
	}
	byLhs := make(map[Symbol][]int)
	for i, r := range rules {
		if r.Lhs.Index < 0 {
			return nil, fmt.Errorf("grammar: rule %d: invalid lhs %v", i, r.Lhs)
		}
		for j, sym := range r.Rhs {
			if sym.Index < 0 {
				return nil, fmt.Errorf("grammar: rule %d: invalid rhs symbol %d: %v", i, j, sym)
			}
		}
		if r.Eval == nil {
			return nil, fmt.Errorf("grammar: rule %d: nil eval", i)
		}
		if r.Env == nil {
			return nil, fmt.Errorf("grammar: rule %d: nil env", i)
		}
		byLhs[r.Lhs] = append(byLhs[r.Lhs], i)
	}
	return &Grammar[P, R]{
		Rules:    rules,
		Lexer:    lexer,
		Selector: selector,
		Results:  results,
		byLhs:    byLhs,
	}, nil
}

// RulesOf returns the indices of the rules whose left-hand side is sym, in
// rule-list order.
func (g *Grammar[P, R]) RulesOf(sym Symbol) []int {
	return g.byLhs[sym]
}
