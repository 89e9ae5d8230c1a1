package grammar

import "testing"

func passRule(lhs Symbol, rhs ...Symbol) Rule[string] {
	return Rule[string]{Lhs: lhs, Rhs: rhs, Env: NopEnv{}, Eval: PassThrough[string]}
}

func TestNew_Validation(t *testing.T) {
	lexer := NullLexer[string, string]{}
	selector := SelectAll[string, string]{}
	results := DiscardResults[string, string]{}

	if _, err := New[string, string](nil, nil, selector, results); err == nil {
		t.Error("expected error for nil lexer")
	}
	if _, err := New[string, string](nil, lexer, nil, results); err == nil {
		t.Error("expected error for nil selector")
	}
	if _, err := New[string, string](nil, lexer, selector, nil); err == nil {
		t.Error("expected error for nil result builder")
	}

	bad := []Rule[string]{passRule(Symbol{Kind: KindNonterminal, Index: -1})}
	if _, err := New[string, string](bad, lexer, selector, results); err == nil {
		t.Error("expected error for negative lhs index")
	}

	noEval := []Rule[string]{{Lhs: Nonterminal(0), Env: NopEnv{}}}
	if _, err := New[string, string](noEval, lexer, selector, results); err == nil {
		t.Error("expected error for nil eval")
	}

	noEnv := []Rule[string]{{Lhs: Nonterminal(0), Eval: PassThrough[string]}}
	if _, err := New[string, string](noEnv, lexer, selector, results); err == nil {
		t.Error("expected error for nil env")
	}
}

func TestGrammar_RulesOf(t *testing.T) {
	rules := []Rule[string]{
		passRule(Nonterminal(0), Terminal(0)),
		passRule(Terminal(1), Terminal(0)),
		passRule(Nonterminal(0)),
	}
	g, err := New[string, string](rules, NullLexer[string, string]{}, SelectAll[string, string]{}, DiscardResults[string, string]{})
	if err != nil {
		t.Fatalf("build grammar: %v", err)
	}

	got := g.RulesOf(Nonterminal(0))
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("expected rules [0 2] for N0, got %v", got)
	}
	if got := g.RulesOf(Terminal(1)); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected rules [1] for t1, got %v", got)
	}
	if got := g.RulesOf(Nonterminal(9)); got != nil {
		t.Errorf("expected no rules for unknown symbol, got %v", got)
	}
}

func TestSymbol_DisjointIndexSpaces(t *testing.T) {
	if Terminal(0) == Nonterminal(0) {
		t.Error("terminal and nonterminal with equal index must differ")
	}
	if !Terminal(3).IsTerminal() {
		t.Error("Terminal(3) should be a terminal")
	}
	if Nonterminal(3).IsTerminal() {
		t.Error("Nonterminal(3) should not be a terminal")
	}
}
