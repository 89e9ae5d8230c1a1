package grammar

import "testing"

func TestSelectAll_SkipsSelectedKeys(t *testing.T) {
	from := NewTokens[string, string]()
	selected := NewTokens[string, string]()
	key1 := TerminalKey[string]{Terminal: 0, Param: "p"}
	key2 := TerminalKey[string]{Terminal: 1, Param: "p"}

	from.Add(key1, Token[string, string]{Length: 1, Output: "a"})
	from.Add(key2, Token[string, string]{Length: 1, Output: "b"})
	selected.Add(key1, Token[string, string]{Length: 1, Output: "a"})

	picked := SelectAll[string, string]{}.Select(from, selected)
	if picked.Has(key1) {
		t.Error("already-selected key must not be re-selected")
	}
	if !picked.Has(key2) {
		t.Error("unselected key should be picked")
	}
}

func TestLongestOnly_KeepsLongestPerKey(t *testing.T) {
	from := NewTokens[string, string]()
	key := TerminalKey[string]{Terminal: 0, Param: "p"}
	from.Add(key, Token[string, string]{Length: 1, Output: "short"})
	from.Add(key, Token[string, string]{Length: 3, Output: "long"})
	from.Add(key, Token[string, string]{Length: 3, Output: "other"})

	picked := LongestOnly[string, string]{}.Select(from, NewTokens[string, string]())
	set := picked[key]
	if len(set) != 2 {
		t.Fatalf("expected both length-3 tokens, got %d", len(set))
	}
	for id := range set {
		if id.Length != 3 {
			t.Errorf("expected only length-3 tokens, got length %d", id.Length)
		}
	}
}

func TestLiteralLexer(t *testing.T) {
	lexer := &LiteralLexer[string, string]{
		Literals: map[int][]string{
			0: {"if", "iff"},
			1: {"+"},
		},
	}
	input := NewStringInput("iff")

	tokens := lexer.Parse(input, 0, TerminalKey[string]{Terminal: 0, Param: "p"})
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	lengths := map[int]bool{}
	for _, tok := range tokens {
		lengths[tok.Length] = true
		if tok.Output != "p" {
			t.Errorf("expected input parameter echoed, got %q", tok.Output)
		}
	}
	if !lengths[2] || !lengths[3] {
		t.Errorf("expected lengths 2 and 3, got %v", lengths)
	}

	if got := lexer.Parse(input, 0, TerminalKey[string]{Terminal: 1, Param: "p"}); got != nil {
		t.Errorf("expected no tokens for '+', got %v", got)
	}
	if got := lexer.Parse(input, 3, TerminalKey[string]{Terminal: 0, Param: "p"}); got != nil {
		t.Errorf("expected no tokens past end of input, got %v", got)
	}
}
