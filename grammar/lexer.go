package grammar

// Lexer produces the tokens of a terminal at a position. It is consulted
// lazily: the engine asks only for the terminal keys the chart is waiting
// on. Implementations must not retain or mutate the input.
type Lexer[P comparable, R any] interface {
	Parse(input Input, pos int, key TerminalKey[P]) []Token[P, R]
}

// NullLexer produces no tokens. Use it for fully scannerless grammars where
// every terminal is defined by rules in the grammar itself.
type NullLexer[P comparable, R any] struct{}

func (NullLexer[P, R]) Parse(Input, int, TerminalKey[P]) []Token[P, R] {
	return nil
}

// LiteralLexer matches fixed literals. Each terminal index maps to the
// literal strings it accepts; a match emits one token per matched literal
// with the request's input parameter echoed as the output parameter.
type LiteralLexer[P comparable, R any] struct {
	Literals map[int][]string
}

func (l *LiteralLexer[P, R]) Parse(input Input, pos int, key TerminalKey[P]) []Token[P, R] {
	var tokens []Token[P, R]
	for _, lit := range l.Literals[key.Terminal] {
		if matchLiteral(input, pos, lit) {
			tokens = append(tokens, Token[P, R]{
				Length: len([]rune(lit)),
				Output: key.Param,
			})
		}
	}
	return tokens
}

func matchLiteral(input Input, pos int, lit string) bool {
	if lit == "" {
		return false
	}
	for _, want := range lit {
		ch, ok := input.At(pos)
		if !ok || ch != want {
			return false
		}
		pos++
	}
	return true
}

// FuncLexer adapts a function to the Lexer interface.
type FuncLexer[P comparable, R any] func(input Input, pos int, key TerminalKey[P]) []Token[P, R]

func (f FuncLexer[P, R]) Parse(input Input, pos int, key TerminalKey[P]) []Token[P, R] {
	return f(input, pos, key)
}
