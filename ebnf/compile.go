package ebnf

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/locallex/grammar"
	"github.com/dhamidi/locallex/parse"
)

// Unit is the parameter type of compiled EBNF grammars. EBNF symbols are
// unparameterized, so every parameter is the same value.
type Unit struct{}

// Compiled is an EBNF grammar translated for the engine.
type Compiled struct {
	Grammar *grammar.Grammar[Unit, Node]
	Start   grammar.Symbol
}

// Compile verifies src against the start production and translates it.
// Productions become nonterminals, or scannerless terminals if lexical;
// nested groups, options, repetitions, and alternatives desugar into
// synthetic nonterminals; literal tokens and ranges become terminals
// served by a generated lexer.
func Compile(src ebnf.Grammar, start string) (*Compiled, error) {
	if err := ebnf.Verify(src, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}

	c := &compiler{
		symbols:  make(map[string]grammar.Symbol),
		literals: make(map[string]grammar.Symbol),
		ranges:   make(map[[2]string]grammar.Symbol),
		names:    make(map[grammar.Symbol]string),
		matchers: make(map[int]matcher),
	}

	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sym := c.newSymbol(isLexical(name))
		c.symbols[name] = sym
		c.names[sym] = name
	}
	for _, name := range names {
		if err := c.production(c.symbols[name], src[name].Expr); err != nil {
			return nil, err
		}
	}

	g, err := grammar.New[Unit, Node](
		c.rules,
		&cstLexer{matchers: c.matchers},
		grammar.SelectAll[Unit, Node]{},
		&cstBuilder{names: c.names},
	)
	if err != nil {
		return nil, err
	}
	return &Compiled{Grammar: g, Start: c.symbols[start]}, nil
}

// Parse compiles src and parses text from the start production, requiring
// the whole input to be consumed.
func Parse(src ebnf.Grammar, start string, text string) (*Node, error) {
	compiled, err := Compile(src, start)
	if err != nil {
		return nil, err
	}
	input := grammar.NewStringInput(text)
	res, err := parse.Parse(compiled.Grammar, input, 0, compiled.Start, Unit{}, nil)
	if err != nil {
		return nil, err
	}
	if res.Length != len(input) {
		return nil, fmt.Errorf("input not fully consumed: stopped at position %d", res.Length)
	}
	for _, node := range res.Results {
		if node != nil {
			return node, nil
		}
	}
	return nil, fmt.Errorf("no syntax tree constructed")
}

// isLexical mirrors the x/exp/ebnf convention: production names not
// starting with an uppercase letter are lexical.
func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

type matcher struct {
	lit     string
	lo, hi  rune
	isRange bool
}

type compiler struct {
	rules    []grammar.Rule[Unit]
	symbols  map[string]grammar.Symbol
	literals map[string]grammar.Symbol
	ranges   map[[2]string]grammar.Symbol
	names    map[grammar.Symbol]string
	matchers map[int]matcher
	terms    int
	nonterms int
}

func (c *compiler) newSymbol(terminal bool) grammar.Symbol {
	if terminal {
		sym := grammar.Terminal(c.terms)
		c.terms++
		return sym
	}
	sym := grammar.Nonterminal(c.nonterms)
	c.nonterms++
	return sym
}

// synth allocates a helper nonterminal for a nested expression. Helper
// nodes have no name and are spliced into their parent's children.
func (c *compiler) synth() grammar.Symbol {
	sym := c.newSymbol(false)
	c.names[sym] = ""
	return sym
}

func (c *compiler) addRule(lhs grammar.Symbol, rhs []grammar.Symbol) {
	c.rules = append(c.rules, grammar.Rule[Unit]{
		Lhs:  lhs,
		Rhs:  rhs,
		Env:  grammar.NopEnv{},
		Eval: grammar.PassThrough[Unit],
	})
}

// production emits one rule per top-level alternative of expr.
func (c *compiler) production(lhs grammar.Symbol, expr ebnf.Expression) error {
	alts, ok := expr.(ebnf.Alternative)
	if !ok {
		alts = ebnf.Alternative{expr}
	}
	for _, alt := range alts {
		rhs, err := c.sequence(alt)
		if err != nil {
			return err
		}
		c.addRule(lhs, rhs)
	}
	return nil
}

// sequence flattens expr into a symbol sequence, inlining groups and
// nested sequences.
func (c *compiler) sequence(expr ebnf.Expression) ([]grammar.Symbol, error) {
	switch e := expr.(type) {
	case nil:
		return nil, nil
	case ebnf.Sequence:
		var out []grammar.Symbol
		for _, el := range e {
			syms, err := c.sequence(el)
			if err != nil {
				return nil, err
			}
			out = append(out, syms...)
		}
		return out, nil
	case *ebnf.Group:
		return c.sequence(e.Body)
	default:
		sym, err := c.single(expr)
		if err != nil {
			return nil, err
		}
		return []grammar.Symbol{sym}, nil
	}
}

// single reduces expr to one symbol, desugaring options, repetitions, and
// nested alternatives into synthetic nonterminals.
func (c *compiler) single(expr ebnf.Expression) (grammar.Symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		return c.symbols[e.String], nil

	case *ebnf.Token:
		if sym, ok := c.literals[e.String]; ok {
			return sym, nil
		}
		sym := c.newSymbol(true)
		c.literals[e.String] = sym
		c.names[sym] = "token"
		c.matchers[sym.Index] = matcher{lit: e.String}
		return sym, nil

	case *ebnf.Range:
		key := [2]string{e.Begin.String, e.End.String}
		if sym, ok := c.ranges[key]; ok {
			return sym, nil
		}
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		sym := c.newSymbol(true)
		c.ranges[key] = sym
		c.names[sym] = "token"
		c.matchers[sym.Index] = matcher{lo: lo, hi: hi, isRange: true}
		return sym, nil

	case ebnf.Alternative:
		sym := c.synth()
		if err := c.production(sym, e); err != nil {
			return grammar.Symbol{}, err
		}
		return sym, nil

	case *ebnf.Option:
		sym := c.synth()
		c.addRule(sym, nil)
		body, err := c.sequence(e.Body)
		if err != nil {
			return grammar.Symbol{}, err
		}
		c.addRule(sym, body)
		return sym, nil

	case *ebnf.Repetition:
		sym := c.synth()
		c.addRule(sym, nil)
		body, err := c.sequence(e.Body)
		if err != nil {
			return grammar.Symbol{}, err
		}
		c.addRule(sym, append(body, sym))
		return sym, nil

	default:
		return grammar.Symbol{}, fmt.Errorf("unsupported expression %T", expr)
	}
}
