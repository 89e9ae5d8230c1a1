// Package parse implements the chart engine behind parameterized local
// lexing: an Earley parser whose symbols carry user-computed input and
// output parameters, whose tokens are discovered lazily position by
// position with a selector arbitrating overlaps, and whose terminals may be
// parsed scannerlessly by recursive instantiation of the parser itself.
package parse

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/locallex/grammar"
)

var log = commonlog.GetLogger("locallex.parse")

// Options configures one parse instance.
type Options[P comparable] struct {
	// Modes overrides how individual terminals translate their own-grammar
	// parse into tokens. Terminals without an entry use LongestMatch.
	Modes map[int]grammar.TerminalMode[P]
	// Semantics selects Paper or Modified token filtering.
	Semantics grammar.Semantics
}

// Result is a successful parse: the number of input positions consumed and,
// for every recognized output parameter, the result the grammar's builder
// constructed for it (nil if construction produced nothing).
type Result[P comparable, R any] struct {
	Length  int
	Results map[P]*R
}

// ParseError reports a failed parse. Position is the furthest chart
// position with any parse activity, a best-effort error locus.
type ParseError struct {
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed at position %d", e.Position)
}

// Parser is one parse instance: a chart over [start, start+len(bins)) plus
// the set of terminals this instance treats as nonterminals. Sub-parsers
// spawned for scannerless terminals get their own Parser; nothing is shared
// with the caller except the grammar and the input.
type Parser[P comparable, R any] struct {
	g             *grammar.Grammar[P, R]
	input         grammar.Input
	start         int
	modes         map[int]grammar.TerminalMode[P]
	semantics     grammar.Semantics
	asNonterminal map[int]bool
	bins          []*bin[P, R]
}

// Parse parses sym with input parameter param starting at pos. On success
// it returns the consumed length and one entry per recognized output
// parameter; on failure, a *ParseError carrying the furthest position
// reached.
func Parse[P comparable, R any](
	g *grammar.Grammar[P, R],
	input grammar.Input,
	pos int,
	sym grammar.Symbol,
	param P,
	opts *Options[P],
) (*Result[P, R], error) {
	p := &Parser[P, R]{
		g:             g,
		input:         input,
		start:         pos,
		asNonterminal: make(map[int]bool),
	}
	if opts != nil {
		p.modes = opts.Modes
		p.semantics = opts.Semantics
	}
	return p.run(sym, param)
}

func (p *Parser[P, R]) run(sym grammar.Symbol, param P) (*Result[P, R], error) {
	if sym.IsTerminal() {
		p.asNonterminal[sym.Index] = true
	}

	p.bins = []*bin[P, R]{newBin[P, R]()}
	for _, ri := range p.g.RulesOf(sym) {
		if it, ok := p.initialItem(ri, p.start, param); ok {
			p.bins[0].add(it)
		}
	}

	for i := 0; i < len(p.bins); i++ {
		p.computeBin(p.start + i)
	}

	for i := len(p.bins) - 1; i >= 0; i-- {
		if !p.recognized(sym, param, i) {
			continue
		}
		log.Debugf("recognized %v over [%d,%d)", sym, p.start, p.start+i)
		return &Result[P, R]{
			Length:  i,
			Results: p.construct(sym, param, i),
		}, nil
	}

	for i := len(p.bins) - 1; i >= 0; i-- {
		if len(p.bins[i].items) > 0 {
			return nil, &ParseError{Position: p.start + i}
		}
	}
	return nil, &ParseError{Position: p.start}
}

// recognized reports whether bin i holds a completed item for sym spanning
// the whole prefix with input parameter param.
func (p *Parser[P, R]) recognized(sym grammar.Symbol, param P, i int) bool {
	for _, it := range p.bins[i].items {
		r := &p.g.Rules[it.rule]
		if it.dot() == len(r.Rhs) && r.Lhs == sym && it.origin() == p.start && it.in() == param {
			return true
		}
	}
	return false
}

// bin returns the bin at absolute chart position k, growing the chart as
// needed.
func (p *Parser[P, R]) bin(k int) *bin[P, R] {
	for len(p.bins) <= k-p.start {
		p.bins = append(p.bins, newBin[P, R]())
	}
	return p.bins[k-p.start]
}

func (p *Parser[P, R]) treatedAsNonterminal(sym grammar.Symbol) bool {
	return !sym.IsTerminal() || p.asNonterminal[sym.Index]
}

// subParser builds the parser instance for a scannerless parse of terminal
// t at position k. The treated-as-nonterminal set grows only downward in
// recursion, so recursion through scannerless terminals bottoms out.
func (p *Parser[P, R]) subParser(t int, k int) *Parser[P, R] {
	asNT := make(map[int]bool, len(p.asNonterminal)+1)
	for idx := range p.asNonterminal {
		asNT[idx] = true
	}
	asNT[t] = true
	return &Parser[P, R]{
		g:             p.g,
		input:         p.input,
		start:         k,
		modes:         p.modes,
		semantics:     p.semantics,
		asNonterminal: asNT,
	}
}

// initialItem instantiates rule ri at position k with input parameter pin.
// The rule's stage-0 eval may reject, in which case no item exists.
func (p *Parser[P, R]) initialItem(ri int, k int, pin P) (*item[P, R], bool) {
	r := &p.g.Rules[ri]
	env := r.Env.Clone()
	v0, ok := r.Eval(env, 0, []P{pin})
	if !ok {
		return nil, false
	}
	return &item[P, R]{
		rule:    ri,
		env:     env,
		values:  []P{pin, v0},
		indices: []int{k},
	}, true
}

// nextItem advances it over its next symbol, whose output parameter is v
// and whose scanned result (terminals only) is res, reaching position to.
// The stage eval may reject, in which case the line is dropped.
func (p *Parser[P, R]) nextItem(it *item[P, R], v P, res *R, to int) (*item[P, R], bool) {
	r := &p.g.Rules[it.rule]
	env := it.env.Clone()

	values := make([]P, len(it.values)+1, len(it.values)+2)
	copy(values, it.values)
	values[len(it.values)] = v

	out, ok := r.Eval(env, it.dot()+1, values)
	if !ok {
		return nil, false
	}
	values = append(values, out)

	results := make([]*R, len(it.results)+1)
	copy(results, it.results)
	results[len(it.results)] = res

	indices := make([]int, len(it.indices)+1)
	copy(indices, it.indices)
	indices[len(it.indices)] = to

	return &item[P, R]{
		rule:    it.rule,
		env:     env,
		values:  values,
		results: results,
		indices: indices,
	}, true
}

// hasNextItem trial-runs the next transition of it for output parameter v
// on throwaway state, reporting whether the stage eval would accept.
func (p *Parser[P, R]) hasNextItem(it *item[P, R], v P) bool {
	r := &p.g.Rules[it.rule]
	env := it.env.Clone()
	values := make([]P, len(it.values)+1)
	copy(values, it.values)
	values[len(it.values)] = v
	_, ok := r.Eval(env, it.dot()+1, values)
	return ok
}
