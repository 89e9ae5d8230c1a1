package parse

import (
	"fmt"

	"github.com/dhamidi/locallex/grammar"
)

// item is one Earley chart entry: a rule instance with dot() symbols
// consumed. values carries the parameter flow
//
//	[in(Lhs), in(Rhs[0]), out(Rhs[0]), …, in(Rhs[dot-1]), out(Rhs[dot-1]), next]
//
// where the trailing entry is the input parameter of the next symbol, or the
// output parameter of Lhs once the item is complete. results holds scanned
// terminal results only (nil slots for nonterminal children, whose results
// are recomputed during construction); indices[0] is the origin and
// indices[i] the chart position reached after consuming Rhs[i-1].
type item[P comparable, R any] struct {
	rule    int
	env     grammar.Env
	values  []P
	results []*R
	indices []int
}

func (it *item[P, R]) origin() int { return it.indices[0] }

func (it *item[P, R]) dot() int { return len(it.indices) - 1 }

// in is the input parameter of the rule's left-hand side.
func (it *item[P, R]) in() P { return it.values[0] }

// last is the input parameter of the next symbol, or, for a completed item,
// the output parameter of the left-hand side.
func (it *item[P, R]) last() P { return it.values[len(it.values)-1] }

// childIn and childOut read the parameters of the i-th consumed symbol.
func (it *item[P, R]) childIn(i int) P  { return it.values[2*i+1] }
func (it *item[P, R]) childOut(i int) P { return it.values[2*i+2] }

// key identifies the item within a bin. env and results are deliberately
// excluded: items differing only in environment state or stored terminal
// results collapse to one chart entry, preserving Earley's termination.
func (it *item[P, R]) key() string {
	return fmt.Sprintf("%d|%v|%v", it.rule, it.values, it.indices)
}

func (it *item[P, R]) String() string {
	return fmt.Sprintf("[rule %d • %d, %d..%d]", it.rule, it.dot(), it.origin(), it.indices[it.dot()])
}

// bin is the set of items whose dot sits at one chart position. Items are
// only ever appended; seen dedups by item key.
type bin[P comparable, R any] struct {
	items []*item[P, R]
	seen  map[string]bool
}

func newBin[P comparable, R any]() *bin[P, R] {
	return &bin[P, R]{seen: make(map[string]bool)}
}

func (b *bin[P, R]) add(it *item[P, R]) bool {
	key := it.key()
	if b.seen[key] {
		return false
	}
	b.seen[key] = true
	b.items = append(b.items, it)
	return true
}
