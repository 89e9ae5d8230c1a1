package parse

import "github.com/dhamidi/locallex/grammar"

// Result construction walks the finished chart bottom-up, assembling user
// results with the grammar's ResultBuilder. The walk is memoized per
// ItemKey and driven by an explicit task stack: derivations may nest
// arbitrarily deep, so host-language recursion is off the table. A key
// revisited while its own computation is in flight is a cyclic derivation;
// the cycle is cut by treating that sub-result as nil, which upstream Merge
// calls observe as a missing alternative, never a wrong one.

type taskKind int

const (
	taskStartKey taskKind = iota
	taskStartKeyItem
	taskCompleteKeyItem
	taskCompleteKey
	taskPush
)

type task[P comparable, R any] struct {
	kind taskKind
	key  grammar.ItemKey[P]
	it   *item[P, R]
	n    int
	res  *R
}

type cacheEntry[R any] struct {
	computing bool
	result    *R
}

type constructor[P comparable, R any] struct {
	p     *Parser[P, R]
	cache map[grammar.ItemKey[P]]*cacheEntry[R]
	tasks []task[P, R]
	vals  []*R
}

func newConstructor[P comparable, R any](p *Parser[P, R]) *constructor[P, R] {
	return &constructor[P, R]{
		p:     p,
		cache: make(map[grammar.ItemKey[P]]*cacheEntry[R]),
	}
}

// construct maps every output parameter recognized for (sym, param) over
// bins[0..=top] to the result merged from its derivations.
func (p *Parser[P, R]) construct(sym grammar.Symbol, param P, top int) map[P]*R {
	c := newConstructor(p)
	results := make(map[P]*R)
	for _, it := range p.bins[top].items {
		r := &p.g.Rules[it.rule]
		if it.dot() != len(r.Rhs) || r.Lhs != sym || it.origin() != p.start || it.in() != param {
			continue
		}
		out := it.last()
		if _, done := results[out]; done {
			continue
		}
		results[out] = c.run(grammar.ItemKey[P]{
			Symbol: sym,
			Input:  param,
			Output: out,
			Start:  p.start,
			End:    p.start + top,
		})
	}
	return results
}

// run computes the merged result for one key, driving the task stack to
// exhaustion. The value stack holds intermediate optional results; tasks
// that need n child values pop exactly n.
func (c *constructor[P, R]) run(key grammar.ItemKey[P]) *R {
	c.tasks = c.tasks[:0]
	c.vals = c.vals[:0]
	c.push(task[P, R]{kind: taskStartKey, key: key})

	for len(c.tasks) > 0 {
		t := c.tasks[len(c.tasks)-1]
		c.tasks = c.tasks[:len(c.tasks)-1]

		switch t.kind {
		case taskStartKey:
			c.startKey(t.key)
		case taskStartKeyItem:
			c.startKeyItem(t.key, t.it)
		case taskCompleteKeyItem:
			c.completeKeyItem(t.key, t.it, t.n)
		case taskCompleteKey:
			c.completeKey(t.key, t.n)
		case taskPush:
			c.pushVal(t.res)
		}
	}

	return c.popVal()
}

func (c *constructor[P, R]) push(t task[P, R]) {
	c.tasks = append(c.tasks, t)
}

func (c *constructor[P, R]) pushVal(r *R) {
	c.vals = append(c.vals, r)
}

func (c *constructor[P, R]) popVal() *R {
	r := c.vals[len(c.vals)-1]
	c.vals = c.vals[:len(c.vals)-1]
	return r
}

// startKey resolves a key from the cache or schedules its derivations. The
// completion task is pushed first so every item task runs before it.
func (c *constructor[P, R]) startKey(key grammar.ItemKey[P]) {
	if e, ok := c.cache[key]; ok {
		if e.computing {
			c.pushVal(nil)
		} else {
			c.pushVal(e.result)
		}
		return
	}
	c.cache[key] = &cacheEntry[R]{computing: true}

	items := c.p.findItems(key)
	c.push(task[P, R]{kind: taskCompleteKey, key: key, n: len(items)})
	for _, it := range items {
		c.push(task[P, R]{kind: taskStartKeyItem, key: key, it: it})
	}
}

// startKeyItem schedules the children of one completed item. Children are
// pushed in reverse so child 0 runs first and the value stack ends up in
// child order for completeKeyItem.
func (c *constructor[P, R]) startKeyItem(key grammar.ItemKey[P], it *item[P, R]) {
	r := &c.p.g.Rules[it.rule]
	n := len(r.Rhs)
	c.push(task[P, R]{kind: taskCompleteKeyItem, key: key, it: it, n: n})

	for i := n - 1; i >= 0; i-- {
		sym := r.Rhs[i]
		childKey := grammar.ItemKey[P]{
			Symbol: sym,
			Input:  it.childIn(i),
			Output: it.childOut(i),
			Start:  it.indices[i],
			End:    it.indices[i+1],
		}
		if c.p.treatedAsNonterminal(sym) {
			c.push(task[P, R]{kind: taskStartKey, key: childKey})
		} else {
			c.push(task[P, R]{kind: taskPush, res: c.p.g.Results.Terminal(childKey, it.results[i])})
		}
	}
}

// completeKeyItem pops the item's child results, assembles the completed
// right-hand side view, and evaluates the rule's contribution.
func (c *constructor[P, R]) completeKeyItem(key grammar.ItemKey[P], it *item[P, R], n int) {
	r := &c.p.g.Rules[it.rule]
	children := make(grammar.CompletedRHS[P, R], n)
	for i := n - 1; i >= 0; i-- {
		children[i] = grammar.Child[P, R]{
			Symbol: r.Rhs[i],
			Input:  it.childIn(i),
			Output: it.childOut(i),
			Result: c.popVal(),
			From:   it.indices[i],
			To:     it.indices[i+1],
		}
	}
	c.pushVal(c.p.g.Results.EvalRule(c.p.input, key, children))
}

// completeKey folds the key's per-item results into one cached value.
func (c *constructor[P, R]) completeKey(key grammar.ItemKey[P], n int) {
	merged := make([]*R, 0, n)
	for i := 0; i < n; i++ {
		if r := c.popVal(); r != nil {
			merged = append(merged, r)
		}
	}
	res := c.p.g.Results.Merge(key, merged)
	c.pushVal(res)
	c.cache[key] = &cacheEntry[R]{result: res}
}

// findItems returns the completed items recognizing key: items in the bin
// at key.End whose rule derives key.Symbol from key.Start with matching
// input and output parameters.
func (p *Parser[P, R]) findItems(key grammar.ItemKey[P]) []*item[P, R] {
	idx := key.End - p.start
	if idx < 0 || idx >= len(p.bins) {
		return nil
	}
	var items []*item[P, R]
	for _, it := range p.bins[idx].items {
		r := &p.g.Rules[it.rule]
		if it.dot() != len(r.Rhs) || r.Lhs != key.Symbol || it.origin() != key.Start {
			continue
		}
		if it.in() != key.Input || it.last() != key.Output {
			continue
		}
		items = append(items, it)
	}
	return items
}
