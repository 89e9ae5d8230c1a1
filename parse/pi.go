package parse

import "github.com/dhamidi/locallex/grammar"

// pi runs Predict, Complete, and Scan over bin k until a full pass adds no
// new item to any bin, scanning only against the given token set. Items
// added during a pass are observed later in the same pass (the item slice
// is iterated by index while it grows) and the next pass re-examines every
// item, so pairings missed by ordering are picked up before the fixpoint is
// declared. Returns whether any pass changed the chart.
func (p *Parser[P, R]) pi(tokens grammar.Tokens[P, R], k int) bool {
	changedAny := false
	for {
		changed := false
		b := p.bin(k)
		for i := 0; i < len(b.items); i++ {
			it := b.items[i]
			r := &p.g.Rules[it.rule]
			if it.dot() == len(r.Rhs) {
				if p.complete(it, k) {
					changed = true
				}
				continue
			}
			next := r.Rhs[it.dot()]
			if p.treatedAsNonterminal(next) {
				if p.predict(it, next, k) {
					changed = true
				}
			} else if p.scan(it, next, tokens, k) {
				changed = true
			}
		}
		if !changed {
			break
		}
		changedAny = true
	}
	return changedAny
}

// predict seeds bin k with the initial items of every rule for next, using
// the waiting item's next parameter as input.
func (p *Parser[P, R]) predict(it *item[P, R], next grammar.Symbol, k int) bool {
	changed := false
	pin := it.last()
	for _, ri := range p.g.RulesOf(next) {
		init, ok := p.initialItem(ri, k, pin)
		if !ok {
			continue
		}
		if p.bin(k).add(init) {
			changed = true
		}
	}
	return changed
}

// complete advances every item in the completed item's origin bin that
// waits for its left-hand side with a matching input parameter. Nonterminal
// results are not carried into the successor; construction recomputes them
// from the chart.
func (p *Parser[P, R]) complete(completed *item[P, R], k int) bool {
	changed := false
	lhs := p.g.Rules[completed.rule].Lhs
	pin := completed.in()
	pout := completed.last()

	origin := p.bin(completed.origin())
	for i := 0; i < len(origin.items); i++ {
		waiting := origin.items[i]
		r := &p.g.Rules[waiting.rule]
		if waiting.dot() == len(r.Rhs) {
			continue
		}
		if r.Rhs[waiting.dot()] != lhs || waiting.last() != pin {
			continue
		}
		succ, ok := p.nextItem(waiting, pout, nil, k)
		if !ok {
			continue
		}
		if p.bin(k).add(succ) {
			changed = true
		}
	}
	return changed
}

// scan advances it over every admitted token for its next terminal,
// inserting the successor into bin k+length and growing the chart as
// needed. Predict and complete never grow the chart; scan may.
func (p *Parser[P, R]) scan(it *item[P, R], next grammar.Symbol, tokens grammar.Tokens[P, R], k int) bool {
	changed := false
	key := grammar.TerminalKey[P]{Terminal: next.Index, Param: it.last()}
	for _, tok := range tokens[key] {
		succ, ok := p.nextItem(it, tok.Output, tok.Result, k+tok.Length)
		if !ok {
			continue
		}
		if p.bin(k + tok.Length).add(succ) {
			changed = true
		}
	}
	return changed
}

// scanBin runs one scan pass over bin k against the selected tokens. Used
// at the end of the local lexing loop to register transitions enabled by
// the last selection phase.
func (p *Parser[P, R]) scanBin(tokens grammar.Tokens[P, R], k int) {
	b := p.bin(k)
	for i := 0; i < len(b.items); i++ {
		it := b.items[i]
		r := &p.g.Rules[it.rule]
		if it.dot() == len(r.Rhs) {
			continue
		}
		next := r.Rhs[it.dot()]
		if !next.IsTerminal() || p.asNonterminal[next.Index] {
			continue
		}
		p.scan(it, next, tokens, k)
	}
}
