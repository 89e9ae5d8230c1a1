package parse

import "github.com/dhamidi/locallex/grammar"

// computeBin runs the local lexing loop at chart position k: interleave the
// chart fixpoint with token collection, letting the selector react phase by
// phase as new chart items reveal new candidate terminals. The first pass
// skips pi: bin k is already seeded and no tokens are selected yet, so a
// leading run could not add anything the first in-loop run would not. The
// loop ends when a full pi pass changed nothing and collection added
// nothing to the candidate pool; a final scan then registers transitions
// enabled by tokens selected in the last phase.
func (p *Parser[P, R]) computeBin(k int) {
	tokens := grammar.NewTokens[P, R]()
	selected := grammar.NewTokens[P, R]()
	lexed := make(map[grammar.TerminalKey[P]][]grammar.Token[P, R])

	first := true
	for {
		changed := true
		if !first {
			changed = p.pi(selected, k)
		}
		first = false

		fresh := p.collectNewTokens(k, tokens, lexed)
		if p.semantics == grammar.Modified {
			fresh = p.filterAdmissible(k, fresh)
		}
		added := tokens.Merge(fresh)

		picked := p.g.Selector.Select(tokens, selected)
		if !picked.Empty() {
			log.Debugf("position %d: selected %d token(s)", k, picked.Len())
		}
		selected.Merge(picked)

		if !changed && !added {
			break
		}
	}

	p.scanBin(selected, k)
}

// collectNewTokens discovers tokens for every terminal key some item in bin
// k is waiting on and that does not yet appear in the accumulated pool.
// Each candidate terminal is parsed scannerlessly by a sub-parser and
// looked up in the lexer. Lexing results are cached per key: a key whose
// tokens were all filtered away stays absent from the pool and is
// re-offered in later phases, once an admitting item appears, without
// re-running the sub-parse.
func (p *Parser[P, R]) collectNewTokens(k int, pool grammar.Tokens[P, R], lexed map[grammar.TerminalKey[P]][]grammar.Token[P, R]) grammar.Tokens[P, R] {
	fresh := grammar.NewTokens[P, R]()
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
		key := grammar.TerminalKey[P]{Terminal: next.Index, Param: it.last()}
		if pool.Has(key) {
			continue
		}
		toks, ok := lexed[key]
		if !ok {
			toks = p.lexTerminal(k, key)
			lexed[key] = toks
		}
		for _, tok := range toks {
			fresh.Add(key, tok)
		}
	}
	return fresh
}

// lexTerminal produces the candidate tokens for one terminal key at
// position k: the terminal's own-grammar parse translated through its match
// mode, plus whatever the lexer yields for the key.
func (p *Parser[P, R]) lexTerminal(k int, key grammar.TerminalKey[P]) []grammar.Token[P, R] {
	var tokens []grammar.Token[P, R]

	mode := p.modes[key.Terminal]
	res, err := p.subParser(key.Terminal, k).run(grammar.Terminal(key.Terminal), key.Param)
	switch mode.Mode {
	case grammar.LongestMatch:
		if err == nil {
			for out, r := range res.Results {
				tokens = append(tokens, grammar.Token[P, R]{Length: res.Length, Output: out, Result: r})
			}
		}
	case grammar.AndNext:
		if err == nil {
			for out, r := range res.Results {
				tokens = append(tokens, grammar.Token[P, R]{Length: 0, Output: out, Result: r})
			}
		}
	case grammar.NotNext:
		if err != nil {
			tokens = append(tokens, grammar.Token[P, R]{Length: 0, Output: mode.Param})
		}
	}

	tokens = append(tokens, p.g.Lexer.Parse(p.input, k, key)...)
	return tokens
}

// filterAdmissible implements the Modified semantics: keep only tokens some
// waiting item in bin k would actually consume, judged by a trial run of
// the item's next stage eval. This keeps dead candidates from influencing
// the selector.
func (p *Parser[P, R]) filterAdmissible(k int, fresh grammar.Tokens[P, R]) grammar.Tokens[P, R] {
	kept := grammar.NewTokens[P, R]()
	b := p.bin(k)
	for key, set := range fresh {
		for _, tok := range set {
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
				if next.Index != key.Terminal || it.last() != key.Param {
					continue
				}
				if p.hasNextItem(it, tok.Output) {
					kept.Add(key, tok)
					break
				}
			}
		}
	}
	return kept
}
