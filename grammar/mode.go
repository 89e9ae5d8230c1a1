package grammar

// MatchMode governs how a scannerless terminal's own-grammar parse is
// translated into tokens.
type MatchMode int

const (
	// LongestMatch emits one token per recognized output parameter, with
	// the full recognized length.
	LongestMatch MatchMode = iota
	// AndNext emits the recognized tokens with length zero: a lookahead
	// assertion that does not consume input.
	AndNext
	// NotNext emits a single zero-length token carrying the mode's Param
	// when the sub-parse fails, and nothing when it succeeds: negative
	// lookahead.
	NotNext
)

// TerminalMode configures one terminal's match mode. Param is consulted
// only by NotNext, where it becomes the emitted token's output parameter.
type TerminalMode[P comparable] struct {
	Mode  MatchMode
	Param P
}

// Semantics selects how candidate tokens reach the selector.
type Semantics int

const (
	// Paper passes every newly collected token to the selector.
	Paper Semantics = iota
	// Modified first drops tokens that no waiting item in the current bin
	// can consume, so the selector is not influenced by dead candidates.
	Modified
)
