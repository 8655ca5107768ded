// Package engine implements the recursive template-expansion core: the
// invocation scanner, the two argument grammars, the placeholder
// substitutor, and the orchestrator that ties them together under a fixed
// recursion bound.
package engine
