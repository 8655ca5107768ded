package domain

// Document is the unit of expansion: a text, the directory its relative
// inclusion paths resolve against, and an identity for diagnostics.
// Documents are supplied per call and never retained by the engine.
type Document struct {
	// Text is the document content. The engine treats it as an opaque
	// string with embedded marker syntax; it does not parse the
	// surrounding markup.
	Text string

	// BaseDir is the directory against which relative invocation paths
	// resolve. Each recursion level derives a new base directory from the
	// parent of the file it just resolved.
	BaseDir string

	// Source identifies the document in diagnostics, typically its path
	// within the source tree.
	Source string
}

// Expansion is the outcome of expanding one Document: the rewritten text
// plus every diagnostic raised along the way. Expansion is best-effort,
// so Text is always populated even when Diagnostics is not empty.
type Expansion struct {
	Text        string       `json:"text"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Degraded reports whether any diagnostics were raised.
func (e Expansion) Degraded() bool {
	return len(e.Diagnostics) > 0
}
