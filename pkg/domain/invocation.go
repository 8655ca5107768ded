package domain

// InvocationKind discriminates the marker variants found by the scanner.
type InvocationKind int

const (
	// InvocationEscaped is a marker prefixed with the escape character.
	// It is emitted literally, minus the escape, and never expanded.
	InvocationEscaped InvocationKind = iota
	// InvocationTemplate is a {{#template <path> <args>}} inclusion marker.
	InvocationTemplate
)

// Invocation is one parsed template marker occurrence within a document.
//
// Start and End are byte offsets into the original, unmodified text the
// invocation was found in ([Start, End) half-open). Output is assembled by
// copying untouched slices of that original text, so the offsets stay valid
// for the lifetime of one scan pass and are never recomputed against output
// buffers.
type Invocation struct {
	Start int
	End   int
	Kind  InvocationKind

	// Path is the inclusion path, relative to the current base directory.
	// Empty for escaped markers.
	Path string

	// RawArgs is the unparsed argument text following the path token.
	RawArgs string

	// RawText is the exact matched substring. It is kept for diagnostics
	// and re-emitted verbatim when the referenced file cannot be read.
	RawText string
}
