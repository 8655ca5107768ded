package domain

// PlaceholderKind discriminates the placeholder variants found inside
// included template content.
type PlaceholderKind int

const (
	// PlaceholderEscaped is a placeholder prefixed with the escape
	// character, emitted literally minus the escape.
	PlaceholderEscaped PlaceholderKind = iota
	// PlaceholderPlain is [[#name]]: the matching argument value, or
	// nothing when the argument is absent.
	PlaceholderPlain
	// PlaceholderWithDefault is [[#name default text]]: the matching
	// argument value, or the default text when the argument is absent.
	PlaceholderWithDefault
)

// Placeholder is one parsed argument-substitution marker inside included
// content. The placeholder grammar is distinct from the invocation grammar,
// so invocation text and placeholder text are never confused even when
// nested. Offsets follow the same original-text convention as Invocation.
type Placeholder struct {
	Start int
	End   int
	Kind  PlaceholderKind

	// Name is the argument this placeholder resolves to. Empty for
	// escaped placeholders.
	Name string

	// Default is the literal fallback text of a WithDefault placeholder.
	// Defaults are emitted verbatim and never re-scanned.
	Default string

	// RawText is the exact matched substring.
	RawText string
}
