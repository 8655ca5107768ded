package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/tessera/internal/logging"
	"github.com/aretw0/tessera/pkg/domain"
	"github.com/aretw0/tessera/pkg/ports"
)

// MaxDepth is the default bound on nested template inclusion. Nesting is
// bounded by depth rather than by visited-set cycle detection: the same
// file may legitimately be included many times at different invocation
// sites, and depth still bounds worst-case work.
const MaxDepth = 10

// Expander drives the recursive expansion algorithm: scan, resolve,
// substitute, recurse, splice. It holds no state between calls, so one
// Expander may expand many documents concurrently as long as its FileReader
// tolerates concurrent reads.
type Expander struct {
	reader   ports.FileReader
	logger   *slog.Logger
	scanner  Scanner
	parser   ArgParser
	subst    Substitutor
	maxDepth int
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets the structured logger diagnostics are mirrored to.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) {
		e.logger = logger
	}
}

// WithMaxDepth overrides the recursion bound. Values below one fall back to
// MaxDepth.
func WithMaxDepth(depth int) Option {
	return func(e *Expander) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// New creates an Expander reading template files through reader.
func New(reader ports.FileReader, opts ...Option) *Expander {
	e := &Expander{
		reader:   reader,
		logger:   logging.NewNop(),
		maxDepth: MaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand rewrites doc.Text with every invocation expanded. It always
// returns a usable result: defects surface as diagnostics plus either the
// surviving marker text (read failures) or dropped nested content (depth
// exceeded), never as an error.
func (e *Expander) Expand(doc domain.Document) domain.Expansion {
	run := &expansion{Expander: e, source: doc.Source}
	text := run.expand(doc.Text, doc.BaseDir, 0)
	return domain.Expansion{Text: text, Diagnostics: run.diags}
}

// expansion carries the per-call state — the source identity and the
// diagnostics accumulated along one recursion tree — so Expander itself
// stays safe for concurrent use.
type expansion struct {
	*Expander
	source string
	diags  []domain.Diagnostic
}

// expand runs one scan pass over text, copying untouched slices between
// matches and splicing in each invocation's replacement. Offsets always
// refer to text, never to the output buffer.
func (x *expansion) expand(text, baseDir string, depth int) string {
	invocations := x.scanner.Scan(text)
	if len(invocations) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	prev := 0
	for _, inv := range invocations {
		out.WriteString(text[prev:inv.Start])
		switch inv.Kind {
		case domain.InvocationEscaped:
			out.WriteString(inv.RawText[1:])
		case domain.InvocationTemplate:
			out.WriteString(x.include(inv, baseDir, depth))
		}
		prev = inv.End
	}
	out.WriteString(text[prev:])
	return out.String()
}

// include resolves one template invocation and returns the text to splice
// in its place.
func (x *expansion) include(inv domain.Invocation, baseDir string, depth int) string {
	args, malformed := x.parser.Parse(inv.RawArgs)
	for _, token := range malformed {
		x.report(domain.Diagnostic{
			Kind:    domain.DiagMalformedArgument,
			Source:  x.source,
			Marker:  token,
			Message: "argument has no key/value pair: " + token,
		})
	}

	target := filepath.Join(baseDir, inv.Path)
	content, err := x.reader.ReadFile(target, inv.RawText)
	if err != nil {
		x.report(domain.Diagnostic{
			Kind:    domain.DiagFileReadFailure,
			Source:  x.source,
			Marker:  inv.RawText,
			Path:    target,
			Message: err.Error(),
		})
		// The marker survives in place so the failure is visible where
		// it happened.
		return inv.RawText
	}

	if depth >= x.maxDepth {
		x.report(domain.Diagnostic{
			Kind:    domain.DiagDepthExceeded,
			Source:  x.source,
			Marker:  inv.RawText,
			Path:    target,
			Message: fmt.Sprintf("template nesting deeper than %d levels, skipping inclusion", x.maxDepth),
		})
		return ""
	}

	substituted := x.subst.Substitute(content, args)

	// The included file's own relative paths resolve against its parent
	// directory, not against the document that pulled it in.
	return x.expand(substituted, filepath.Dir(target), depth+1)
}

func (x *expansion) report(d domain.Diagnostic) {
	x.diags = append(x.diags, d)
	x.logger.Warn("expansion diagnostic",
		"kind", string(d.Kind),
		"source", d.Source,
		"marker", d.Marker,
		"path", d.Path,
		"err", d.Message,
	)
}
