// Package tessera is a recursive template-expansion engine for Markdown
// documentation. It locates {{#template ...}} invocation markers in a
// document, resolves each to the content of another file, substitutes
// named arguments into [[#name]] placeholders inside that content, and
// splices the fully expanded result back into the document.
package tessera

import (
	"log/slog"

	"github.com/aretw0/tessera/internal/adapters/file"
	"github.com/aretw0/tessera/internal/engine"
	"github.com/aretw0/tessera/internal/logging"
	"github.com/aretw0/tessera/pkg/domain"
	"github.com/aretw0/tessera/pkg/ports"
)

// Engine is the high-level entry point for the tessera library. It wraps
// the internal expander and provides a simplified API for hosts.
//
// An Engine holds no per-document state: hosts may expand many documents
// in parallel through one Engine as long as the configured FileReader
// tolerates concurrent reads (the default filesystem reader does).
type Engine struct {
	reader   ports.FileReader
	logger   *slog.Logger
	maxDepth int
	expander *engine.Expander
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithReader injects a custom FileReader, bypassing the default
// filesystem reader. Use pkg/adapters/memory for fully in-memory hosts.
func WithReader(reader ports.FileReader) Option {
	return func(e *Engine) {
		e.reader = reader
	}
}

// WithLogger sets a custom structured logger for the engine.
// Diagnostics are mirrored to it at Warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDepth overrides the nesting bound (default 10 levels).
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// New initializes a tessera Engine. By default it reads template files
// from the local filesystem and logs nowhere.
func New(opts ...Option) *Engine {
	eng := &Engine{
		reader:   file.NewReader(),
		logger:   logging.NewNop(),
		maxDepth: engine.MaxDepth,
	}
	for _, opt := range opts {
		opt(eng)
	}

	eng.expander = engine.New(eng.reader,
		engine.WithLogger(eng.logger),
		engine.WithMaxDepth(eng.maxDepth),
	)
	return eng
}

// Expand rewrites doc with every template invocation expanded. Expansion
// is best-effort: the result always carries usable text, and every defect
// encountered along the way is returned as a diagnostic rather than an
// error.
func (e *Engine) Expand(doc domain.Document) domain.Expansion {
	return e.expander.Expand(doc)
}

// ExpandString is a convenience wrapper around Expand for hosts that
// already hold the three document fields separately.
func (e *Engine) ExpandString(text, baseDir, source string) domain.Expansion {
	return e.Expand(domain.Document{Text: text, BaseDir: baseDir, Source: source})
}
