// Package book implements the mdBook preprocessor protocol: it decodes the
// [context, book] pair mdBook writes on stdin, expands template invocations
// in every chapter, and writes the rewritten book back on stdout.
package book

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/tessera/pkg/domain"
)

// Name is the preprocessor name mdBook uses to address tessera in book.toml.
const Name = "tessera"

// Expander is the slice of the expansion engine the preprocessor needs.
type Expander interface {
	Expand(doc domain.Document) domain.Expansion
}

// Config is the [preprocessor.tessera] table of book.toml.
type Config struct {
	// TemplatesDir, when set, resolves every template path against this
	// directory (relative to the book root) instead of the including
	// chapter's directory.
	TemplatesDir string `mapstructure:"templates-dir"`
}

// Context carries the fields of mdBook's PreprocessorContext that tessera
// reads. Config holds the full decoded book.toml.
type Context struct {
	Root          string         `json:"root"`
	Config        map[string]any `json:"config"`
	Renderer      string         `json:"renderer"`
	MdbookVersion string         `json:"mdbook_version"`
}

// Preprocessor rewrites chapter content through an expansion engine.
type Preprocessor struct {
	Engine Expander
	Logger *slog.Logger
}

// NewPreprocessor wires an engine and a logger into a Preprocessor.
func NewPreprocessor(engine Expander, logger *slog.Logger) *Preprocessor {
	return &Preprocessor{Engine: engine, Logger: logger}
}

// SupportsRenderer reports whether tessera supports the given mdBook
// renderer.
func (p *Preprocessor) SupportsRenderer(renderer string) bool {
	return renderer == "html"
}

// Run executes one preprocessor round: decode [context, book] from input,
// expand every chapter, encode the book to output.
func (p *Preprocessor) Run(input io.Reader, output io.Writer) error {
	var req [2]json.RawMessage
	if err := json.NewDecoder(input).Decode(&req); err != nil {
		return fmt.Errorf("decoding preprocessor input: %w", err)
	}

	var ctx Context
	if err := json.Unmarshal(req[0], &ctx); err != nil {
		return fmt.Errorf("decoding preprocessor context: %w", err)
	}
	var bk Book
	if err := json.Unmarshal(req[1], &bk); err != nil {
		return fmt.Errorf("decoding book: %w", err)
	}

	if err := p.Process(&ctx, &bk); err != nil {
		return err
	}
	if err := json.NewEncoder(output).Encode(bk); err != nil {
		return fmt.Errorf("encoding book: %w", err)
	}
	return nil
}

// Process expands every chapter of the book in place.
func (p *Preprocessor) Process(ctx *Context, bk *Book) error {
	cfg, err := ParseConfig(ctx.Config)
	if err != nil {
		return err
	}

	srcRoot := filepath.Join(ctx.Root, sourceDir(ctx.Config))
	templateRoot := ""
	if cfg.TemplatesDir != "" {
		templateRoot = filepath.Join(ctx.Root, cfg.TemplatesDir)
	}

	p.processItems(bk.Sections, srcRoot, templateRoot)
	return nil
}

func (p *Preprocessor) processItems(items []Item, srcRoot, templateRoot string) {
	for idx := range items {
		ch := items[idx].Chapter
		if ch == nil {
			continue
		}
		p.processChapter(ch, srcRoot, templateRoot)
		p.processItems(ch.SubItems, srcRoot, templateRoot)
	}
}

func (p *Preprocessor) processChapter(ch *Chapter, srcRoot, templateRoot string) {
	if ch.Path == nil {
		return
	}

	baseDir := templateRoot
	if baseDir == "" {
		baseDir = filepath.Join(srcRoot, filepath.Dir(*ch.Path))
	}

	expansion := p.Engine.Expand(domain.Document{
		Text:    ch.Content,
		BaseDir: baseDir,
		Source:  *ch.Path,
	})
	if expansion.Degraded() && p.Logger != nil {
		p.Logger.Warn("chapter expanded with diagnostics",
			"chapter", ch.Name,
			"path", *ch.Path,
			"diagnostics", len(expansion.Diagnostics))
	}
	ch.Content = expansion.Text
}

// ParseConfig extracts the [preprocessor.tessera] table from a decoded
// book.toml. A missing table yields the zero Config.
func ParseConfig(config map[string]any) (Config, error) {
	var cfg Config
	preprocessors, ok := config["preprocessor"].(map[string]any)
	if !ok {
		return cfg, nil
	}
	table, ok := preprocessors[Name]
	if !ok {
		return cfg, nil
	}
	if err := mapstructure.Decode(table, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid [preprocessor.%s] config: %w", Name, err)
	}
	return cfg, nil
}

func sourceDir(config map[string]any) string {
	bookTable, ok := config["book"].(map[string]any)
	if !ok {
		return "src"
	}
	var decoded struct {
		Src string `mapstructure:"src"`
	}
	if err := mapstructure.Decode(bookTable, &decoded); err != nil || decoded.Src == "" {
		return "src"
	}
	return decoded.Src
}
