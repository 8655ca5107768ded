// Package cli implements the command pipelines behind the tessera binary.
package cli

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tessera/pkg/domain"
)

// Engine is the slice of the expansion engine the pipelines need.
type Engine interface {
	Expand(doc domain.Document) domain.Expansion
}

// BuildOptions configures a build run.
type BuildOptions struct {
	// SourceDir is the tree scanned for documents.
	SourceDir string
	// OutputDir receives the expanded tree, mirroring SourceDir's layout.
	OutputDir string
	// TemplatesDir, when set, resolves every template path against it
	// instead of the including document's directory.
	TemplatesDir string
}

// BuildResult summarizes one build run.
type BuildResult struct {
	Documents   int
	Copied      int
	Diagnostics int
}

// Build expands every markdown file under SourceDir into OutputDir and
// copies everything else through unchanged. Expansion is best-effort, so
// documents with diagnostics are still written; the count is reported in
// the result.
func Build(eng Engine, opts BuildOptions, logger *slog.Logger) (BuildResult, error) {
	var result BuildResult

	srcRoot, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return result, fmt.Errorf("invalid source dir: %w", err)
	}
	outRoot, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return result, fmt.Errorf("invalid output dir: %w", err)
	}

	walkErr := filepath.WalkDir(srcRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		target := filepath.Join(outRoot, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if !strings.EqualFold(filepath.Ext(path), ".md") {
			result.Copied++
			return copyFile(path, target)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}

		baseDir := filepath.Dir(path)
		if opts.TemplatesDir != "" {
			baseDir = opts.TemplatesDir
		}

		exp := eng.Expand(domain.Document{
			Text:    string(data),
			BaseDir: baseDir,
			Source:  filepath.ToSlash(rel),
		})
		result.Documents++
		result.Diagnostics += len(exp.Diagnostics)
		if exp.Degraded() {
			logger.Warn("document expanded with diagnostics",
				"source", filepath.ToSlash(rel),
				"diagnostics", len(exp.Diagnostics))
		}

		if err := os.WriteFile(target, []byte(exp.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
		return nil
	})
	if walkErr != nil {
		return result, walkErr
	}

	logger.Info("build complete",
		"documents", result.Documents,
		"copied", result.Copied,
		"diagnostics", result.Diagnostics)
	return result, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
