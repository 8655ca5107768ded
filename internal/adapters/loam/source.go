// Package loam serves markdown documents from a Loam repository. The
// document server uses it to list, read, and watch the source tree without
// touching the filesystem directly.
package loam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/tessera/pkg/domain"
)

// DocMetadata is the frontmatter tessera reads from a source document.
// Everything else in the frontmatter is ignored.
type DocMetadata struct {
	Title string `json:"title" mapstructure:"title"`
	Draft bool   `json:"draft" mapstructure:"draft"`
}

// SourceDoc is one markdown document of the source tree.
type SourceDoc struct {
	// Path is the document's Loam ID: its path relative to the source
	// root, slash separated, without the extension. Watch emits the same
	// IDs, so callers can key caches on Path directly.
	Path    string
	Title   string
	Draft   bool
	Content string
}

// Source reads source documents through a Loam repository.
type Source struct {
	repo *loam.TypedRepository[DocMetadata]
	root string
}

// Open initializes a read-only Loam repository over dir.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// ReadOnly keeps Loam from adopting the source tree as a sandbox;
	// tessera only ever reads it.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return &Source{
		repo: loam.NewTypedRepository[DocMetadata](repo),
		root: absPath,
	}, nil
}

// Root returns the absolute source directory.
func (s *Source) Root() string {
	return s.root
}

// Get returns the document stored under id. Loam IDs carry no extension;
// a trailing .md on id is accepted and stripped.
func (s *Source) Get(ctx context.Context, id string) (SourceDoc, error) {
	id = strings.TrimSuffix(filepath.ToSlash(id), ".md")
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return SourceDoc{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return SourceDoc{
		Path:    filepath.ToSlash(doc.ID),
		Title:   doc.Data.Title,
		Draft:   doc.Data.Draft,
		Content: doc.Content,
	}, nil
}

// List returns every markdown document in the source tree. Loam listings
// carry only IDs and frontmatter, so each document is re-read for its body.
func (s *Source) List(ctx context.Context) ([]SourceDoc, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	out := make([]SourceDoc, 0, len(docs))
	for _, doc := range docs {
		if !s.isMarkdown(doc.ID) {
			continue
		}
		full, err := s.repo.Get(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get %s failed: %w", doc.ID, err)
		}
		out = append(out, SourceDoc{
			Path:    filepath.ToSlash(full.ID),
			Title:   full.Data.Title,
			Draft:   full.Data.Draft,
			Content: full.Content,
		})
	}
	return out, nil
}

// isMarkdown reports whether the file backing id is a markdown file. Loam
// indexes JSON and YAML documents in the same tree, and its extension-less
// IDs hide which is which; only markdown IDs have a .md file on disk.
func (s *Source) isMarkdown(id string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(id)+".md"))
	return err == nil
}

// Watch emits the ID of every changed markdown document until ctx ends.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	events, err := s.repo.Watch(ctx, "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// IsNotFound reports whether err marks a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrDocumentNotFound)
}
