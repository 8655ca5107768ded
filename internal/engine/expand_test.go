package engine_test

import (
	"strings"
	"testing"

	"github.com/aretw0/tessera/internal/engine"
	"github.com/aretw0/tessera/pkg/adapters/memory"
	"github.com/aretw0/tessera/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader wraps a FileReader and records how many reads happened.
type countingReader struct {
	inner memory.Reader
	reads int
}

func (c *countingReader) ReadFile(path, markerText string) (string, error) {
	c.reads++
	return c.inner.ReadFile(path, markerText)
}

func expandText(t *testing.T, files map[string]string, text string) domain.Expansion {
	t.Helper()
	exp := engine.New(memory.NewReader(files))
	return exp.Expand(domain.Document{Text: text, BaseDir: ".", Source: "chapter.md"})
}

func TestExpand_NoMarkersPassesTextThrough(t *testing.T) {
	got := expandText(t, nil, "# Heading\n\nJust some markdown.\n")
	assert.Equal(t, "# Heading\n\nJust some markdown.\n", got.Text)
	assert.Empty(t, got.Diagnostics)
}

func TestExpand_EscapedInvocationNeverTouchesFiles(t *testing.T) {
	reader := &countingReader{inner: memory.NewReader(nil)}
	exp := engine.New(reader)

	got := exp.Expand(domain.Document{
		Text:    "\\{{#template x.md}}",
		BaseDir: ".",
		Source:  "chapter.md",
	})

	assert.Equal(t, "{{#template x.md}}", got.Text)
	assert.Empty(t, got.Diagnostics)
	assert.Zero(t, reader.reads, "escaped markers must not trigger file resolution")
}

func TestExpand_PlainSubstitution(t *testing.T) {
	files := map[string]string{"footer.md": "Hello [[#name]]"}

	got := expandText(t, files, "{{#template footer.md name=World}}")
	assert.Equal(t, "Hello World", got.Text)
	assert.Empty(t, got.Diagnostics)
}

func TestExpand_DefaultFallback(t *testing.T) {
	files := map[string]string{"footer.md": "By [[#author Anonymous]]"}

	t.Run("No argument uses default", func(t *testing.T) {
		got := expandText(t, files, "{{#template footer.md}}")
		assert.Equal(t, "By Anonymous", got.Text)
	})

	t.Run("Argument overrides default", func(t *testing.T) {
		got := expandText(t, files, "{{#template footer.md author=Ada}}")
		assert.Equal(t, "By Ada", got.Text)
	})
}

func TestExpand_ValueContainingEquals(t *testing.T) {
	files := map[string]string{"t.md": "expr is [[#expr]]"}

	got := expandText(t, files, "{{#template t.md expr=2+2=4}}")
	assert.Equal(t, "expr is 2+2=4", got.Text)
}

func TestExpand_MultiLineLayoutMatchesInline(t *testing.T) {
	files := map[string]string{"card.md": "[[#title]] by [[#author]] ([[#year]])"}

	inline := expandText(t, files, "{{#template card.md title=Go author=Pike year=2009}}")
	multi := expandText(t, files, "{{#template\n    card.md\n    title=Go\n    author=Pike\n    year=2009\n}}")

	assert.Equal(t, inline.Text, multi.Text)
	assert.Equal(t, "Go by Pike (2009)", multi.Text)
}

func TestExpand_UnresolvableFileKeepsMarker(t *testing.T) {
	input := "before {{#template missing.md}} after"

	got := expandText(t, nil, input)
	assert.Equal(t, input, got.Text, "the original marker must survive in place")

	require.Len(t, got.Diagnostics, 1)
	d := got.Diagnostics[0]
	assert.Equal(t, domain.DiagFileReadFailure, d.Kind)
	assert.Equal(t, "chapter.md", d.Source)
	assert.Equal(t, "{{#template missing.md}}", d.Marker)
	assert.Equal(t, "missing.md", d.Path)
	assert.Contains(t, d.Message, "missing.md")
}

func TestExpand_NestingAndRelativeResolution(t *testing.T) {
	// header.md lives in includes/; the invocation inside it must resolve
	// image.md against includes/, not against the document's directory,
	// and the title placeholder is filled before image.md is expanded.
	files := map[string]string{
		"includes/header.md": "{{#template image.md title=[[#title]]}}",
		"includes/image.md":  "<img alt=\"[[#title]]\">",
	}

	got := expandText(t, files, "{{#template includes/header.md title=Tessera}}")
	assert.Equal(t, "<img alt=\"Tessera\">", got.Text)
	assert.Empty(t, got.Diagnostics)
}

func TestExpand_RepeatedInclusionIsNotACycle(t *testing.T) {
	files := map[string]string{"note.md": "N"}

	got := expandText(t, files, "{{#template note.md}} {{#template note.md}} {{#template note.md}}")
	assert.Equal(t, "N N N", got.Text)
	assert.Empty(t, got.Diagnostics)
}

func TestExpand_DepthBound(t *testing.T) {
	files := map[string]string{"loop.md": "x {{#template loop.md}}"}

	got := expandText(t, files, "{{#template loop.md}}")

	// Ten nested levels expand; the eleventh is dropped with a diagnostic
	// instead of looping forever.
	assert.Equal(t, strings.Repeat("x ", 10), got.Text)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, domain.DiagDepthExceeded, got.Diagnostics[0].Kind)
	assert.Equal(t, "chapter.md", got.Diagnostics[0].Source)
}

func TestExpand_MaxDepthOption(t *testing.T) {
	files := map[string]string{"loop.md": "x {{#template loop.md}}"}
	exp := engine.New(memory.NewReader(files), engine.WithMaxDepth(3))

	got := exp.Expand(domain.Document{Text: "{{#template loop.md}}", BaseDir: ".", Source: "doc"})
	assert.Equal(t, "x x x ", got.Text)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, domain.DiagDepthExceeded, got.Diagnostics[0].Kind)
}

func TestExpand_MalformedArgumentIsReportedNotFatal(t *testing.T) {
	files := map[string]string{"t.md": "[[#a]]"}

	got := expandText(t, files, "{{#template\n    t.md\n    nonsense line\n    a=ok\n}}")
	assert.Equal(t, "ok", got.Text)

	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, domain.DiagMalformedArgument, got.Diagnostics[0].Kind)
	assert.Contains(t, got.Diagnostics[0].Message, "nonsense line")
}

func TestExpand_OrderingPreservesSurroundingText(t *testing.T) {
	files := map[string]string{
		"a.md": "A",
		"b.md": "B",
	}
	input := "start {{#template a.md}} middle {{#template b.md}} \\{{#template c.md}} end"

	got := expandText(t, files, input)
	assert.Equal(t, "start A middle B {{#template c.md}} end", got.Text)
}

func TestExpand_FailureDoesNotDisturbNeighbors(t *testing.T) {
	files := map[string]string{"ok.md": "fine"}
	input := "1 {{#template ok.md}} 2 {{#template gone.md}} 3 {{#template ok.md}} 4"

	got := expandText(t, files, input)
	assert.Equal(t, "1 fine 2 {{#template gone.md}} 3 fine 4", got.Text)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, domain.DiagFileReadFailure, got.Diagnostics[0].Kind)
}

func TestExpand_ConcurrentDocumentsShareOneExpander(t *testing.T) {
	files := map[string]string{"part.md": "p=[[#n]]"}
	exp := engine.New(memory.NewReader(files))

	done := make(chan domain.Expansion, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- exp.Expand(domain.Document{
				Text:    "{{#template part.md n=42}}",
				BaseDir: ".",
				Source:  "doc",
			})
		}()
	}
	for i := 0; i < 8; i++ {
		got := <-done
		assert.Equal(t, "p=42", got.Text)
		assert.Empty(t, got.Diagnostics)
	}
}
