package tessera_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tessera"
	"github.com/aretw0/tessera/pkg/adapters/memory"
	"github.com/aretw0/tessera/pkg/domain"
)

func TestEngine_Expand(t *testing.T) {
	reader := memory.NewReader(map[string]string{
		"header.md": "# [[#title Untitled]]",
	})
	engine := tessera.New(tessera.WithReader(reader))

	t.Run("substitutes arguments", func(t *testing.T) {
		result := engine.Expand(domain.Document{
			Text:    "{{#template header.md title=Tessera}}\nBody\n",
			BaseDir: ".",
			Source:  "index.md",
		})

		assert.Equal(t, "# Tessera\nBody\n", result.Text)
		assert.False(t, result.Degraded())
	})

	t.Run("keeps the marker when the template is missing", func(t *testing.T) {
		result := engine.Expand(domain.Document{
			Text:    "{{#template gone.md}}",
			BaseDir: ".",
			Source:  "index.md",
		})

		assert.Equal(t, "{{#template gone.md}}", result.Text)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, domain.DiagFileReadFailure, result.Diagnostics[0].Kind)
		assert.Equal(t, "index.md", result.Diagnostics[0].Source)
	})
}

func TestEngine_WithMaxDepth(t *testing.T) {
	reader := memory.NewReader(map[string]string{
		"loop.md": "x {{#template loop.md}}",
	})
	engine := tessera.New(
		tessera.WithReader(reader),
		tessera.WithMaxDepth(2),
	)

	result := engine.ExpandString("{{#template loop.md}}", ".", "loop.md")

	assert.Equal(t, "x x ", result.Text)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.DiagDepthExceeded, result.Diagnostics[0].Kind)
}

func TestEngine_DefaultReaderUsesFilesystem(t *testing.T) {
	engine := tessera.New()

	result := engine.ExpandString("plain text, no markers", ".", "memo.md")

	assert.Equal(t, "plain text, no markers", result.Text)
	assert.False(t, result.Degraded())
}
