package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tessera/internal/adapters/file"
	"github.com/aretw0/tessera/internal/cli"
	"github.com/aretw0/tessera/internal/engine"
	"github.com/aretw0/tessera/internal/logging"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuild_ExpandsMarkdownTree(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeTree(t, srcDir, map[string]string{
		"intro.md":         "Welcome\n{{#template footer.md author=Goudham}}\n",
		"footer.md":        "-- [[#author]] --",
		"guide/setup.md":   "Steps\n{{#template ../footer.md author=Hazel}}\n",
		"assets/style.css": "body {}",
	})

	eng := engine.New(file.NewReader())
	result, err := cli.Build(eng, cli.BuildOptions{
		SourceDir: srcDir,
		OutputDir: outDir,
	}, logging.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Documents)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 0, result.Diagnostics)

	assert.Equal(t, "Welcome\n-- Goudham --\n", readFile(t, filepath.Join(outDir, "intro.md")))
	assert.Equal(t, "Steps\n-- Hazel --\n", readFile(t, filepath.Join(outDir, "guide/setup.md")))
	assert.Equal(t, "body {}", readFile(t, filepath.Join(outDir, "assets/style.css")))
}

func TestBuild_TemplatesDirOverridesBase(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	tplDir := t.TempDir()
	writeTree(t, srcDir, map[string]string{
		"guide/setup.md": "{{#template footer.md author=Hazel}}\n",
	})
	writeTree(t, tplDir, map[string]string{
		"footer.md": "-- [[#author]] --",
	})

	eng := engine.New(file.NewReader())
	result, err := cli.Build(eng, cli.BuildOptions{
		SourceDir:    srcDir,
		OutputDir:    outDir,
		TemplatesDir: tplDir,
	}, logging.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Diagnostics)
	assert.Equal(t, "-- Hazel --\n", readFile(t, filepath.Join(outDir, "guide/setup.md")))
}

func TestBuild_DegradedDocumentsStillWritten(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeTree(t, srcDir, map[string]string{
		"broken.md": "Before\n{{#template missing.md}}\nAfter\n",
	})

	eng := engine.New(file.NewReader())
	result, err := cli.Build(eng, cli.BuildOptions{
		SourceDir: srcDir,
		OutputDir: outDir,
	}, logging.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Diagnostics)
	assert.Equal(t, "Before\n{{#template missing.md}}\nAfter\n", readFile(t, filepath.Join(outDir, "broken.md")))
}

func TestBuild_MissingSourceDirFails(t *testing.T) {
	eng := engine.New(file.NewReader())
	_, err := cli.Build(eng, cli.BuildOptions{
		SourceDir: filepath.Join(t.TempDir(), "absent"),
		OutputDir: t.TempDir(),
	}, logging.NewNop())
	require.Error(t, err)
}
