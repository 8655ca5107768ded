package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFileReaderContract verifies that a FileReader implementation adheres to
// the interface contract. The reader must already contain a file at
// existingPath with content wantContent; missingPath must not resolve.
func RunFileReaderContract(t *testing.T, reader FileReader, existingPath, wantContent, missingPath string) {
	t.Helper()

	const marker = "{{#template contract.md}}"

	t.Run("Existing file", func(t *testing.T) {
		content, err := reader.ReadFile(existingPath, marker)
		require.NoError(t, err, "ReadFile should not fail for an existing file")
		assert.Equal(t, wantContent, content)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := reader.ReadFile(missingPath, marker)
		require.Error(t, err, "ReadFile should fail for a missing file")
		// The error must name both the marker and the resolved path so
		// the diagnostic is actionable.
		assert.Contains(t, err.Error(), marker)
		assert.Contains(t, err.Error(), missingPath)
	})
}
