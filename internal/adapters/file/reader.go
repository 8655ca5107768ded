package file

import (
	"fmt"
	"os"
)

// Reader implements ports.FileReader against the local filesystem.
type Reader struct{}

// NewReader creates a filesystem reader.
func NewReader() Reader {
	return Reader{}
}

// ReadFile reads the file at path from disk. The error message names both
// the requesting marker and the resolved path so the diagnostic tells the
// author which invocation broke.
func (Reader) ReadFile(path string, markerText string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read template file %s (%s): %w", markerText, path, err)
	}
	return string(data), nil
}
