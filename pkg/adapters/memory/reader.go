package memory

import (
	"fmt"
	"path/filepath"
)

// Reader is a ports.FileReader backed by a preloaded path→content map.
// It exists so the engine is testable without real file I/O, and doubles
// as the reader for fully in-memory hosts. Reads never mutate the map, so
// a Reader is safe for concurrent use.
type Reader struct {
	files map[string]string
}

// NewReader creates a reader over files. Keys are slash-separated paths;
// lookups normalize the platform separator.
func NewReader(files map[string]string) Reader {
	return Reader{files: files}
}

// ReadFile looks path up in the preloaded map. Absence yields an error of
// the same shape as the filesystem reader's.
func (r Reader) ReadFile(path string, markerText string) (string, error) {
	content, ok := r.files[filepath.ToSlash(path)]
	if !ok {
		return "", fmt.Errorf("could not read template file %s (%s)", markerText, path)
	}
	return content, nil
}
