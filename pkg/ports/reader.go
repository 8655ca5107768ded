package ports

// FileReader supplies the text content of template files to the expansion
// engine. Implementations must be safe for concurrent read-only use: the
// engine may expand many documents in parallel against one reader.
type FileReader interface {
	// ReadFile returns the content of the file at the fully resolved
	// path. markerText is the raw invocation that requested the file;
	// failures must carry it, along with the path, in their message so
	// authors can locate the broken marker.
	ReadFile(path string, markerText string) (string, error)
}
