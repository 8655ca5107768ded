package domain

import "errors"

// ErrDocumentNotFound is returned when a served document ID cannot be found
// in the document source.
var ErrDocumentNotFound = errors.New("document not found")
