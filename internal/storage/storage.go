package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StorageError indicates that the incoming audio bytes could not be
// persisted. It is the only error class that aborts a pipeline run:
// without a stored file there is nothing downstream to operate on.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Blob is an in-memory audio byte stream together with its declared
// filename. It exists only until it has been persisted.
type Blob struct {
	Filename string
	Bytes    []byte
}

// WithStoredFile persists the blob into a fresh, collision-free temporary
// directory, invokes fn with the resulting file path, and removes the
// directory and everything under it on every exit path. Removal errors are
// deliberately ignored; a stale directory must never mask the pipeline
// result. The returned error is fn's error, or a *StorageError if the
// blob could not be written in the first place.
func WithStoredFile(blob Blob, fn func(path string) error) error {
	dir, err := os.MkdirTemp("", "voicecheck-")
	if err != nil {
		return &StorageError{Op: "mkdir", Err: err}
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, sanitizeFilename(blob.Filename))
	if err := os.WriteFile(path, blob.Bytes, 0o600); err != nil {
		return &StorageError{Op: "write", Err: err}
	}

	return fn(path)
}

// sanitizeFilename strips any directory components from a client-declared
// filename so it cannot escape the temporary directory. An empty or
// all-separator name falls back to a fixed placeholder that keeps the
// original extension-based format detection working downstream.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "audio.bin"
	}
	return name
}
