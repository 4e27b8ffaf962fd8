package source

import (
	"context"
	"os"

	apperrors "proddash/internal/errors"
)

// FileSource reads the export from a local path.
type FileSource struct {
	path     string
	maxBytes int64
}

// NewFileSource creates a fetcher for path.
func NewFileSource(path string, maxBytes int64) *FileSource {
	return &FileSource{path: path, maxBytes: maxBytes}
}

// Kind implements Fetcher
func (s *FileSource) Kind() string { return "file" }

// Location implements Fetcher
func (s *FileSource) Location() string { return s.path }

// Path is the file being read.
func (s *FileSource) Path() string { return s.path }

// Fetch reads the whole file. A missing or unreadable file is a FETCH error.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewFetchError("read file", err).WithContext("path", s.path)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.NewFetchError("open file", err).WithContext("path", s.path)
	}
	defer f.Close()

	body, err := readLimited(f, s.maxBytes)
	if err != nil {
		return nil, apperrors.NewFetchError("read file", err).WithContext("path", s.path)
	}
	return body, nil
}
