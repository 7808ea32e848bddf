package models

import "errors"

var (
	// ErrUnsupportedFileType is returned when a document's extension is
	// not one of the recognized formats.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrIndexWrite is returned on a malformed add request to the index.
	ErrIndexWrite = errors.New("index write failed")

	// ErrNoContent is returned when a topic has zero matches in the index.
	ErrNoContent = errors.New("no content found for this topic")

	// ErrInvalidConfiguration is returned when chunk overlap >= chunk size.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
