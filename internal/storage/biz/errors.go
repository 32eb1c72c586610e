package biz

import "errors"

// Object metadata errors
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrCorruptRecord  = errors.New("object metadata record is corrupt")
)

// Upload validation errors
var (
	ErrFileTooSmall = errors.New("file size must be at least 1MB")
	ErrFileTooLarge = errors.New("file size exceeds maximum limit of 10GB")
	ErrFileEmpty    = errors.New("file content is required")
)

// Blob store errors
var (
	ErrBlobWriteFailed = errors.New("failed to write object content")
	ErrBlobReadFailed  = errors.New("failed to read object content")
)
