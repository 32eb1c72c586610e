package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	base := errors.New("disk exploded")
	err := Wrap(base, ErrStorageWriteFailed)

	assert.Equal(t, ErrStorageWriteFailed, ExtractCode(err))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "disk exploded")
}

func TestExtractCodePlainError(t *testing.T) {
	assert.Equal(t, ErrInternalServer, ExtractCode(errors.New("anything")))
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"not found", ErrStorageObjectNotFound, http.StatusNotFound},
		{"too small", ErrStorageFileTooSmall, http.StatusBadRequest},
		{"too large", ErrStorageFileTooLarge, http.StatusBadRequest},
		{"write failed", ErrStorageWriteFailed, http.StatusInternalServerError},
		{"unknown code falls back to 500", 99999, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "File not found", FormatError(ErrStorageObjectNotFound))
	assert.Equal(t, "Invalid file input: field missing", FormatError(ErrStorageInvalidInput, "field missing"))
}
