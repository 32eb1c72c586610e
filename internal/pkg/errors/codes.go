package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrConflict        = 1003
	ErrBadRequest      = 1004
	ErrServiceUnavail  = 1005
	ErrTooManyRequests = 1006

	// Storage errors (6000-6999)
	ErrStorageObjectNotFound = 6000
	ErrStorageInvalidInput   = 6001
	ErrStorageFileTooSmall   = 6002
	ErrStorageFileTooLarge   = 6003
	ErrStorageWriteFailed    = 6004
	ErrStorageCorruptRecord  = 6005
	ErrStorageTieringFailed  = 6006
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrConflict:        {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},

	// Storage errors
	ErrStorageObjectNotFound: {ErrStorageObjectNotFound, http.StatusNotFound, "File not found"},
	ErrStorageInvalidInput:   {ErrStorageInvalidInput, http.StatusBadRequest, "Invalid file input"},
	ErrStorageFileTooSmall:   {ErrStorageFileTooSmall, http.StatusBadRequest, "File size must be at least 1MB"},
	ErrStorageFileTooLarge:   {ErrStorageFileTooLarge, http.StatusBadRequest, "File size exceeds maximum limit of 10GB"},
	ErrStorageWriteFailed:    {ErrStorageWriteFailed, http.StatusInternalServerError, "Storage write failed"},
	ErrStorageCorruptRecord:  {ErrStorageCorruptRecord, http.StatusNotFound, "File metadata unreadable"},
	ErrStorageTieringFailed:  {ErrStorageTieringFailed, http.StatusInternalServerError, "Tiering pass failed"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
