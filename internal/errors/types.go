// Package errors provides the structured error types shared by the site
// builder, the CLI and the development server.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeBuild      ErrorType = "build"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodePathTraversal    = "ERR_PATH_TRAVERSAL"
	ErrCodePageNotFound     = "ERR_PAGE_NOT_FOUND"
	ErrCodeFrontMatter      = "ERR_FRONT_MATTER"
	ErrCodeUnknownLayout    = "ERR_UNKNOWN_LAYOUT"
	ErrCodeUnknownPlugin    = "ERR_UNKNOWN_PLUGIN"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeBuildFailed      = "ERR_BUILD_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError    = "ERR_INTERNAL"
	ErrCodeMalformedOutline = "ERR_MALFORMED_OUTLINE"
)

// NacaraError is a structured error type with context.
type NacaraError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Page        string
	FilePath    string
	Line        int
	Recoverable bool
}

// Error implements the error interface.
func (e *NacaraError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Page != "" {
		parts = append(parts, "page:"+e.Page)
	}
	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)
	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *NacaraError) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same type and code.
func (e *NacaraError) Is(target error) bool {
	var t *NacaraError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error.
func (e *NacaraError) WithContext(key string, value interface{}) *NacaraError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithLocation adds file location information.
func (e *NacaraError) WithLocation(filePath string, line int) *NacaraError {
	e.FilePath = filePath
	e.Line = line
	return e
}

// WithPage attaches the id of the page being processed.
func (e *NacaraError) WithPage(page string) *NacaraError {
	e.Page = page
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *NacaraError {
	return &NacaraError{Type: ErrorTypeValidation, Code: code, Message: message, Recoverable: true}
}

// NewBuildError creates a build error.
func NewBuildError(code, message string, cause error) *NacaraError {
	return &NacaraError{Type: ErrorTypeBuild, Code: code, Message: message, Cause: cause, Recoverable: true}
}

// NewRenderError creates an error raised while rendering a page.
func NewRenderError(code, message string, cause error) *NacaraError {
	return &NacaraError{Type: ErrorTypeRender, Code: code, Message: message, Cause: cause, Recoverable: true}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *NacaraError {
	return &NacaraError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *NacaraError {
	return &NacaraError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *NacaraError {
	return &NacaraError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ne *NacaraError
	if errors.As(err, &ne) {
		return ne.Recoverable
	}
	return false
}

// IsType reports whether err is a NacaraError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var ne *NacaraError
	if errors.As(err, &ne) {
		return ne.Type == errorType
	}
	return false
}

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *NacaraError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}

// ErrPathTraversal creates a path traversal error.
func ErrPathTraversal(path string) *NacaraError {
	return NewValidationError(ErrCodePathTraversal, "path traversal attempt: "+path)
}

// ErrUnknownLayout creates the error reported for pages asking for a layout
// that is not registered.
func ErrUnknownLayout(layout string) *NacaraError {
	return NewBuildError(ErrCodeUnknownLayout, "unknown layout: "+layout, nil)
}

// ErrUnknownPlugin creates the error reported for unregistered plugin names.
func ErrUnknownPlugin(name string) *NacaraError {
	return NewConfigError(ErrCodeUnknownPlugin, "unknown plugin: "+name)
}

// ErrPageNotFound creates the error reported when the menu references a
// missing page.
func ErrPageNotFound(id string) *NacaraError {
	return NewValidationError(ErrCodePageNotFound, "page not found: "+id)
}
