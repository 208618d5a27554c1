package toc

import (
	"errors"
	"fmt"
)

const (
	// DefaultMinLevel is the shallowest heading kept. Level 1 is the page title.
	DefaultMinLevel = 2

	// DefaultMaxLevel is the deepest heading kept.
	DefaultMaxLevel = 4

	// DefaultMaxNesting bounds the number of nested frames.
	DefaultMaxNesting = 16
)

// Options configures a Builder.
type Options struct {
	// MinLevel is the shallowest heading level included. Headings at this
	// level are rendered as toc-label sections instead of list items.
	MinLevel int

	// MaxLevel is the deepest heading level included. Deeper headings are
	// skipped, never folded into MaxLevel.
	MaxLevel int

	// MaxNesting is the maximum number of nested outline frames.
	MaxNesting int
}

// DefaultOptions returns the options used by the documentation layouts.
func DefaultOptions() Options {
	return Options{
		MinLevel:   DefaultMinLevel,
		MaxLevel:   DefaultMaxLevel,
		MaxNesting: DefaultMaxNesting,
	}
}

// Validate checks the option values.
func (o Options) Validate() error {
	if o.MinLevel < 2 {
		return fmt.Errorf("min level must be at least 2, got %d", o.MinLevel)
	}
	if o.MaxLevel < o.MinLevel {
		return fmt.Errorf("max level %d is lower than min level %d", o.MaxLevel, o.MinLevel)
	}
	if o.MaxNesting < 1 {
		return fmt.Errorf("max nesting must be positive, got %d", o.MaxNesting)
	}
	return nil
}

// ErrMalformedDocument is matched by errors returned when the heading
// structure nests deeper than the configured bound.
var ErrMalformedDocument = errors.New("malformed document")

// MalformedDocumentError reports where the nesting bound was exceeded.
type MalformedDocumentError struct {
	Limit int
	Index int
}

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("toc: malformed document: headings nest deeper than %d levels at token %d", e.Limit, e.Index)
}

// Is makes errors.Is(err, ErrMalformedDocument) hold.
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}
