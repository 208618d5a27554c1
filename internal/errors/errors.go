package errors

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"
)

// BuildError is a problem found while building one page.
type BuildError struct {
	Page      string
	File      string
	Line      int
	Message   string
	Severity  ErrorSeverity
	Timestamp time.Time
}

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (be *BuildError) Error() string {
	if be.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", be.File, be.Line, be.Severity, be.Message)
	}
	return fmt.Sprintf("%s: %s: %s", be.File, be.Severity, be.Message)
}

// ErrorCollector collects the build errors of one build pass. It is safe for
// concurrent use by the page workers.
type ErrorCollector struct {
	buildErrors []BuildError
	mutex       sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{buildErrors: make([]BuildError, 0)}
}

// Add adds a build error to the collector
func (ec *ErrorCollector) Add(err BuildError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	ec.buildErrors = append(ec.buildErrors, err)
}

// AddError records err against a page, using the location carried by a
// NacaraError when there is one.
func (ec *ErrorCollector) AddError(page, file string, err error, severity ErrorSeverity) {
	if err == nil {
		return
	}
	be := BuildError{Page: page, File: file, Message: err.Error(), Severity: severity}
	var ne *NacaraError
	if errors.As(err, &ne) && ne.Line > 0 {
		be.Line = ne.Line
	}
	ec.Add(be)
}

// GetErrors returns the collected errors ordered by file.
func (ec *ErrorCollector) GetErrors() []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]BuildError, len(ec.buildErrors))
	copy(result, ec.buildErrors)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].File < result[j].File
	})
	return result
}

// HasErrors returns true if any collected error is at least ErrorSeverityError.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	for _, err := range ec.buildErrors {
		if err.Severity >= ErrorSeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of collected entries of any severity.
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.buildErrors)
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.buildErrors = ec.buildErrors[:0]
}

// GetErrorsByPage returns errors for a specific page
func (ec *ErrorCollector) GetErrorsByPage(page string) []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var pageErrors []BuildError
	for _, err := range ec.buildErrors {
		if err.Page == page {
			pageErrors = append(pageErrors, err)
		}
	}
	return pageErrors
}

// ErrorOverlay generates the HTML overlay the development server injects in
// pages while the last build has errors.
func (ec *ErrorCollector) ErrorOverlay() string {
	errs := ec.GetErrors()
	if len(errs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="nacara-error-overlay" style="position:fixed;inset:0;background:rgba(0,0,0,.85);color:#fff;font-family:monospace;font-size:14px;z-index:9999;padding:20px;overflow:auto">`)
	sb.WriteString(`<div style="max-width:1000px;margin:0 auto">`)
	sb.WriteString(`<div style="display:flex;justify-content:space-between;align-items:center">`)
	sb.WriteString(`<h2 style="color:#ff6b6b">Build Errors</h2>`)
	sb.WriteString(`<button onclick="document.getElementById('nacara-error-overlay').style.display='none'">Close</button></div>`)

	for _, err := range errs {
		color := "#ff6b6b"
		switch err.Severity {
		case ErrorSeverityWarning:
			color = "#feca57"
		case ErrorSeverityInfo:
			color = "#48dbfb"
		}
		fmt.Fprintf(&sb,
			`<div style="background:#2d3748;padding:15px;margin-bottom:15px;border-left:4px solid %s">`+
				`<span style="color:%s;font-weight:bold">%s</span> <span style="color:#a0aec0">%s</span>`+
				`<div><strong>%s</strong></div></div>`,
			color, color, err.Severity, html.EscapeString(err.File), html.EscapeString(err.Message))
	}

	sb.WriteString(`</div></div>`)
	return sb.String()
}
