package source

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSource is matched by every *ValidationErrors
	ErrInvalidSource = errors.New("invalid card source")

	// ErrInvalidDocument means the body could not be read as JSON or YAML
	ErrInvalidDocument = errors.New("document could not be read, is it valid JSON or YAML?")

	// ErrUnexpectedResponse covers transport failures while downloading
	ErrUnexpectedResponse = errors.New("unexpected response while downloading")

	// ErrBlockedAddress is returned when a download would reach a loopback,
	// private or link-local address and those are not allowed
	ErrBlockedAddress = errors.New("address not allowed for downloads")

	// ErrWrongDocumentType is returned when an exported card is loaded as a
	// source or the other way round
	ErrWrongDocumentType = errors.New("wrong document type")
)

// ValidationError is one schema violation
type ValidationError struct {
	// Path locates the offending value, e.g. "categories[3].name"
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error implements error
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationErrors collects every violation found in a document
type ValidationErrors struct {
	Errors []ValidationError
}

// Error implements error
func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidSource, strings.Join(e.Lines(), "; "))
}

// Unwrap lets errors.Is match ErrInvalidSource
func (e *ValidationErrors) Unwrap() error {
	return ErrInvalidSource
}

// Lines returns one human-readable line per violation
func (e *ValidationErrors) Lines() []string {
	lines := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		lines[i] = v.Error()
	}
	return lines
}

func (e *ValidationErrors) add(path, format string, args ...any) {
	e.Errors = append(e.Errors, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// err returns nil when nothing was collected
func (e *ValidationErrors) err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// StatusError is returned when a download answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error
func (e *StatusError) Error() string {
	return fmt.Sprintf("error downloading from %s: status code %d", e.URL, e.StatusCode)
}
