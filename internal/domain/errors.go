package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNotConfigured     = errors.New("not configured")
	ErrInternal          = errors.New("internal error")
)

// ErrorKind classifies failures on the LLM path.
type ErrorKind string

const (
	KindNone      ErrorKind = "none"
	KindTransport ErrorKind = "transport"
	KindUpstream  ErrorKind = "upstream"
	KindParse     ErrorKind = "parse"
	KindOther     ErrorKind = "other"
)

// TransportError reports that the generation service could not be reached
// (connection failure, timeout, missing credentials).
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: provider=%s op=%s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError reports a non-success answer from the generation service,
// including a success status whose body lacks the expected output fields.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream error: provider=%s status=%d code=%s: %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream error: provider=%s status=%d: %s", e.Provider, e.StatusCode, e.Message)
}

// MaxExcerptRunes bounds ParseError.Excerpt.
const MaxExcerptRunes = 1000

// ParseError reports generated text that is not valid JSON.
// Line and Column are 1-based; Excerpt holds at most MaxExcerptRunes runes.
type ParseError struct {
	Line      int
	Column    int
	Message   string
	Excerpt   string
	Truncated bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d column %d: %s", e.Line, e.Column, e.Message)
}

// KindOf maps an error to its ErrorKind. A nil error is KindNone.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var te *TransportError
	if errors.As(err, &te) {
		return KindTransport
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return KindUpstream
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return KindParse
	}
	return KindOther
}
