package esg

import (
	"errors"
	"fmt"
)

// ErrResolution is the only fatal pipeline error: no domain could be derived
// from the input at all.
var ErrResolution = errors.New("could not resolve a domain for the input")

// ErrOracleUnavailable signals that an external oracle could not be reached.
// The pipeline still returns whatever was computed, flagged as degraded.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// ErrExtractionSchema signals that an oracle response violated the fixed
// signal schema. The offending output is discarded, never propagated.
var ErrExtractionSchema = errors.New("extraction output violates signal schema")

// FetchError is a recoverable per-candidate fetch failure. The candidate is
// skipped and logged; the run continues.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is a recoverable per-candidate parse failure.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
