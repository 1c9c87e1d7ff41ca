// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a CgminerError so callers can branch on the cause
type ErrorKind int

const (
	// KindConnection covers name resolution and socket I/O failures
	KindConnection ErrorKind = iota

	// KindSyntax covers invalid commands and query strings.
	// These never reach the transport.
	KindSyntax

	// KindSchema covers replies that are valid JSON but miss a section,
	// a required key, or have the wrong section cardinality
	KindSchema

	// KindMalformedJSON covers replies that are not a JSON object at all
	KindMalformedJSON
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindSyntax:
		return "syntax"
	case KindSchema:
		return "schema"
	case KindMalformedJSON:
		return "malformed json"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Sentinel causes wrapped by CgminerError. Test with errors.Is.
var (
	ErrEmptyQuery           = errors.New("empty query string")
	ErrMissingCommandPrefix = errors.New(`"command=" expected at start of query string`)
	ErrInvalidRequest       = errors.New("invalid request")
	ErrMissingParameter     = errors.New("missing parameter")
	ErrMissingKeyword       = errors.New(`missing "parameter" keyword`)
	ErrParameterNotInteger  = errors.New("parameter is not an integer")
	ErrMissingSection       = errors.New("missing reply section")
	ErrCardinality          = errors.New("unexpected section size")
	ErrMissingKey           = errors.New("missing key")
	ErrWrongType            = errors.New("unexpected value type")
	ErrMalformedJSON        = errors.New("reply is not a JSON object")
)

// CgminerError represents a structured cgminer API error with operation context
type CgminerError struct {
	// Kind classifies the failure
	Kind ErrorKind

	// Operation name that failed (e.g. "call", "parse", "decode summary")
	Operation string

	// Human-readable error message
	Message string

	// Fragment is the offending input: a query-string segment, a reply key,
	// or the host:port that could not be reached
	Fragment string

	// InternalMsg contains detailed error information for internal logging
	InternalMsg string

	// Err is the underlying cause
	Err error
}

// Error implements the error interface
func (e *CgminerError) Error() string {
	if e.Fragment != "" {
		return fmt.Sprintf("cgminer: %s failed: %s: %q", e.Operation, e.Message, e.Fragment)
	}
	return fmt.Sprintf("cgminer: %s failed: %s", e.Operation, e.Message)
}

// DetailedError returns the full error message including internal details
//
// Reply payloads can end up in InternalMsg, so this should only be used
// for debug output.
func (e *CgminerError) DetailedError() string {
	if e.InternalMsg == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s (internal: %s)", e.Error(), e.InternalMsg)
}

// Unwrap returns the underlying cause
func (e *CgminerError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err, or any error it wraps, is a CgminerError of
// the given kind
//
// Example:
//
//	res, err := client.Summary(ctx)
//	if cgminer.IsKind(err, cgminer.KindSchema) {
//	    // partial result, res.Replies still usable
//	}
func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	// errors.Join results are walked by hand since errors.As stops at the
	// first match.
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if IsKind(e, kind) {
				return true
			}
		}
		return false
	}
	var cerr *CgminerError
	if errors.As(err, &cerr) {
		return cerr.Kind == kind
	}
	return false
}

func syntaxError(op string, cause error, fragment string) *CgminerError {
	return &CgminerError{
		Kind:      KindSyntax,
		Operation: op,
		Message:   cause.Error(),
		Fragment:  fragment,
		Err:       cause,
	}
}

func schemaError(op string, cause error, fragment string, detail string) *CgminerError {
	return &CgminerError{
		Kind:        KindSchema,
		Operation:   op,
		Message:     cause.Error(),
		Fragment:    fragment,
		InternalMsg: detail,
		Err:         cause,
	}
}
