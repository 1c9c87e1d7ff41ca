// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"fmt"
	"strconv"
	"strings"
)

// Wire member names of a command object
const (
	CommandKey   = "command"
	ParameterKey = "parameter"
)

// Command is one outbound request: a catalogued command plus its parameter,
// when the command takes one.
//
// A Command that needs a parameter always has one; use MakeCommand or
// ParseQueryString to build it.
type Command struct {
	request      Request
	parameter    string
	hasParameter bool
}

// MakeCommand builds a Command from a Request and an optional parameter
//
// An empty parameter means none was supplied. Commands that take a
// parameter fail without one; a parameter given to a command that takes
// none is dropped.
//
// Example:
//
//	cmd, err := cgminer.MakeCommand(cgminer.RequestASCEnable, "0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	wire, _ := cmd.JSON() // {"command":"ascenable","parameter":"0"}
func MakeCommand(request Request, parameter string) (Command, error) {
	if !request.Valid() {
		return Command{}, syntaxError("command", ErrInvalidRequest, request.String())
	}
	if !request.IncludesParameter() {
		return Command{request: request}, nil
	}
	if parameter == "" {
		return Command{}, syntaxError("command", ErrMissingParameter, request.WireName())
	}
	return Command{request: request, parameter: parameter, hasParameter: true}, nil
}

// Request returns the command identifier
func (c Command) Request() Request {
	return c.request
}

// Parameter returns the parameter and whether one is present
func (c Command) Parameter() (string, bool) {
	return c.parameter, c.hasParameter
}

// JSON returns the wire form of the command
//
// The command member always comes first:
//
//	{"command":"summary"}
//	{"command":"ascenable","parameter":"0"}
func (c Command) JSON() (string, error) {
	if !c.request.Valid() {
		return "", syntaxError("encode", ErrInvalidRequest, c.request.String())
	}
	return Body{}.
		Set(CommandKey, c.request.WireName()).
		SetIf(c.hasParameter && c.request.IncludesParameter(), ParameterKey, c.parameter).
		String()
}

// String returns the wire JSON, or a placeholder if the command is invalid
func (c Command) String() string {
	s, err := c.JSON()
	if err != nil {
		return fmt.Sprintf("<invalid command %s>", c.request)
	}
	return s
}

// ParseQueryString parses an HTTP-style query string into a Command
//
// The accepted form is
//
//	command=<name>[&parameter=<integer>]
//
// with '&' or ';' as separator and an optional leading '?'. The command name
// is resolved with RequestFromWireName. Commands that take a parameter need
// a second segment "parameter=<value>" whose value is a base-10 integer;
// the raw text becomes the parameter. Further segments are ignored.
//
// All failures are *CgminerError of KindSyntax wrapping one of
// ErrEmptyQuery, ErrMissingCommandPrefix, ErrInvalidRequest,
// ErrMissingParameter, ErrMissingKeyword or ErrParameterNotInteger.
func ParseQueryString(text string) (Command, error) {
	query := strings.TrimPrefix(text, "?")
	if query == "" {
		return Command{}, syntaxError("parse", ErrEmptyQuery, text)
	}

	segments := splitQuery(query)

	// Stage 1: command=<name>
	key, name, found := strings.Cut(segments[0], "=")
	if !found || key != CommandKey {
		return Command{}, syntaxError("parse", ErrMissingCommandPrefix, text)
	}

	// Stage 2: resolve the name
	request, ok := RequestFromWireName(name)
	if !ok {
		return Command{}, syntaxError("parse", ErrInvalidRequest, name)
	}
	if !request.IncludesParameter() {
		return Command{request: request}, nil
	}

	// Stage 3: parameter=<integer>
	if len(segments) < 2 {
		return Command{}, syntaxError("parse", ErrMissingParameter, name)
	}
	key, value, found := strings.Cut(segments[1], "=")
	if !found || key != ParameterKey {
		return Command{}, syntaxError("parse", ErrMissingKeyword, redactFragment(request, segments[1]))
	}
	if value == "" {
		return Command{}, syntaxError("parse", ErrParameterNotInteger, redactFragment(request, segments[1]))
	}
	if _, err := strconv.ParseInt(value, 10, 32); err != nil {
		return Command{}, syntaxError("parse", ErrParameterNotInteger, redactFragment(request, value))
	}

	return Command{request: request, parameter: value, hasParameter: true}, nil
}

// redactFragment keeps credential-carrying parameters out of errors
func redactFragment(request Request, fragment string) string {
	if containsRequest(redactedRequests, request) {
		return RedactedMessage
	}
	return fragment
}

// splitQuery splits on '&' and ';'. Empty segments between separators are
// kept, trailing empty segments are dropped.
func splitQuery(query string) []string {
	segments := strings.Split(strings.ReplaceAll(query, ";", "&"), "&")
	for len(segments) > 1 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return segments
}
