// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body is a fluent builder for the JSON objects sent to the daemon.
//
// Members are appended in the order they are first set, which keeps the
// wire form of a command stable ({"command":...} before {"parameter":...}).
// The first error is kept and every later call becomes a no-op.
//
// Example:
//
//	req, err := cgminer.Body{}.
//	    Set("command", "ascenable").
//	    Set("parameter", "0").
//	    String()
type Body struct {
	str string
	err error
}

// Set sets a member and returns a new Body
//
// Keys are taken literally: dots and wildcards in keys such as "MHS 5s" or
// "Device Hardware%" are escaped before being handed to sjson.
func (b Body) Set(key string, value any) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Set(b.str, escapeKey(key), value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", key, err)}
	}
	return Body{str: result}
}

// SetIf sets a member only when cond is true
func (b Body) SetIf(cond bool, key string, value any) Body {
	if !cond {
		return b
	}
	return b.Set(key, value)
}

// Delete removes a member and returns a new Body
func (b Body) Delete(key string) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Delete(b.str, escapeKey(key))
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", key, err)}
	}
	return Body{str: result}
}

// String returns the JSON text and any error encountered while building
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns any error that occurred while building
func (b Body) Err() error {
	return b.err
}

// Bytes returns the JSON text as a byte slice
func (b Body) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []byte(b.str), nil
}

// bodyFrom starts a Body from existing JSON text
func bodyFrom(json string) Body {
	return Body{str: json}
}

// escapeKey escapes the characters sjson and gjson treat as path syntax
func escapeKey(key string) string {
	var out []byte
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			if out == nil {
				out = append(make([]byte, 0, len(key)+4), key[:i]...)
			}
			out = append(out, '\\', key[i])
		default:
			if out != nil {
				out = append(out, key[i])
			}
		}
	}
	if out == nil {
		return key
	}
	return string(out)
}
