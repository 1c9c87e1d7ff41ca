// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import "github.com/tidwall/gjson"

// Res is the result of one round trip
type Res struct {
	// Command is the command that was sent
	Command Command

	// Raw is the reply text exactly as received, minus a trailing NUL
	Raw string

	// Replies holds the decoded records in reply order
	Replies []Reply
}

// Status returns the decoded STATUS record, or nil if it failed to decode
func (r Res) Status() *Status {
	for _, reply := range r.Replies {
		if s, ok := reply.(*Status); ok {
			return s
		}
	}
	return nil
}

// Summary returns the decoded SUMMARY record, or nil if the reply had none
func (r Res) Summary() *Summary {
	for _, reply := range r.Replies {
		if s, ok := reply.(*Summary); ok {
			return s
		}
	}
	return nil
}

// Devs returns the decoded DEVS records in reply order
func (r Res) Devs() []*Devs {
	var devs []*Devs
	for _, reply := range r.Replies {
		if d, ok := reply.(*Devs); ok {
			devs = append(devs, d)
		}
	}
	return devs
}

// OK reports whether the daemon answered with a Success or Informational
// status
//
// Errors and warnings from the daemon (for example "Invalid command" or
// "Missing device id parameter") come back as a well-formed reply with a
// STATUS letter of E or W; they are not Go errors.
func (r Res) OK() bool {
	s := r.Status()
	if s == nil {
		return false
	}
	return s.Status == StatusSuccess || s.Status == StatusInformational
}

// GetValue retrieves a value from the raw reply using a gjson path
//
// Keys containing spaces work as is, dots and wildcards need escaping.
// Sections the typed decoder does not cover (POOLS, VERSION, STATS, ...)
// are reached this way.
//
// Example:
//
//	res, err := client.Version(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.GetValue("VERSION.0.API").String())
//	fmt.Println(res.GetValue("VERSION.0.CGMiner").String())
func (r Res) GetValue(path string) gjson.Result {
	if r.Raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.Raw, path)
}
