// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import "time"

// Req holds per-operation settings applied through request modifiers
//
// Example:
//
//	res, err := client.Summary(ctx, cgminer.Timeout(5*time.Second))
type Req struct {
	// Timeout bounds the operation. Zero means no timeout beyond the
	// context's own deadline.
	Timeout time.Duration
}

// newReq applies mods to a zero Req
func newReq(mods []func(*Req)) *Req {
	req := &Req{}
	for _, mod := range mods {
		mod(req)
	}
	return req
}
