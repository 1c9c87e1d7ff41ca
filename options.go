// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import "time"

// Client configuration options using the functional options pattern

// Port sets the daemon API port (default: 4028)
func Port(port int) func(*Client) {
	return func(c *Client) {
		c.Port = port
	}
}

// ConnectTimeout bounds how long dialing the daemon may take
//
// The default is zero, which leaves the dial unbounded apart from the
// operating system's own limits and any context deadline.
func ConnectTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.ConnectTimeout = duration
	}
}

// WithLogger sets a custom logger for the client
//
// By default, the client uses NoOpLogger (no logging). Use this option to
// enable logging with DefaultLogger or a custom adapter for slog, zap or
// logrus. A nil logger is ignored.
//
// Example:
//
//	logger := cgminer.NewDefaultLogger(cgminer.LogLevelDebug)
//	client, _ := cgminer.NewClient("192.168.1.50", cgminer.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in logs
//
// Only affects the command and reply payloads logged at Debug level.
//
// Default: disabled (false)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Request modifiers for individual operations

// Timeout returns a request modifier that bounds the whole operation:
// connect, write, read and decode.
//
// A deadline already on the context still applies; the earlier one wins.
//
// Example:
//
//	res, err := client.Do(ctx, cmd, cgminer.Timeout(10*time.Second))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}
