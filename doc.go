// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package cgminer is a client for the cgminer API (version 4.10.0), the
// JSON-over-TCP control interface of the cgminer mining daemon.
//
// Each call opens a TCP connection to the daemon (port 4028 by default),
// writes one JSON command, reads the reply until the daemon closes the
// connection, and decodes the STATUS, SUMMARY and DEVS sections into typed
// records.
//
// # Quick Start
//
//	client, err := cgminer.NewClient("192.168.1.50")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	res, err := client.Summary(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if s := res.Summary(); s != nil {
//	    fmt.Printf("up %s, %.2f MH/s\n", cgminer.FormatElapsed(s.Elapsed), s.MHSAv)
//	}
//
// # Commands
//
// Commands are built from the Request catalog or parsed from an HTTP-style
// query string:
//
//	cmd, err := cgminer.MakeCommand(cgminer.RequestASCEnable, "0")
//	cmd, err = cgminer.ParseQueryString("command=ascenable&parameter=0")
//
//	wire, _ := cmd.JSON() // {"command":"ascenable","parameter":"0"}
//	res, err := client.Do(ctx, cmd)
//
// The lower-level pair Call and Decode works on raw text:
//
//	raw, err := client.Call(ctx, `{"command":"devs"}`)
//	replies, err := cgminer.Decode(raw)
//
// # Error Handling
//
// Every failure is a *CgminerError with a Kind:
//
//   - KindConnection: host lookup, connect, write or read failed
//   - KindSyntax: a command or query string was rejected before sending
//   - KindSchema: the reply is JSON but a section or key is missing or
//     mistyped; the records that did decode are still returned
//   - KindMalformedJSON: the reply is not a JSON object
//
// Use IsKind or errors.As to branch on the kind and errors.Is to test the
// sentinel causes (ErrMissingParameter, ErrMissingKey, ...).
//
// A daemon that answers with an error status ("Invalid command") is not a Go
// error. Check Res.OK.
//
// # Concurrency
//
// A Client has no per-call state and is safe for concurrent use. Each call
// uses its own connection; nothing is pooled or retried.
//
// # Logging
//
// Logging is off by default. Pass WithLogger with a DefaultLogger or an
// adapter for another logging library. At Debug level the client logs every
// command and reply with a request_id; addpool parameters, which carry pool
// credentials, are redacted.
package cgminer
