// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"context"
	"strconv"
	"time"
)

// Do encodes cmd, sends it and decodes the reply
//
// Error handling follows the error kind:
//   - KindConnection and KindMalformedJSON: Res carries the command (and the
//     raw reply when one was read) but no records
//   - KindSchema: Res carries the records that decoded, err lists the
//     ones that did not
//
// A daemon-level failure (status letter E or F) is not an error; check
// Res.OK or Res.Status.
//
// Example:
//
//	cmd, _ := cgminer.MakeCommand(cgminer.RequestDevs, "")
//	res, err := client.Do(ctx, cmd, cgminer.Timeout(10*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, dev := range res.Devs() {
//	    fmt.Println(dev.Name, dev.ID, dev.Temperature)
//	}
func (c *Client) Do(ctx context.Context, cmd Command, mods ...func(*Req)) (Res, error) {
	res := Res{Command: cmd}

	wire, err := cmd.JSON()
	if err != nil {
		return res, err
	}

	req := newReq(mods)
	ctx, cancel := c.createOperationContext(ctx, req)
	defer cancel()

	raw, err := c.Call(ctx, wire)
	if err != nil {
		return res, err
	}
	res.Raw = raw

	replies, err := c.Decode(ctx, raw)
	res.Replies = replies
	if err != nil {
		return res, err
	}

	if s := res.Status(); s != nil && !res.OK() {
		c.logger.Warn(ctx, "cgminer reported a non-success status",
			"address", c.Address(),
			"command", cmd.Request().WireName(),
			"status", s.Status.String(),
			"code", s.Code,
			"msg", s.Msg)
	}

	return res, nil
}

// Query parses an HTTP-style query string and runs the resulting command
//
// Parse failures are returned as KindSyntax errors before any connection is
// made.
//
// Example:
//
//	res, err := client.Query(ctx, "command=ascenable&parameter=0")
func (c *Client) Query(ctx context.Context, query string, mods ...func(*Req)) (Res, error) {
	cmd, err := ParseQueryString(query)
	if err != nil {
		c.logger.Debug(ctx, "cgminer query rejected",
			"query", redactQuery(query),
			"error", err.Error())
		return Res{}, err
	}
	return c.Do(ctx, cmd, mods...)
}

// Send builds a command from request and parameter and runs it
//
// parameter is ignored for requests that take none.
func (c *Client) Send(ctx context.Context, request Request, parameter string, mods ...func(*Req)) (Res, error) {
	cmd, err := MakeCommand(request, parameter)
	if err != nil {
		return Res{}, err
	}
	return c.Do(ctx, cmd, mods...)
}

// Summary requests the overall mining summary
//
// Example:
//
//	res, err := client.Summary(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if s := res.Summary(); s != nil {
//	    fmt.Println(cgminer.FormatElapsed(s.Elapsed), s.MHSAv)
//	}
func (c *Client) Summary(ctx context.Context, mods ...func(*Req)) (Res, error) {
	return c.Send(ctx, RequestSummary, "", mods...)
}

// Devs requests the per-device statistics
func (c *Client) Devs(ctx context.Context, mods ...func(*Req)) (Res, error) {
	return c.Send(ctx, RequestDevs, "", mods...)
}

// Version requests the daemon and API versions. The VERSION section is
// reachable through Res.GetValue.
func (c *Client) Version(ctx context.Context, mods ...func(*Req)) (Res, error) {
	return c.Send(ctx, RequestVersion, "", mods...)
}

// ASCEnable enables the ASC device with the given id
func (c *Client) ASCEnable(ctx context.Context, id int, mods ...func(*Req)) (Res, error) {
	return c.Send(ctx, RequestASCEnable, strconv.Itoa(id), mods...)
}

// ASCDisable disables the ASC device with the given id
func (c *Client) ASCDisable(ctx context.Context, id int, mods ...func(*Req)) (Res, error) {
	return c.Send(ctx, RequestASCDisable, strconv.Itoa(id), mods...)
}

// createOperationContext applies the request timeout, if any
//
// A deadline already present on ctx is kept; context.WithTimeout never
// extends it. The caller must call the returned cancel function.
func (c *Client) createOperationContext(ctx context.Context, req *Req) (context.Context, context.CancelFunc) {
	if req.Timeout > 0 {
		if req.Timeout < 100*time.Millisecond {
			c.logger.Warn(ctx, "request timeout is very short (may not complete)",
				"timeout", req.Timeout.String(),
				"address", c.Address())
		}
		return context.WithTimeout(ctx, req.Timeout)
	}
	return context.WithCancel(ctx)
}
