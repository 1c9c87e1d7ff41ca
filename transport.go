// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"context"
	"io"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// readChunkSize bounds a single read from the daemon socket. It only
// affects buffering.
const readChunkSize = 65535

// roundTrip sends request over a fresh TCP connection to address and
// returns everything the daemon writes back.
//
// The reply ends when the daemon closes the connection or when a read
// returns a chunk whose last byte is NUL; the NUL is dropped. The
// connection is closed on every return path.
func roundTrip(ctx context.Context, dialer *net.Dialer, address, request string) (string, error) {
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return "", connectionError("connect", address, ctxErr(ctx, err))
	}
	defer conn.Close() //nolint:errcheck // Close error carries no information after a full read

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", connectionError("connect", address, err)
		}
	}

	// Cancelling ctx unblocks a pending read or write.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0)) //nolint:errcheck // best effort unblock
	})
	defer stop()

	if _, err := io.WriteString(conn, request); err != nil {
		return "", connectionError("write", address, ctxErr(ctx, err))
	}

	reply, err := readReply(conn)
	if err != nil {
		return "", connectionError("read", address, ctxErr(ctx, err))
	}
	return reply, nil
}

// readReply accumulates chunks until EOF or a chunk that ends in NUL
func readReply(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if chunk[n-1] == 0 {
				sb.Write(chunk[:n-1])
				return sb.String(), nil
			}
			sb.Write(chunk)
		}
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// ctxErr prefers the context error over the deadline error it caused. The
// socket deadline can fire just before ctx is marked done.
func ctxErr(ctx context.Context, err error) error {
	cause := ctx.Err()
	if cause == nil {
		if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
			cause = context.DeadlineExceeded
		}
	}
	if cause != nil {
		return errors.Wrap(cause, err.Error())
	}
	return err
}

func connectionError(op, address string, err error) *CgminerError {
	wrapped := errors.Wrapf(err, "%s %s", op, address)
	return &CgminerError{
		Kind:        KindConnection,
		Operation:   "call",
		Message:     wrapped.Error(),
		Fragment:    address,
		InternalMsg: errors.Cause(err).Error(),
		Err:         wrapped,
	}
}
