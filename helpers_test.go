// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

const testStatusSummary = `{"STATUS":"S","When":1588787447,"Code":11,"Msg":"Summary","Description":"cgminer 4.10.0"}`

const testSummaryObject = `{"Elapsed":93784,"MHS av":13542.17,"MHS 5s":13580.01,"MHS 1m":13561.4,` +
	`"MHS 5m":13549.92,"MHS 15m":13544.78,"Found Blocks":0,"Getworks":2875,"Accepted":9852,` +
	`"Rejected":12,"Hardware Errors":41,"Utility":6.3,"Discarded":5677,"Stale":1,"Get Failures":0,` +
	`"Local Work":1234567,"Remote Failures":0,"Network Blocks":155,"Total MH":1270061234.5,` +
	`"Work Utility":189.02,"Difficulty Accepted":315264,"Difficulty Rejected":384,` +
	`"Difficulty Stale":32,"Best Share":4294967296,"Device Hardware%":0.0139,` +
	`"Device Rejected%":0.131,"Pool Rejected%":0.1217,"Pool Stale%":0.0101,"Last getwork":1588787446}`

const testSummaryReply = `{"STATUS":[` + testStatusSummary + `],"SUMMARY":[` + testSummaryObject + `],"id":1}`

const testDevsReply = `{"STATUS":[{"STATUS":"S","When":1588787500,"Code":9,"Msg":"2 ASC(s)","Description":"cgminer 4.10.0"}],` +
	`"DEVS":[` + testDev0 + `,` + testDev1 + `],"id":1}`

const testDev0 = `{"ASC":0,"Name":"GSD","ID":0,"Enabled":"Y","Status":"Alive","Temperature":41.5,` +
	`"MHS av":6771.1,"MHS 5s":6790.0,"MHS 1m":6780.7,"MHS 5m":6774.9,"MHS 15m":6772.3,` +
	`"Accepted":4926,"Rejected":6,"Hardware Errors":20,"Utility":3.15,"Last Share Pool":0,` +
	`"Last Share Time":1588787490,"Total MH":635030617.2,"Diff1 Work":157632,` +
	`"Difficulty Accepted":157632,"Difficulty Rejected":192,"Last Share Difficulty":32,` +
	`"No Device":false,"Last Valid Work":1588787499,"Device Hardware%":0.0127,` +
	`"Device Rejected%":0.1216,"Device Elapsed":93780}`

const testDev1 = `{"ASC":1,"Name":"GSD","ID":1,"Enabled":"N","Status":"Dead","Temperature":0,` +
	`"MHS av":0,"MHS 5s":0,"MHS 1m":0,"MHS 5m":0,"MHS 15m":0,` +
	`"Accepted":0,"Rejected":0,"Hardware Errors":0,"Utility":0,"Last Share Pool":-1,` +
	`"Last Share Time":0,"Total MH":0,"Diff1 Work":0,` +
	`"Difficulty Accepted":0,"Difficulty Rejected":0,"Last Share Difficulty":0,` +
	`"No Device":true,"Last Valid Work":0,"Device Hardware%":0,` +
	`"Device Rejected%":0,"Device Elapsed":0}`

const testInvalidCommandReply = `{"STATUS":[{"STATUS":"E","When":1588787600,"Code":14,"Msg":"Invalid command","Description":"cgminer 4.10.0"}],"id":1}`

// fakeDaemon answers every connection with one reply, the way cgminer does
type fakeDaemon struct {
	ln    net.Listener
	reply func(request string) string

	// nulTerminated appends a NUL to the reply
	nulTerminated bool
	// keepOpen leaves the connection open after the reply, so the client
	// has to stop at the NUL
	keepOpen bool
	// delay postpones the reply
	delay time.Duration

	mu       sync.Mutex
	requests []string

	wg   sync.WaitGroup
	done chan struct{}
}

func startFakeDaemon(t *testing.T, reply func(request string) string, opts ...func(*fakeDaemon)) *fakeDaemon {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	d := &fakeDaemon{ln: ln, reply: reply, done: make(chan struct{})}
	for _, opt := range opts {
		opt(d)
	}

	d.wg.Add(1)
	go d.serve()

	t.Cleanup(func() {
		close(d.done)
		_ = d.ln.Close()
		d.wg.Wait()
	})
	return d
}

func staticReply(reply string) func(string) string {
	return func(string) string { return reply }
}

func (d *fakeDaemon) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.wg.Add(1)
		go d.handle(conn)
	}
}

func (d *fakeDaemon) handle(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	request := readRequest(conn)
	d.mu.Lock()
	d.requests = append(d.requests, request)
	d.mu.Unlock()

	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-d.done:
			return
		}
	}

	out := d.reply(request)
	if d.nulTerminated {
		out += "\x00"
	}
	if _, err := conn.Write([]byte(out)); err != nil {
		return
	}

	if d.keepOpen {
		// Wait for the client to hang up
		buf := make([]byte, 1)
		for {
			if _, err := conn.Read(buf); err != nil {
				return
			}
		}
	}
}

// readRequest reads until the bytes form a complete JSON value, or until
// the client stops sending
func readRequest(conn net.Conn) string {
	var data []byte
	buf := make([]byte, 4096)
	for attempt := 0; attempt < 25; attempt++ {
		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := conn.Read(buf)
		data = append(data, buf[:n]...)
		if gjson.ValidBytes(data) {
			break
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() && len(data) == 0 {
				continue
			}
			break
		}
	}
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	return string(data)
}

func (d *fakeDaemon) host() string {
	host, _, _ := net.SplitHostPort(d.ln.Addr().String())
	return host
}

func (d *fakeDaemon) port() int {
	_, port, _ := net.SplitHostPort(d.ln.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

func (d *fakeDaemon) address() string {
	return d.ln.Addr().String()
}

func (d *fakeDaemon) client(t *testing.T, opts ...func(*Client)) *Client {
	t.Helper()
	client, err := NewClient(d.host(), append([]func(*Client){Port(d.port())}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func (d *fakeDaemon) received() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.requests...)
}

// closedPort returns a loopback port with nothing listening on it
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	_ = ln.Close()
	n, _ := strconv.Atoi(port)
	return n
}

// recordingLogger captures log calls for assertions
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level string
	msg   string
	kv    []any
}

func (r *recordingLogger) add(level, msg string, kv []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, msg: msg, kv: kv})
}

func (r *recordingLogger) Debug(_ context.Context, msg string, kv ...any) { r.add("DEBUG", msg, kv) }
func (r *recordingLogger) Info(_ context.Context, msg string, kv ...any)  { r.add("INFO", msg, kv) }
func (r *recordingLogger) Warn(_ context.Context, msg string, kv ...any)  { r.add("WARN", msg, kv) }
func (r *recordingLogger) Error(_ context.Context, msg string, kv ...any) { r.add("ERROR", msg, kv) }

func (r *recordingLogger) byLevel(level string) []logEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []logEntry
	for _, e := range r.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

// value returns the value logged under key, if any
func (e logEntry) value(key string) (any, bool) {
	for i := 0; i+1 < len(e.kv); i += 2 {
		if e.kv[i] == key {
			return e.kv[i+1], true
		}
	}
	return nil, false
}
