// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	mathrand "math/rand"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"
)

// Default client configuration values
const (
	DefaultHost            = "localhost"
	DefaultPort            = 4028
	DefaultConnectTimeout  = 0 // no timeout
	DefaultPrettyPrintLogs = false
)

// Limits for payload logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024
)

// Logging message constants
const (
	JSONTooLargeMessage = "[JSON TOO LARGE FOR LOGGING]"
	RedactedMessage     = "[REDACTED]"
)

// redactedRequests carry credentials in their parameter
// ("url,user,password" for addpool).
var redactedRequests = []Request{RequestAddPool}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// newRequestID returns a ULID that ties together the log lines of one call
func newRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Client talks to one cgminer daemon
//
// A Client holds configuration only. Every call opens its own TCP
// connection, sends one request, reads the reply until the daemon closes the
// connection, and closes it again. There is no session state, so a Client
// is safe for concurrent use without locking.
type Client struct {
	// Connection parameters
	Host string
	Port int

	// ConnectTimeout bounds the TCP dial. Zero means no timeout.
	ConnectTimeout time.Duration

	// Logging configuration
	logger          Logger
	prettyPrintLogs bool
}

// NewClient creates a new cgminer API client for host
//
// No connection is made here. Use Call, Do, Query or one of the shortcuts.
//
// Example:
//
//	client, err := cgminer.NewClient("192.168.1.50",
//	    cgminer.Port(4028),
//	    cgminer.ConnectTimeout(5*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err) // Configuration error
//	}
//
//	res, err := client.Summary(ctx)
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(host string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		Host:            host,
		Port:            DefaultPort,
		ConnectTimeout:  DefaultConnectTimeout,
		logger:          &NoOpLogger{},
		prettyPrintLogs: DefaultPrettyPrintLogs,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	client.logger.Debug(context.Background(), "cgminer client created",
		"host", client.Host,
		"port", client.Port)

	return client, nil
}

// NewClientFromConfig creates a client from a loaded Config
//
// Options are applied after the configuration, so they win.
func NewClientFromConfig(cfg Config, opts ...func(*Client)) (*Client, error) {
	base := []func(*Client){Port(cfg.Port)}
	if cfg.DebugLog {
		base = append(base, WithLogger(NewDefaultLogger(LogLevelDebug)))
	}
	return NewClient(cfg.Host, append(base, opts...)...)
}

// Address returns host:port as dialled by the client
func (c *Client) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Call sends request verbatim and returns the raw reply text
//
// request is normally the output of Command.JSON, but any text is sent
// as is. The reply is not inspected. A trailing NUL written by the daemon
// is removed.
//
// Failures to resolve the host, connect, write or read return a
// *CgminerError of KindConnection naming host:port. ctx cancellation or
// deadline aborts the call at any stage.
//
// Example:
//
//	reply, err := client.Call(ctx, `{"command":"summary"}`)
func (c *Client) Call(ctx context.Context, request string) (string, error) {
	requestID := newRequestID()
	address := c.Address()

	c.logger.Debug(ctx, "cgminer request",
		"request_id", requestID,
		"address", address,
		"command", c.prepareJSONForLogging(ctx, request))

	start := time.Now()
	dialer := &net.Dialer{Timeout: c.ConnectTimeout}
	reply, err := roundTrip(ctx, dialer, address, request)
	if err != nil {
		c.logger.Error(ctx, "cgminer call failed",
			"request_id", requestID,
			"address", address,
			"error", err.Error())
		return "", err
	}

	c.logger.Debug(ctx, "cgminer reply",
		"request_id", requestID,
		"address", address,
		"duration_ms", time.Since(start).Milliseconds(),
		"bytes", len(reply),
		"reply", c.prepareJSONForLogging(ctx, reply))

	return reply, nil
}

// Decode decodes reply like the package-level Decode and logs every
// schema failure at Error level
func (c *Client) Decode(ctx context.Context, reply string) ([]Reply, error) {
	replies, err := Decode(reply)
	if err == nil {
		return replies, nil
	}
	if IsKind(err, KindMalformedJSON) {
		c.logger.Error(ctx, "cgminer reply is not a JSON object",
			"address", c.Address(),
			"error", err.Error())
		return nil, err
	}
	for _, e := range flattenErrors(err) {
		c.logger.Error(ctx, "cgminer reply failed schema check",
			"address", c.Address(),
			"error", e.Error())
	}
	return replies, err
}

// flattenErrors unpacks an errors.Join result
func flattenErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// prepareJSONForLogging redacts credentials and formats JSON for logging
//
//  1. Payloads above MaxJSONSizeForLogging are replaced by a marker
//  2. The parameter of credential-carrying commands (addpool) is replaced
//     by RedactedMessage
//  3. Valid JSON is pretty-printed if prettyPrintLogs is enabled
func (c *Client) prepareJSONForLogging(ctx context.Context, jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	redacted := redactSensitiveData(jsonStr)

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		} else {
			c.logger.Debug(ctx, "JSON pretty-print failed, using raw output",
				"error", err.Error())
		}
	}

	return redacted
}

// redactSensitiveData masks the parameter of commands listed in
// redactedRequests. Anything that is not such a command comes back
// unchanged.
func redactSensitiveData(jsonStr string) string {
	if !gjson.Valid(jsonStr) {
		return jsonStr
	}
	name := gjson.Get(jsonStr, CommandKey)
	if name.Type != gjson.String {
		return jsonStr
	}
	request, ok := RequestFromWireName(name.Str)
	if !ok || !containsRequest(redactedRequests, request) {
		return jsonStr
	}
	if !gjson.Get(jsonStr, ParameterKey).Exists() {
		return jsonStr
	}
	redacted, err := bodyFrom(jsonStr).Set(ParameterKey, RedactedMessage).String()
	if err != nil {
		return RedactedMessage
	}
	return redacted
}

// redactQuery masks everything after the command segment of a query string
// naming a credential-carrying command
func redactQuery(query string) string {
	segments := splitQuery(strings.TrimPrefix(query, "?"))
	key, name, _ := strings.Cut(segments[0], "=")
	if key != CommandKey {
		return query
	}
	request, ok := RequestFromWireName(name)
	if !ok || !containsRequest(redactedRequests, request) || len(segments) < 2 {
		return query
	}
	prefix := ""
	if strings.HasPrefix(query, "?") {
		prefix = "?"
	}
	return prefix + segments[0] + "&" + RedactedMessage
}

func containsRequest(list []Request, r Request) bool {
	for _, v := range list {
		if v == r {
			return true
		}
	}
	return false
}

// validateConfig validates client configuration
//
// Validates:
//   - Host is not empty and carries no port or brackets
//   - Port range (1-65535)
//   - ConnectTimeout is not negative
//
// Returns an error if validation fails.
func (c *Client) validateConfig() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if strings.ContainsAny(c.Host, "[]") {
		return fmt.Errorf("host %q must not be bracketed, pass IPv6 addresses bare", c.Host)
	}
	if _, _, err := net.SplitHostPort(c.Host); err == nil {
		return fmt.Errorf("host %q must not include a port, use the Port option", c.Host)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}

	if c.ConnectTimeout < 0 {
		return fmt.Errorf("connect timeout must not be negative, got: %v", c.ConnectTimeout)
	}

	if c.logger == nil {
		c.logger = &NoOpLogger{}
	}

	return nil
}
