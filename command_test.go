// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"errors"
	"testing"
)

// TestParseQueryString covers the four-stage grammar
func TestParseQueryString(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantRequest  Request
		wantParam    string
		wantHasParam bool
		wantErr      error
		wantFragment string
	}{
		{
			name:        "summary without parameter",
			query:       "command=summary",
			wantRequest: RequestSummary,
		},
		{
			name:         "ascdisable with parameter",
			query:        "command=ascdisable&parameter=0",
			wantRequest:  RequestASCDisable,
			wantParam:    "0",
			wantHasParam: true,
		},
		{
			name:         "semicolon separator",
			query:        "command=ascenable;parameter=3",
			wantRequest:  RequestASCEnable,
			wantParam:    "3",
			wantHasParam: true,
		},
		{
			name:         "leading question mark",
			query:        "?command=pgaenable&parameter=1",
			wantRequest:  RequestPGAEnable,
			wantParam:    "1",
			wantHasParam: true,
		},
		{
			name:         "negative integer kept as raw text",
			query:        "command=switchpool&parameter=-1",
			wantRequest:  RequestSwitchPool,
			wantParam:    "-1",
			wantHasParam: true,
		},
		{
			name:         "extra segments ignored",
			query:        "command=ascset&parameter=0&foo=bar",
			wantRequest:  RequestASCSet,
			wantParam:    "0",
			wantHasParam: true,
		},
		{
			name:        "parameter ignored for commands without one",
			query:       "command=devs&parameter=7",
			wantRequest: RequestDevs,
		},
		{
			name:        "case-insensitive name",
			query:       "command=SUMMARY",
			wantRequest: RequestSummary,
		},
		{
			name:         "hyphenated name",
			query:        "command=failover-only&parameter=1",
			wantRequest:  RequestFailoverOnly,
			wantParam:    "1",
			wantHasParam: true,
		},
		{
			name:    "missing parameter",
			query:   "command=ascdisable",
			wantErr: ErrMissingParameter,
		},
		{
			name:         "missing command prefix",
			query:        "foo=bar",
			wantErr:      ErrMissingCommandPrefix,
			wantFragment: "foo=bar",
		},
		{
			name:    "command without equals",
			query:   "command",
			wantErr: ErrMissingCommandPrefix,
		},
		{
			name:         "invalid request",
			query:        "command=bogus",
			wantErr:      ErrInvalidRequest,
			wantFragment: "bogus",
		},
		{
			name:    "parameter not integer",
			query:   "command=ascset&parameter=abc",
			wantErr: ErrParameterNotInteger,
		},
		{
			name:    "parameter empty",
			query:   "command=ascset&parameter=",
			wantErr: ErrParameterNotInteger,
		},
		{
			name:    "parameter out of 32-bit range",
			query:   "command=ascset&parameter=4294967296",
			wantErr: ErrParameterNotInteger,
		},
		{
			name:         "missing keyword",
			query:        "command=ascset&param=0",
			wantErr:      ErrMissingKeyword,
			wantFragment: "param=0",
		},
		{
			name:         "addpool parameter kept out of the error",
			query:        "command=addpool&parameter=stratum+tcp://pool:3333,worker,secret",
			wantErr:      ErrParameterNotInteger,
			wantFragment: RedactedMessage,
		},
		{
			name:         "addpool segment kept out of the error",
			query:        "command=addpool&pass=secret",
			wantErr:      ErrMissingKeyword,
			wantFragment: RedactedMessage,
		},
		{
			name:    "empty second segment",
			query:   "command=ascset&&parameter=0",
			wantErr: ErrMissingKeyword,
		},
		{
			name:    "trailing separator only",
			query:   "command=ascset&",
			wantErr: ErrMissingParameter,
		},
		{
			name:    "empty",
			query:   "",
			wantErr: ErrEmptyQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseQueryString(tt.query)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("ParseQueryString(%q) succeeded, want %v", tt.query, tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if !IsKind(err, KindSyntax) {
					t.Errorf("error kind is not syntax: %v", err)
				}
				var cgErr *CgminerError
				if !errors.As(err, &cgErr) {
					t.Fatalf("error is not *CgminerError: %T", err)
				}
				if tt.wantFragment != "" && cgErr.Fragment != tt.wantFragment {
					t.Errorf("Fragment = %q, want %q", cgErr.Fragment, tt.wantFragment)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseQueryString(%q) error = %v", tt.query, err)
			}
			if cmd.Request() != tt.wantRequest {
				t.Errorf("Request() = %v, want %v", cmd.Request(), tt.wantRequest)
			}
			param, hasParam := cmd.Parameter()
			if hasParam != tt.wantHasParam || param != tt.wantParam {
				t.Errorf("Parameter() = (%q, %v), want (%q, %v)", param, hasParam, tt.wantParam, tt.wantHasParam)
			}
		})
	}
}

// TestMakeCommand verifies construction and the parameter rule
func TestMakeCommand(t *testing.T) {
	tests := []struct {
		name      string
		request   Request
		parameter string
		wantJSON  string
		wantErr   error
	}{
		{
			name:     "summary",
			request:  RequestSummary,
			wantJSON: `{"command":"summary"}`,
		},
		{
			name:      "ascenable",
			request:   RequestASCEnable,
			parameter: "0",
			wantJSON:  `{"command":"ascenable","parameter":"0"}`,
		},
		{
			name:      "parameter dropped for devs",
			request:   RequestDevs,
			parameter: "5",
			wantJSON:  `{"command":"devs"}`,
		},
		{
			name:      "failover-only",
			request:   RequestFailoverOnly,
			parameter: "true",
			wantJSON:  `{"command":"failover-only","parameter":"true"}`,
		},
		{
			name:      "addpool keeps commas",
			request:   RequestAddPool,
			parameter: "stratum+tcp://pool:3333,worker,x",
			wantJSON:  `{"command":"addpool","parameter":"stratum+tcp://pool:3333,worker,x"}`,
		},
		{
			name:    "missing parameter",
			request: RequestASCEnable,
			wantErr: ErrMissingParameter,
		},
		{
			name:    "invalid request",
			request: Request(-3),
			wantErr: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := MakeCommand(tt.request, tt.parameter)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("MakeCommand error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MakeCommand error = %v", err)
			}
			got, err := cmd.JSON()
			if err != nil {
				t.Fatalf("JSON() error = %v", err)
			}
			if got != tt.wantJSON {
				t.Errorf("JSON() = %s, want %s", got, tt.wantJSON)
			}
			if cmd.String() != tt.wantJSON {
				t.Errorf("String() = %s, want %s", cmd.String(), tt.wantJSON)
			}
		})
	}
}

// TestCommand_QueryMatchesMake verifies both construction paths agree
func TestCommand_QueryMatchesMake(t *testing.T) {
	parsed, err := ParseQueryString("command=ascdisable&parameter=0")
	if err != nil {
		t.Fatalf("ParseQueryString error = %v", err)
	}
	made, err := MakeCommand(RequestASCDisable, "0")
	if err != nil {
		t.Fatalf("MakeCommand error = %v", err)
	}
	if parsed != made {
		t.Errorf("parsed %+v != made %+v", parsed, made)
	}
}
