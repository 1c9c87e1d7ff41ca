// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"fmt"
	"strings"
)

// APIVersion is the cgminer API version this library is pinned to
const APIVersion = "4.10.0"

// Request identifies a cgminer API command
type Request int

// Supported cgminer API commands
const (
	RequestAddPool Request = iota
	RequestASC
	RequestASCCount
	RequestASCDisable
	RequestASCEnable
	RequestASCSet
	RequestCheck
	RequestCoin
	RequestConfig
	RequestDebug
	RequestDevDetails
	RequestDevs
	RequestDisablePool
	RequestEDevs
	RequestEnablePool
	RequestEStats
	RequestFailoverOnly
	RequestHotplug
	RequestLCD
	RequestLockStats
	RequestNotify
	RequestPGA
	RequestPGACount
	RequestPGADisable
	RequestPGAEnable
	RequestPGAIdentify
	RequestPGASet
	RequestPoolPriority
	RequestPoolQuota
	RequestPools
	RequestPrivileged
	RequestQuit
	RequestRemovePool
	RequestRestart
	RequestSave
	RequestSetConfig
	RequestStats
	RequestSwitchPool
	RequestSummary
	RequestUSBStats
	RequestVersion
	RequestZero

	numRequests
)

// failoverOnlyWireName is the only wire name that is not the plain
// lowercase form of the command.
const failoverOnlyWireName = "failover-only"

type requestInfo struct {
	wireName          string
	includesParameter bool
}

// requestTable must hold one entry per Request. Its length is fixed by
// numRequests so a new constant cannot be added without growing the table.
var requestTable = [numRequests]requestInfo{
	RequestAddPool:      {"addpool", true},
	RequestASC:          {"asc", true},
	RequestASCCount:     {"asccount", false},
	RequestASCDisable:   {"ascdisable", true},
	RequestASCEnable:    {"ascenable", true},
	RequestASCSet:       {"ascset", true},
	RequestCheck:        {"check", true},
	RequestCoin:         {"coin", false},
	RequestConfig:       {"config", false},
	RequestDebug:        {"debug", true},
	RequestDevDetails:   {"devdetails", false},
	RequestDevs:         {"devs", false},
	RequestDisablePool:  {"disablepool", true},
	RequestEDevs:        {"edevs", true},
	RequestEnablePool:   {"enablepool", true},
	RequestEStats:       {"estats", true},
	RequestFailoverOnly: {failoverOnlyWireName, true},
	RequestHotplug:      {"hotplug", true},
	RequestLCD:          {"lcd", false},
	RequestLockStats:    {"lockstats", false},
	RequestNotify:       {"notify", false},
	RequestPGA:          {"pga", true},
	RequestPGACount:     {"pgacount", false},
	RequestPGADisable:   {"pgadisable", true},
	RequestPGAEnable:    {"pgaenable", true},
	RequestPGAIdentify:  {"pgaidentify", true},
	RequestPGASet:       {"pgaset", true},
	RequestPoolPriority: {"poolpriority", true},
	RequestPoolQuota:    {"poolquota", true},
	RequestPools:        {"pools", false},
	RequestPrivileged:   {"privileged", false},
	RequestQuit:         {"quit", false},
	RequestRemovePool:   {"removepool", true},
	RequestRestart:      {"restart", false},
	RequestSave:         {"save", true},
	RequestSetConfig:    {"setconfig", true},
	RequestStats:        {"stats", false},
	RequestSwitchPool:   {"switchpool", true},
	RequestSummary:      {"summary", false},
	RequestUSBStats:     {"usbstats", false},
	RequestVersion:      {"version", false},
	RequestZero:         {"zero", true},
}

// Valid reports whether r is one of the catalogued commands
func (r Request) Valid() bool {
	return r >= 0 && r < numRequests
}

// IncludesParameter reports whether the command takes a parameter
//
// Commands such as ascenable or switchpool need a device or pool index,
// while summary and devs take nothing. Invalid requests report false.
func (r Request) IncludesParameter() bool {
	if !r.Valid() {
		return false
	}
	return requestTable[r].includesParameter
}

// WireName returns the command name as sent to the daemon
//
// All names are the lowercase form of the command, except
// RequestFailoverOnly which is sent as "failover-only".
func (r Request) WireName() string {
	if !r.Valid() {
		return ""
	}
	return requestTable[r].wireName
}

// String returns the wire name, or Request(n) for values outside the catalog
func (r Request) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Request(%d)", int(r))
	}
	return r.WireName()
}

// RequestFromWireName resolves a command name to its Request
//
// Matching ignores case, so "SUMMARY" and "Summary" both resolve to
// RequestSummary. The hyphenated "failover-only" is only matched exactly.
// Unknown names return false.
//
// Example:
//
//	req, ok := cgminer.RequestFromWireName("devs")
//	if !ok {
//	    log.Fatal("unknown command")
//	}
func RequestFromWireName(text string) (Request, bool) {
	if text == failoverOnlyWireName {
		return RequestFailoverOnly, true
	}
	for i, info := range requestTable {
		r := Request(i)
		if r == RequestFailoverOnly {
			continue
		}
		if strings.EqualFold(text, info.wireName) {
			return r, true
		}
	}
	return 0, false
}

// Requests returns every catalogued command in declaration order
func Requests() []Request {
	out := make([]Request, 0, numRequests)
	for r := Request(0); r < numRequests; r++ {
		out = append(out, r)
	}
	return out
}
