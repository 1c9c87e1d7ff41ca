// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"fmt"
	"strings"
	"time"
)

// Reply sections of the top-level reply object
const (
	SectionStatus  = "STATUS"
	SectionSummary = "SUMMARY"
	SectionDevs    = "DEVS"
)

// STATUS section keys
const (
	KeyStatus      = "STATUS"
	KeyWhen        = "When"
	KeyCode        = "Code"
	KeyMsg         = "Msg"
	KeyDescription = "Description"
)

// SUMMARY section keys. DEVS shares most of them.
const (
	KeyElapsed               = "Elapsed"
	KeyMHSAv                 = "MHS av"
	KeyMHS5s                 = "MHS 5s"
	KeyMHS1m                 = "MHS 1m"
	KeyMHS5m                 = "MHS 5m"
	KeyMHS15m                = "MHS 15m"
	KeyFoundBlocks           = "Found Blocks"
	KeyGetworks              = "Getworks"
	KeyAccepted              = "Accepted"
	KeyRejected              = "Rejected"
	KeyHardwareErrors        = "Hardware Errors"
	KeyUtility               = "Utility"
	KeyDiscarded             = "Discarded"
	KeyStale                 = "Stale"
	KeyGetFailures           = "Get Failures"
	KeyLocalWork             = "Local Work"
	KeyRemoteFailures        = "Remote Failures"
	KeyNetworkBlocks         = "Network Blocks"
	KeyTotalMH               = "Total MH"
	KeyWorkUtility           = "Work Utility"
	KeyDifficultyAccepted    = "Difficulty Accepted"
	KeyDifficultyRejected    = "Difficulty Rejected"
	KeyDifficultyStale       = "Difficulty Stale"
	KeyBestShare             = "Best Share"
	KeyDeviceHardwarePercent = "Device Hardware%"
	KeyDeviceRejectedPercent = "Device Rejected%"
	KeyPoolRejectedPercent   = "Pool Rejected%"
	KeyPoolStalePercent      = "Pool Stale%"
	KeyLastGetwork           = "Last getwork"
)

// DEVS-only keys
const (
	KeyASC                 = "ASC"
	KeyName                = "Name"
	KeyID                  = "ID"
	KeyEnabled             = "Enabled"
	KeyDevStatus           = "Status"
	KeyTemperature         = "Temperature"
	KeyLastSharePool       = "Last Share Pool"
	KeyLastShareTime       = "Last Share Time"
	KeyDiff1Work           = "Diff1 Work"
	KeyLastShareDifficulty = "Last Share Difficulty"
	KeyNoDevice            = "No Device"
	KeyLastValidWork       = "Last Valid Work"
	KeyDeviceElapsed       = "Device Elapsed"
)

// ReplyKind identifies the variant of a Reply
type ReplyKind int

const (
	ReplyKindStatus ReplyKind = iota
	ReplyKindSummary
	ReplyKindDevs
)

// String returns the section name of the reply kind
func (k ReplyKind) String() string {
	switch k {
	case ReplyKindStatus:
		return SectionStatus
	case ReplyKindSummary:
		return SectionSummary
	case ReplyKindDevs:
		return SectionDevs
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Reply is one decoded record of a daemon reply: *Status, *Summary or *Devs.
//
// Use a type switch to reach the fields:
//
//	for _, r := range replies {
//	    switch v := r.(type) {
//	    case *cgminer.Status:
//	        fmt.Println(v.Msg)
//	    case *cgminer.Summary:
//	        fmt.Println(v.MHSAv)
//	    case *cgminer.Devs:
//	        fmt.Println(v.Name, v.Temperature)
//	    }
//	}
type Reply interface {
	Kind() ReplyKind
	String() string

	isReply()
}

// StatusLetter is the one-letter severity of a STATUS section
type StatusLetter string

const (
	StatusError         StatusLetter = "E"
	StatusFatal         StatusLetter = "F"
	StatusInformational StatusLetter = "I"
	StatusSuccess       StatusLetter = "S"
	StatusWarning       StatusLetter = "W"
)

// Known reports whether the letter is one of the five documented severities
func (s StatusLetter) Known() bool {
	switch s {
	case StatusError, StatusFatal, StatusInformational, StatusSuccess, StatusWarning:
		return true
	}
	return false
}

// String returns the severity name
func (s StatusLetter) String() string {
	switch s {
	case StatusError:
		return "Error"
	case StatusFatal:
		return "Fatal"
	case StatusInformational:
		return "Informational"
	case StatusSuccess:
		return "Success"
	case StatusWarning:
		return "Warning"
	default:
		return fmt.Sprintf("UNKNOWN(%s)", string(s))
	}
}

// Status is the STATUS section every reply starts with
type Status struct {
	Status      StatusLetter
	When        int64 // seconds since Unix epoch
	Code        int
	Msg         string
	Description string
}

func (*Status) isReply() {}

// Kind returns ReplyKindStatus
func (*Status) Kind() ReplyKind { return ReplyKindStatus }

// Time returns When as a time.Time
func (s *Status) Time() time.Time {
	return time.Unix(s.When, 0)
}

// String renders the record as label=value pairs
func (s *Status) String() string {
	return labelValues(
		KeyStatus, s.Status,
		KeyWhen, s.Time().Local().Format("2006-01-02T15:04:05"),
		KeyCode, s.Code,
		KeyMsg, s.Msg,
		KeyDescription, s.Description,
	)
}

// Summary is the SUMMARY section of a summary reply
type Summary struct {
	Elapsed               int64
	MHSAv                 float64
	MHS5s                 float64
	MHS1m                 float64
	MHS5m                 float64
	MHS15m                float64
	FoundBlocks           int
	Getworks              int
	Accepted              int
	Rejected              int
	HardwareErrors        int
	Utility               float64
	Discarded             int
	Stale                 int
	GetFailures           int
	LocalWork             int
	RemoteFailures        int
	NetworkBlocks         int
	TotalMH               float64
	WorkUtility           float64
	DifficultyAccepted    float64
	DifficultyRejected    float64
	DifficultyStale       float64
	BestShare             int
	DeviceHardwarePercent float64
	DeviceRejectedPercent float64
	PoolRejectedPercent   float64
	PoolStalePercent      float64
	LastGetwork           int64
}

func (*Summary) isReply() {}

// Kind returns ReplyKindSummary
func (*Summary) Kind() ReplyKind { return ReplyKindSummary }

// String renders the record as label=value pairs
func (s *Summary) String() string {
	return labelValues(
		KeyElapsed, s.Elapsed,
		KeyMHSAv, s.MHSAv,
		KeyMHS5s, s.MHS5s,
		KeyMHS1m, s.MHS1m,
		KeyMHS5m, s.MHS5m,
		KeyMHS15m, s.MHS15m,
		KeyFoundBlocks, s.FoundBlocks,
		KeyGetworks, s.Getworks,
		KeyAccepted, s.Accepted,
		KeyRejected, s.Rejected,
		KeyHardwareErrors, s.HardwareErrors,
		KeyUtility, s.Utility,
		KeyDiscarded, s.Discarded,
		KeyStale, s.Stale,
		KeyGetFailures, s.GetFailures,
		KeyLocalWork, s.LocalWork,
		KeyRemoteFailures, s.RemoteFailures,
		KeyNetworkBlocks, s.NetworkBlocks,
		KeyTotalMH, s.TotalMH,
		KeyWorkUtility, s.WorkUtility,
		KeyDifficultyAccepted, s.DifficultyAccepted,
		KeyDifficultyRejected, s.DifficultyRejected,
		KeyDifficultyStale, s.DifficultyStale,
		KeyBestShare, s.BestShare,
		KeyDeviceHardwarePercent, s.DeviceHardwarePercent,
		KeyDeviceRejectedPercent, s.DeviceRejectedPercent,
		KeyPoolRejectedPercent, s.PoolRejectedPercent,
		KeyPoolStalePercent, s.PoolStalePercent,
		KeyLastGetwork, s.LastGetwork,
	)
}

// Uptime returns Elapsed as a duration
func (s *Summary) Uptime() time.Duration {
	return time.Duration(s.Elapsed) * time.Second
}

// Devs is one device entry of a DEVS reply
type Devs struct {
	ASC                   int
	Name                  string
	ID                    int
	Enabled               string
	Status                string
	Temperature           float64
	MHSAv                 float64
	MHS5s                 float64
	MHS1m                 float64
	MHS5m                 float64
	MHS15m                float64
	Accepted              int
	Rejected              int
	HardwareErrors        int
	Utility               float64
	LastSharePool         int
	LastShareTime         int64
	TotalMH               float64
	Diff1Work             int
	DifficultyAccepted    float64
	DifficultyRejected    float64
	LastShareDifficulty   float64
	NoDevice              bool
	LastValidWork         int64
	DeviceHardwarePercent float64
	DeviceRejectedPercent float64
	DeviceElapsed         int64
}

func (*Devs) isReply() {}

// Kind returns ReplyKindDevs
func (*Devs) Kind() ReplyKind { return ReplyKindDevs }

// String renders the record as label=value pairs
func (d *Devs) String() string {
	return labelValues(
		KeyASC, d.ASC,
		KeyName, d.Name,
		KeyID, d.ID,
		KeyEnabled, d.Enabled,
		KeyDevStatus, d.Status,
		KeyTemperature, d.Temperature,
		KeyMHSAv, d.MHSAv,
		KeyMHS5s, d.MHS5s,
		KeyMHS1m, d.MHS1m,
		KeyMHS5m, d.MHS5m,
		KeyMHS15m, d.MHS15m,
		KeyAccepted, d.Accepted,
		KeyRejected, d.Rejected,
		KeyHardwareErrors, d.HardwareErrors,
		KeyUtility, d.Utility,
		KeyLastSharePool, d.LastSharePool,
		KeyLastShareTime, d.LastShareTime,
		KeyTotalMH, d.TotalMH,
		KeyDiff1Work, d.Diff1Work,
		KeyDifficultyAccepted, d.DifficultyAccepted,
		KeyDifficultyRejected, d.DifficultyRejected,
		KeyLastShareDifficulty, d.LastShareDifficulty,
		KeyNoDevice, d.NoDevice,
		KeyLastValidWork, d.LastValidWork,
		KeyDeviceHardwarePercent, d.DeviceHardwarePercent,
		KeyDeviceRejectedPercent, d.DeviceRejectedPercent,
		KeyDeviceElapsed, d.DeviceElapsed,
	)
}

// labelValues joins alternating labels and values as "k=v, k=v"
func labelValues(pairs ...any) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v=%v", pairs[i], pairs[i+1])
	}
	return b.String()
}

// FormatElapsed formats a number of seconds as "DDDD HH:MM:SS"
//
// Example:
//
//	cgminer.FormatElapsed(93784) // "   1 02:03:04"
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60
	secs := seconds % 60
	return fmt.Sprintf("%4d %02d:%02d:%02d", days, hours, minutes, secs)
}
