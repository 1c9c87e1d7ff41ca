// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import "testing"

func TestRes_OK(t *testing.T) {
	tests := []struct {
		name   string
		status *Status
		want   bool
	}{
		{"no status", nil, false},
		{"success", &Status{Status: StatusSuccess}, true},
		{"informational", &Status{Status: StatusInformational}, true},
		{"warning", &Status{Status: StatusWarning}, false},
		{"error", &Status{Status: StatusError}, false},
		{"fatal", &Status{Status: StatusFatal}, false},
		{"unknown letter", &Status{Status: "X"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Res
			if tt.status != nil {
				res.Replies = []Reply{tt.status}
			}
			if got := res.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRes_Accessors verifies records are found by type in reply order
func TestRes_Accessors(t *testing.T) {
	status := &Status{Status: StatusSuccess, Code: 9}
	dev0 := &Devs{ID: 0}
	dev1 := &Devs{ID: 1}
	res := Res{Replies: []Reply{status, dev0, dev1}}

	if res.Status() != status {
		t.Error("Status() did not return the status record")
	}
	if res.Summary() != nil {
		t.Error("Summary() != nil")
	}
	devs := res.Devs()
	if len(devs) != 2 || devs[0] != dev0 || devs[1] != dev1 {
		t.Errorf("Devs() = %v", devs)
	}

	summary := &Summary{Elapsed: 5}
	res = Res{Replies: []Reply{summary}}
	if res.Summary() != summary {
		t.Error("Summary() did not return the summary record")
	}
	if res.Status() != nil || res.Devs() != nil {
		t.Error("unexpected status or devices")
	}
}

func TestRes_GetValue(t *testing.T) {
	res := Res{Raw: testDevsReply}

	tests := []struct {
		path string
		want string
	}{
		{"STATUS.0.Msg", "2 ASC(s)"},
		{"DEVS.#", "2"},
		{"DEVS.1.Status", "Dead"},
		{"DEVS.0.MHS 5s", "6790"},
		{"DEVS.0.Device Hardware%", "0.0127"},
		{"DEVS.#(ID==1).Enabled", "N"},
	}
	for _, tt := range tests {
		if got := res.GetValue(tt.path).String(); got != tt.want {
			t.Errorf("GetValue(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	if res.GetValue("POOLS").Exists() {
		t.Error("GetValue(POOLS).Exists() = true")
	}
	if (Res{}).GetValue("STATUS").Exists() {
		t.Error("GetValue on empty Res found a value")
	}
}
