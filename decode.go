// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// fields is one decoded reply object, keyed by its exact JSON member names
type fields = map[string]gjson.Result

// Decode parses a daemon reply into typed records
//
// The STATUS section is decoded first and always yields at most one
// *Status. It is followed by one *Summary when a SUMMARY section is present,
// or by one *Devs per DEVS element, in array order. Other sections are
// ignored.
//
// Error handling:
//   - reply is not a JSON object: nil and a KindMalformedJSON error
//   - a section or record fails schema checks (missing key, wrong type,
//     wrong cardinality): that record is left out, the others are still
//     returned, and the error is an errors.Join of KindSchema errors
//
// Example:
//
//	replies, err := cgminer.Decode(raw)
//	if cgminer.IsKind(err, cgminer.KindMalformedJSON) {
//	    log.Fatal(err)
//	}
//	for _, r := range replies {
//	    fmt.Println(r)
//	}
func Decode(reply string) ([]Reply, error) {
	if !gjson.Valid(reply) {
		return nil, &CgminerError{
			Kind:        KindMalformedJSON,
			Operation:   "decode",
			Message:     ErrMalformedJSON.Error(),
			InternalMsg: truncateForError(reply),
			Err:         ErrMalformedJSON,
		}
	}
	top := gjson.Parse(reply)
	if !top.IsObject() {
		return nil, &CgminerError{
			Kind:        KindMalformedJSON,
			Operation:   "decode",
			Message:     ErrMalformedJSON.Error(),
			InternalMsg: truncateForError(reply),
			Err:         ErrMalformedJSON,
		}
	}

	var replies []Reply
	var errs []error

	if status, err := decodeStatusSection(top); err != nil {
		errs = append(errs, err)
	} else {
		replies = append(replies, status)
	}

	switch {
	case top.Get(SectionSummary).Exists():
		if summary, err := decodeSummarySection(top); err != nil {
			errs = append(errs, err)
		} else {
			replies = append(replies, summary)
		}
	case top.Get(SectionDevs).Exists():
		devs, devErrs := decodeDevsSection(top)
		for _, d := range devs {
			replies = append(replies, d)
		}
		errs = append(errs, devErrs...)
	}

	return replies, errors.Join(errs...)
}

// sectionArray returns the elements of an array-valued section
func sectionArray(top gjson.Result, section string) ([]gjson.Result, error) {
	op := "decode " + section
	value := top.Get(section)
	if !value.Exists() {
		return nil, schemaError(op, ErrMissingSection, section, "")
	}
	if !value.IsArray() {
		return nil, schemaError(op, ErrWrongType, section,
			fmt.Sprintf("expected array, got %s", value.Type))
	}
	return value.Array(), nil
}

// singleObject returns the only object of a section that must hold exactly one
func singleObject(top gjson.Result, section string) (fields, error) {
	elems, err := sectionArray(top, section)
	if err != nil {
		return nil, err
	}
	if len(elems) != 1 {
		return nil, schemaError("decode "+section, ErrCardinality, section,
			fmt.Sprintf("expected JSON reply %s array of size 1, got %d", section, len(elems)))
	}
	return objectFields(elems[0], "decode "+section, section)
}

func objectFields(value gjson.Result, op, fragment string) (fields, error) {
	if !value.IsObject() {
		return nil, schemaError(op, ErrWrongType, fragment,
			fmt.Sprintf("expected object, got %s", value.Type))
	}
	return value.Map(), nil
}

func decodeStatusSection(top gjson.Result) (*Status, error) {
	obj, err := singleObject(top, SectionStatus)
	if err != nil {
		return nil, err
	}
	return decodeStatus(obj)
}

func decodeSummarySection(top gjson.Result) (*Summary, error) {
	obj, err := singleObject(top, SectionSummary)
	if err != nil {
		return nil, err
	}
	return decodeSummary(obj)
}

// decodeDevsSection decodes every DEVS element. A bad element is reported
// and skipped; the remaining elements are still decoded.
func decodeDevsSection(top gjson.Result) ([]*Devs, []error) {
	elems, err := sectionArray(top, SectionDevs)
	if err != nil {
		return nil, []error{err}
	}
	devs := make([]*Devs, 0, len(elems))
	var errs []error
	for i, elem := range elems {
		op := fmt.Sprintf("decode %s[%d]", SectionDevs, i)
		obj, err := objectFields(elem, op, SectionDevs)
		if err == nil {
			var d *Devs
			if d, err = decodeDevs(obj); err == nil {
				devs = append(devs, d)
				continue
			}
		}
		var cerr *CgminerError
		if errors.As(err, &cerr) {
			cerr.Operation = op
		}
		errs = append(errs, err)
	}
	return devs, errs
}

func decodeStatus(obj fields) (*Status, error) {
	var err error
	s := &Status{
		Status:      StatusLetter(read(&err, getString, obj, KeyStatus)),
		When:        read(&err, getInt64, obj, KeyWhen),
		Code:        read(&err, getInt, obj, KeyCode),
		Msg:         read(&err, getString, obj, KeyMsg),
		Description: read(&err, getString, obj, KeyDescription),
	}
	if err != nil {
		return nil, withOperation(err, "decode "+SectionStatus)
	}
	return s, nil
}

func decodeSummary(obj fields) (*Summary, error) {
	var err error
	s := &Summary{
		Elapsed:               read(&err, getInt64, obj, KeyElapsed),
		MHSAv:                 read(&err, getFloat, obj, KeyMHSAv),
		MHS5s:                 read(&err, getFloat, obj, KeyMHS5s),
		MHS1m:                 read(&err, getFloat, obj, KeyMHS1m),
		MHS5m:                 read(&err, getFloat, obj, KeyMHS5m),
		MHS15m:                read(&err, getFloat, obj, KeyMHS15m),
		FoundBlocks:           read(&err, getInt, obj, KeyFoundBlocks),
		Getworks:              read(&err, getInt, obj, KeyGetworks),
		Accepted:              read(&err, getInt, obj, KeyAccepted),
		Rejected:              read(&err, getInt, obj, KeyRejected),
		HardwareErrors:        read(&err, getInt, obj, KeyHardwareErrors),
		Utility:               read(&err, getFloat, obj, KeyUtility),
		Discarded:             read(&err, getInt, obj, KeyDiscarded),
		Stale:                 read(&err, getInt, obj, KeyStale),
		GetFailures:           read(&err, getInt, obj, KeyGetFailures),
		LocalWork:             read(&err, getInt, obj, KeyLocalWork),
		RemoteFailures:        read(&err, getInt, obj, KeyRemoteFailures),
		NetworkBlocks:         read(&err, getInt, obj, KeyNetworkBlocks),
		TotalMH:               read(&err, getFloat, obj, KeyTotalMH),
		WorkUtility:           read(&err, getFloat, obj, KeyWorkUtility),
		DifficultyAccepted:    read(&err, getFloat, obj, KeyDifficultyAccepted),
		DifficultyRejected:    read(&err, getFloat, obj, KeyDifficultyRejected),
		DifficultyStale:       read(&err, getFloat, obj, KeyDifficultyStale),
		BestShare:             read(&err, getInt, obj, KeyBestShare),
		DeviceHardwarePercent: read(&err, getFloat, obj, KeyDeviceHardwarePercent),
		DeviceRejectedPercent: read(&err, getFloat, obj, KeyDeviceRejectedPercent),
		PoolRejectedPercent:   read(&err, getFloat, obj, KeyPoolRejectedPercent),
		PoolStalePercent:      read(&err, getFloat, obj, KeyPoolStalePercent),
		LastGetwork:           read(&err, getInt64, obj, KeyLastGetwork),
	}
	if err != nil {
		return nil, withOperation(err, "decode "+SectionSummary)
	}
	return s, nil
}

func decodeDevs(obj fields) (*Devs, error) {
	var err error
	d := &Devs{
		ASC:                   read(&err, getInt, obj, KeyASC),
		Name:                  read(&err, getString, obj, KeyName),
		ID:                    read(&err, getInt, obj, KeyID),
		Enabled:               read(&err, getString, obj, KeyEnabled),
		Status:                read(&err, getString, obj, KeyDevStatus),
		Temperature:           read(&err, getFloat, obj, KeyTemperature),
		MHSAv:                 read(&err, getFloat, obj, KeyMHSAv),
		MHS5s:                 read(&err, getFloat, obj, KeyMHS5s),
		MHS1m:                 read(&err, getFloat, obj, KeyMHS1m),
		MHS5m:                 read(&err, getFloat, obj, KeyMHS5m),
		MHS15m:                read(&err, getFloat, obj, KeyMHS15m),
		Accepted:              read(&err, getInt, obj, KeyAccepted),
		Rejected:              read(&err, getInt, obj, KeyRejected),
		HardwareErrors:        read(&err, getInt, obj, KeyHardwareErrors),
		Utility:               read(&err, getFloat, obj, KeyUtility),
		LastSharePool:         read(&err, getInt, obj, KeyLastSharePool),
		LastShareTime:         read(&err, getInt64, obj, KeyLastShareTime),
		TotalMH:               read(&err, getFloat, obj, KeyTotalMH),
		Diff1Work:             read(&err, getInt, obj, KeyDiff1Work),
		DifficultyAccepted:    read(&err, getFloat, obj, KeyDifficultyAccepted),
		DifficultyRejected:    read(&err, getFloat, obj, KeyDifficultyRejected),
		LastShareDifficulty:   read(&err, getFloat, obj, KeyLastShareDifficulty),
		NoDevice:              read(&err, getBool, obj, KeyNoDevice),
		LastValidWork:         read(&err, getInt64, obj, KeyLastValidWork),
		DeviceHardwarePercent: read(&err, getFloat, obj, KeyDeviceHardwarePercent),
		DeviceRejectedPercent: read(&err, getFloat, obj, KeyDeviceRejectedPercent),
		DeviceElapsed:         read(&err, getInt64, obj, KeyDeviceElapsed),
	}
	if err != nil {
		return nil, withOperation(err, "decode "+SectionDevs)
	}
	return d, nil
}

// read calls get unless an earlier field already failed, and records the
// first failure in err
func read[T any](err *error, get func(fields, string) (T, error), obj fields, key string) T {
	var zero T
	if *err != nil {
		return zero
	}
	v, e := get(obj, key)
	if e != nil {
		*err = e
		return zero
	}
	return v
}

func withOperation(err error, op string) error {
	var cerr *CgminerError
	if errors.As(err, &cerr) {
		cerr.Operation = op
	}
	return err
}

// lookup confirms the key is present
func lookup(obj fields, key string) (gjson.Result, error) {
	v, ok := obj[key]
	if !ok {
		return gjson.Result{}, schemaError("decode", ErrMissingKey, key,
			fmt.Sprintf("key %q not found in JSON reply", key))
	}
	return v, nil
}

// numericText returns the text of a number, or of a string holding one
func numericText(v gjson.Result, key string) (string, error) {
	switch v.Type {
	case gjson.Number:
		return v.Raw, nil
	case gjson.String:
		return v.Str, nil
	default:
		return "", schemaError("decode", ErrWrongType, key,
			fmt.Sprintf("expected number, got %s", v.Type))
	}
}

func getString(obj fields, key string) (string, error) {
	v, err := lookup(obj, key)
	if err != nil {
		return "", err
	}
	if v.Type != gjson.String {
		return "", schemaError("decode", ErrWrongType, key,
			fmt.Sprintf("expected string, got %s", v.Type))
	}
	return v.Str, nil
}

func getInt64(obj fields, key string) (int64, error) {
	v, err := lookup(obj, key)
	if err != nil {
		return 0, err
	}
	text, err := numericText(v, key)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(text, 10, 64)
	if perr == nil {
		return n, nil
	}
	// Integral values written in float notation, e.g. 1.0 or 3e2
	f, ferr := strconv.ParseFloat(text, 64)
	if ferr == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return 0, schemaError("decode", ErrWrongType, key,
		fmt.Sprintf("expected integer, got %q", text))
}

func getInt(obj fields, key string) (int, error) {
	n, err := getInt64(obj, key)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt || n > math.MaxInt {
		return 0, schemaError("decode", ErrWrongType, key,
			fmt.Sprintf("integer %d out of range", n))
	}
	return int(n), nil
}

func getFloat(obj fields, key string) (float64, error) {
	v, err := lookup(obj, key)
	if err != nil {
		return 0, err
	}
	text, err := numericText(v, key)
	if err != nil {
		return 0, err
	}
	f, perr := strconv.ParseFloat(text, 64)
	if perr != nil {
		return 0, schemaError("decode", ErrWrongType, key,
			fmt.Sprintf("expected number, got %q", text))
	}
	return f, nil
}

func getBool(obj fields, key string) (bool, error) {
	v, err := lookup(obj, key)
	if err != nil {
		return false, err
	}
	switch v.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	default:
		return false, schemaError("decode", ErrWrongType, key,
			fmt.Sprintf("expected boolean, got %s", v.Type))
	}
}

// truncateForError keeps reply excerpts in errors short
func truncateForError(s string) string {
	if len(s) <= 100 {
		return s
	}
	return s[:100] + "..."
}
