package sidecar

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Record is the part of a sidecar document this tool cares about.
type Record struct {
	// CapturedAtUnixSeconds is photoTakenTime.timestamp, nil when the field is
	// missing or not an integer.
	CapturedAtUnixSeconds *int64
}

// CapturedAt returns the capture time in UTC.
func (r Record) CapturedAt() (time.Time, bool) {
	if r.CapturedAtUnixSeconds == nil {
		return time.Time{}, false
	}
	return time.Unix(*r.CapturedAtUnixSeconds, 0).UTC(), true
}

type document struct {
	PhotoTakenTime *struct {
		Timestamp unixSeconds `json:"timestamp"`
	} `json:"photoTakenTime"`
}

// unixSeconds accepts both "1609459200" and 1609459200. Anything else leaves
// it unset instead of failing the whole document.
type unixSeconds struct {
	value *int64
}

func (u *unixSeconds) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	u.value = &n
	return nil
}

// ParseRecord parses sidecar content. It never fails: unreadable structure
// yields a Record without a timestamp. The second return value explains why
// no timestamp was found, for logging.
func ParseRecord(data []byte) (Record, string) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Record{}, "malformed JSON: " + err.Error()
	}
	if doc.PhotoTakenTime == nil {
		return Record{}, "photoTakenTime missing"
	}
	if doc.PhotoTakenTime.Timestamp.value == nil {
		return Record{}, "photoTakenTime.timestamp missing or not numeric"
	}
	return Record{CapturedAtUnixSeconds: doc.PhotoTakenTime.Timestamp.value}, ""
}
