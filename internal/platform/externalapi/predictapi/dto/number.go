// Package dto defines data transfer objects for the prediction backend responses.
package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number は JSON の数値・数値文字列・null のいずれも受け付けます。
// 数値として解釈できない値はエラーにせず「値なし」として扱います。
type Number struct {
	value float64
	valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.set(f)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.set(f)
	}
	return nil
}

func (n *Number) set(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	n.value, n.valid = f, true
}

// Ptr returns the value, or nil when it was absent or not a finite number.
func (n Number) Ptr() *float64 {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

// Float returns the value and whether it was present.
func (n Number) Float() (float64, bool) {
	return n.value, n.valid
}

// Timestamp accepts an ISO-8601 string or epoch milliseconds.
type Timestamp struct {
	t *time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	ts.t = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		var n Number
		_ = n.UnmarshalJSON(b)
		if ms, ok := n.Float(); ok {
			t := time.UnixMilli(int64(ms)).UTC()
			ts.t = &t
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			t = t.UTC()
			ts.t = &t
			return nil
		}
	}
	return nil
}

// Time returns the parsed time, or nil.
func (ts Timestamp) Time() *time.Time {
	return ts.t
}
