// Package timeframe はバックエンドが受け付ける時間足（interval）を扱います。
package timeframe

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Interval is the candle granularity requested from the prediction backend.
type Interval string

const (
	Hour Interval = "1h"
	Day  Interval = "1d"
	Week Interval = "1w"

	// Default is used when no or an unknown interval is supplied.
	Default = Hour

	// DefaultHorizon is the number of intervals ahead a prediction targets.
	DefaultHorizon = 1
	// MaxHorizon mirrors the upper bound accepted by the backend.
	MaxHorizon = 30
)

// ErrUnknownInterval is returned by Parse for values outside 1h/1d/1w.
var ErrUnknownInterval = errors.New("unknown interval")

// Parse は文字列を Interval に変換します。未対応の値は ErrUnknownInterval を返します。
func Parse(s string) (Interval, error) {
	iv := Interval(strings.ToLower(strings.TrimSpace(s)))
	switch iv {
	case Hour, Day, Week:
		return iv, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInterval, s)
}

// OrDefault parses s and falls back to Default.
func OrDefault(s string) Interval {
	iv, err := Parse(s)
	if err != nil {
		return Default
	}
	return iv
}

// Duration returns the wall-clock length of one interval.
func (iv Interval) Duration() time.Duration {
	switch iv {
	case Day:
		return 24 * time.Hour
	case Week:
		return 7 * 24 * time.Hour
	}
	return time.Hour
}

// Millis returns Duration in epoch milliseconds.
func (iv Interval) Millis() int64 {
	return iv.Duration().Milliseconds()
}

// FormatTick は時間軸ラベルを返します。1d/1w は "MM/DD"、1h は "HH:00"（いずれも UTC）。
func (iv Interval) FormatTick(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	if iv == Day || iv == Week {
		return fmt.Sprintf("%02d/%02d", int(t.Month()), t.Day())
	}
	return fmt.Sprintf("%02d:00", t.Hour())
}

// NextBoundary は now の次の足の開始時刻（UTC）を返します。週足は月曜 00:00 始まりです。
func (iv Interval) NextBoundary(now time.Time) time.Time {
	now = now.UTC()
	switch iv {
	case Day:
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return d.AddDate(0, 0, 1)
	case Week:
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(d.Weekday()) + 6) % 7 // days since Monday
		return d.AddDate(0, 0, 7-offset)
	}
	return now.Truncate(time.Hour).Add(time.Hour)
}

func (iv Interval) String() string { return string(iv) }
