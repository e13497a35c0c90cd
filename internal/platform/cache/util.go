package cache

import (
	"time"

	"crypto_dashboard/internal/shared/timeframe"
)

// TimeUntilNextBoundary は次の足が確定するまでの期間を返します。
// 結果は max を上限とし、最短でも1秒です。
func TimeUntilNextBoundary(iv timeframe.Interval, now time.Time, max time.Duration) time.Duration {
	d := iv.NextBoundary(now).Sub(now)
	if max > 0 && d > max {
		d = max
	}
	if d < time.Second {
		d = time.Second
	}
	return d
}
