package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/docker/go-units"

	"github.com/thushan/ollafree/internal/util"
)

const (
	zeroPercent  = "0%"
	zeroLatency  = "0ms"
	neverChecked = "never"
	notMeasured  = "-"
)

// Size renders a model size in bytes. Zero means the metadata had none.
func Size(bytes int64) string {
	if bytes <= 0 {
		return notMeasured
	}
	return units.HumanSize(float64(bytes))
}

func TokensPerSecond(tps *float64) string {
	if tps == nil {
		return notMeasured
	}
	return strconv.FormatFloat(*tps, 'f', 1, 64) + " tok/s"
}

func Percentage(value float64) string {
	if value == 0 {
		return zeroPercent
	}
	if value == 100.0 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", value)
}

// SuccessRate is successes as a percentage of attempts.
func SuccessRate(successes, attempts int64) string {
	if attempts == 0 {
		return zeroPercent
	}
	return Percentage(float64(successes) / float64(attempts) * 100)
}

func Latency(ms int64) string {
	if ms == 0 {
		return zeroLatency
	}
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000.0)
	}
	return fmt.Sprintf("%dms", ms)
}

// LastTested renders the perf_last_tested value relative to now when it
// parses as a timestamp, otherwise as-is.
func LastTested(value string, now time.Time) string {
	if value == "" {
		return neverChecked
	}
	t := util.ParseTime(value)
	if t == nil {
		return value
	}
	return TimeDuration(now.Sub(*t)) + " ago"
}

func TimeDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.0fh", d.Hours())
	}
	return fmt.Sprintf("%.0fd", d.Hours()/24)
}
