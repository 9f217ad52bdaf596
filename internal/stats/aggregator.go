// Package stats derives EXP rates from tracking history.
package stats

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// TotalGained sums the gains within each segment. A re-baseline starts a new
// segment and contributes no gain, so the total never goes negative.
func TotalGained(entries []domain.ExpHistoryEntry) int64 {
	var total int64
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Segment != prev.Segment {
			continue
		}
		if d := cur.Exp - prev.Exp; d > 0 {
			total += d
		}
	}
	return total
}

// Elapsed is the time between the first and last entry.
func Elapsed(entries []domain.ExpHistoryEntry) time.Duration {
	if len(entries) < 2 {
		return 0
	}
	d := entries[len(entries)-1].Timestamp.Sub(entries[0].Timestamp)
	if d < 0 {
		return 0
	}
	return d
}

// ExpPerMinute is the gain between the first and last entry divided by the
// minutes between them. Fewer than two entries, or a span under
// MinRateWindow, gives 0.
func ExpPerMinute(entries []domain.ExpHistoryEntry) float64 {
	span := Elapsed(entries)
	if span < MinRateWindow {
		return 0
	}
	return float64(TotalGained(entries)) / span.Minutes()
}

// ExpPerHour scales a per-minute rate to an hour.
func ExpPerHour(perMinute float64) float64 {
	return perMinute * MinutesPerHour
}

// ExpPerInterval scales a per-minute rate to one capture interval.
func ExpPerInterval(perMinute float64, interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	return perMinute * interval.Minutes()
}

// TrendPerMinute is the least-squares slope of cumulative gain over time. It
// smooths out irregular capture spacing that the endpoint rate ignores.
func TrendPerMinute(entries []domain.ExpHistoryEntry) float64 {
	if len(entries) < 2 || Elapsed(entries) < MinRateWindow {
		return 0
	}

	xs := make([]float64, len(entries))
	ys := make([]float64, len(entries))
	origin := entries[0].Timestamp
	var gained int64
	for i, e := range entries {
		if i > 0 && e.Segment == entries[i-1].Segment {
			if d := e.Exp - entries[i-1].Exp; d > 0 {
				gained += d
			}
		}
		xs[i] = e.Timestamp.Sub(origin).Minutes()
		ys[i] = float64(gained)
	}

	if stat.Variance(xs, nil) == 0 {
		return 0
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}

// Summarize computes every rate for the history at the given capture interval.
func Summarize(entries []domain.ExpHistoryEntry, interval time.Duration) domain.ExpStats {
	perMinute := ExpPerMinute(entries)

	segments := 0
	if len(entries) > 0 {
		segments = entries[len(entries)-1].Segment - entries[0].Segment + 1
	}

	return domain.ExpStats{
		ExpPerMinute:   perMinute,
		ExpPerHour:     ExpPerHour(perMinute),
		ExpPerInterval: ExpPerInterval(perMinute, interval),
		TrendPerMinute: TrendPerMinute(entries),
		TotalGained:    TotalGained(entries),
		Elapsed:        Elapsed(entries),
		Samples:        len(entries),
		Segments:       segments,
		Interval:       interval,
	}
}
