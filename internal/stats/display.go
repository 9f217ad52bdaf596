package stats

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// FormatDisplay renders a summary with locale digit grouping. current may be
// nil before the first accepted reading.
func FormatDisplay(s domain.ExpStats, current *int64, tag language.Tag) domain.ExpDisplay {
	p := message.NewPrinter(tag)

	d := domain.ExpDisplay{
		CurrentExp:     NoValue,
		ExpPerMinute:   p.Sprintf("%d", round(s.ExpPerMinute)),
		ExpPerHour:     p.Sprintf("%d", round(s.ExpPerHour)),
		ExpPerInterval: p.Sprintf("%d", round(s.ExpPerInterval)),
		TotalGained:    p.Sprintf("%d", s.TotalGained),
		Elapsed:        FormatElapsed(s.Elapsed),
	}
	if current != nil {
		d.CurrentExp = p.Sprintf("%d", *current)
	}
	return d
}

// FormatElapsed renders a duration as h:mm:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

func round(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}
