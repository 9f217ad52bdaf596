package ocr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

var (
	percentRegexp = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{1,4})?)\s*%`)
	numberRegexp  = regexp.MustCompile(`\d(?:[\d,.']*\d)?`)
	labelRegexp   = regexp.MustCompile(`(?i)\b(exp|xp)\b`)
)

// ParseReading extracts the experience counter and an optional percentage
// from recognized text such as "EXP 1,234,567 [12.34%]". Thousands separators
// are stripped. The longest digit run wins when several are present.
func ParseReading(text string) (exp *int64, pct *float64) {
	rest := text
	if m := percentRegexp.FindStringSubmatchIndex(text); m != nil {
		raw := strings.Replace(text[m[2]:m[3]], ",", ".", 1)
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v <= MaxPercentage {
			pct = &v
		}
		rest = text[:m[0]] + " " + text[m[1]:]
	}

	best := ""
	for _, match := range numberRegexp.FindAllString(rest, -1) {
		digits := stripNonDigits(match)
		if len(digits) > len(best) {
			best = digits
		}
	}
	if best == "" {
		return nil, pct
	}

	v, err := strconv.ParseInt(best, 10, 64)
	if err != nil {
		return nil, pct
	}
	return &v, pct
}

// NewReading builds a reading from raw text and a confidence percentage.
func NewReading(text string, confidence float64) domain.OCRReading {
	text = strings.Join(strings.Fields(text), " ")
	exp, pct := ParseReading(text)
	return domain.OCRReading{
		Text:       text,
		ExpValue:   exp,
		Confidence: clampConfidence(confidence),
		Percentage: pct,
	}
}

// HasLabel reports whether text contains the experience label.
func HasLabel(text string) bool {
	return labelRegexp.MatchString(text)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
