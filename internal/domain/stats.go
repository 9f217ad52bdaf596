package domain

import "time"

// ExpStats is the derived rate summary of a tracking history.
type ExpStats struct {
	ExpPerMinute   float64       `json:"exp_per_minute"`
	ExpPerHour     float64       `json:"exp_per_hour"`
	ExpPerInterval float64       `json:"exp_per_interval"`
	TrendPerMinute float64       `json:"trend_per_minute"`
	TotalGained    int64         `json:"total_gained"`
	Elapsed        time.Duration `json:"elapsed"`
	Samples        int           `json:"samples"`
	Segments       int           `json:"segments"`
	Interval       time.Duration `json:"interval"`
}

// ExpDisplay holds ready-to-render strings for the presentation layer.
type ExpDisplay struct {
	CurrentExp     string `json:"current_exp"`
	ExpPerMinute   string `json:"exp_per_minute"`
	ExpPerHour     string `json:"exp_per_hour"`
	ExpPerInterval string `json:"exp_per_interval"`
	TotalGained    string `json:"total_gained"`
	Elapsed        string `json:"elapsed"`
}
