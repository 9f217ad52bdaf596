package domain

import "time"

// SavedExpRecord is a user-curated snapshot of a computed rate. Its lifecycle
// is independent of the live tracking history.
type SavedExpRecord struct {
	ID           string  `json:"id"`
	MonsterName  string  `json:"monster_name"`
	Minutes      float64 `json:"minutes"`
	ExpPerMinute float64 `json:"exp_per_minute"`
	TotalExp     int64   `json:"total_exp"`
	// TotalExpManual is set while a typed total overrides the calculated one.
	TotalExpManual bool      `json:"total_exp_manual"`
	SavedAt        time.Time `json:"saved_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RecordDraft is the user input for creating or editing a saved record.
type RecordDraft struct {
	MonsterName      string  `json:"monster_name" validate:"required,max=100,nocontrol"`
	Minutes          float64 `json:"minutes" validate:"gt=0,lte=10080"`
	TotalExpOverride *int64  `json:"total_exp_override,omitempty" validate:"omitempty,gte=0"`
	// ExpPerMinute replaces the stored rate on edit when set.
	ExpPerMinute *float64 `json:"exp_per_minute,omitempty" validate:"omitempty,gte=0"`
}

// Preferences is the persisted configuration surface of the tracker.
type Preferences struct {
	CaptureInterval time.Duration     `json:"capture_interval"`
	Region          *NormalizedRegion `json:"region,omitempty"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
