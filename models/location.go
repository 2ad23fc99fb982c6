package models

import "time"

// LocationSample is a single device position fix. Samples are transient and
// never persisted locally.
type LocationSample struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"captured_at"`
}

// Age returns how old the fix is at time now.
func (s LocationSample) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}
