package edl

import "math"

const (
	// MinDuration guards against zero-length ranges (0.1 ms).
	MinDuration = 1e-4

	// MaxTime clamps absurd time values that could destabilize the
	// transport (24 hours).
	MaxTime = 24.0 * 60.0 * 60.0
)

// SanitizeTime coerces a time value into [0, MaxTime]. Non-finite values
// become the fallback.
func SanitizeTime(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > MaxTime {
		return MaxTime
	}
	return v
}

// SanitizeDuration coerces a duration: non-finite or below MinDuration
// collapses to zero, which callers treat as "drop this range".
func SanitizeDuration(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < MinDuration {
		return 0
	}
	return v
}
