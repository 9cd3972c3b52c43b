package grading

import "time"

// Grace is added to the duration before a submission counts as late.
const Grace = 30 * time.Second

// AttemptsAllowed is retakes plus the first attempt.
func AttemptsAllowed(retakes int) int {
	if retakes < 0 {
		retakes = 0
	}
	return retakes + 1
}

func CanAttempt(used, retakes int) bool {
	return used < AttemptsAllowed(retakes)
}

// Deadline returns the zero time when durationMinutes is 0 (untimed).
func Deadline(start time.Time, durationMinutes int) time.Time {
	if durationMinutes <= 0 {
		return time.Time{}
	}
	return start.Add(time.Duration(durationMinutes)*time.Minute + Grace)
}

// IsLate reports whether now is past the graced deadline.
func IsLate(start time.Time, durationMinutes int, now time.Time) bool {
	d := Deadline(start, durationMinutes)
	return !d.IsZero() && now.After(d)
}

// StillOpen reports whether an unfinished attempt may be resumed.
func StillOpen(start time.Time, durationMinutes int, now time.Time) bool {
	return !IsLate(start, durationMinutes, now)
}

// WithinWindow checks an optional [start, end] window.
func WithinWindow(start, end *time.Time, now time.Time) bool {
	if start != nil && now.Before(*start) {
		return false
	}
	if end != nil && now.After(*end) {
		return false
	}
	return true
}

// Progress is floor(completed/total*100), clamped to 0..100.
func Progress(completed, total int64) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(completed * 100 / total)
}
