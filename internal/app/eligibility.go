package app

import "time"

// CanAttempt reports whether a user whose last attempt was at last may start a quiz at now.
// Days are compared as calendar dates in loc; a nil last always allows an attempt.
func CanAttempt(last *time.Time, now time.Time, loc *time.Location) bool {
	if last == nil {
		return true
	}
	if loc == nil {
		loc = time.Local
	}
	ly, lm, ld := last.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	return ly != ny || lm != nm || ld != nd
}
