package service

import "time"

// HourWindow returns the half-open clock-hour window [start, end) enclosing
// t, in t's location: minutes, seconds and nanoseconds zeroed. 14:37 and
// 14:02 share [14:00, 15:00); 15:00:00 opens the next window.
func HourWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	return start, start.Add(time.Hour)
}
