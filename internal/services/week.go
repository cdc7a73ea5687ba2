package services

import "time"

// StartOfWeek returns the most recent Sunday 00:00 in loc at or before t.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d-int(local.Weekday()), 0, 0, 0, 0, loc)
}
