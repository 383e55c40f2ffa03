package calendar

import "time"

// Day is one cell of the month grid. Days that pad the grid out to whole
// weeks belong to adjacent months and are flagged so the renderer can dim
// them; they still carry their own lesson buckets.
type Day struct {
	Date    time.Time
	InMonth bool
}

// MonthGrid returns the cells to render for the month containing anchor:
// every date from the Sunday on or before the first of the month through
// the Saturday on or after the last, in ascending order. The result is
// always whole weeks, 28 to 42 cells depending on alignment. Pure function
// of the anchor, safe to recompute on every navigation.
func MonthGrid(anchor time.Time) []Day {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var days []Day
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:    cur,
			InMonth: cur.Month() == anchor.Month() && cur.Year() == anchor.Year(),
		})
	}
	return days
}

// MonthStart normalizes any date to the first of its month, the anchor the
// navigation callbacks pass around.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
