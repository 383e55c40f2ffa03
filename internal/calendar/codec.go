// Package calendar turns the backend's flat lesson list into everything a
// month view needs: parsed dates and times, the grid of cells to render,
// per-day buckets and the globally ordered upcoming list.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a plain calendar date. No timezone is attached on purpose: the
// wire format carries none and shifting lesson dates across zones would
// move them into the wrong cell.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Clock is a time of day in 24-hour form.
type Clock struct {
	Hour   int
	Minute int
}

// ParseDate parses a "2006-01-02" wire date. It reports false when any
// component is missing or non-numeric; callers treat that as "unscheduled"
// and keep the lesson out of date-keyed structures rather than failing.
func ParseDate(s string) (Date, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y == 0 {
		return Date{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return Date{}, false
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d == 0 {
		return Date{}, false
	}
	return Date{Year: y, Month: time.Month(m), Day: d}, true
}

// ParseTime parses a "15:04" wire time. Each component independently falls
// back to 0, so a partially malformed string still yields a best-effort
// time instead of an error; a missing time sorts as midnight.
func ParseTime(s string) Clock {
	var c Clock
	parts := strings.Split(s, ":")
	if len(parts) > 0 {
		if h, err := strconv.Atoi(parts[0]); err == nil {
			c.Hour = h
		}
	}
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil {
			c.Minute = m
		}
	}
	return c
}

// Key returns the canonical "2006-01-02" bucketing key.
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns the date at local midnight, used only for ordering and
// grid arithmetic.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// DateKey converts a time.Time to the canonical bucketing key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatClock renders a wire time as a 12-hour clock, "3:04 PM" style.
// Hours 0 and 12 both render as 12, minutes are always two digits.
func FormatClock(s string) string {
	c := ParseTime(s)
	ampm := "AM"
	if c.Hour >= 12 {
		ampm = "PM"
	}
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, ampm)
}
