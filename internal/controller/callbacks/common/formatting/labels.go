package formatting

import "time"

// MonthLabel renders the viewed month header, e.g. "March 2024".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// WeekdayShort returns the three-letter column header for a weekday.
func WeekdayShort(w time.Weekday) string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	return names[int(w)%7]
}

// LocationOrUnknown substitutes the display fallback for a blank location.
func LocationOrUnknown(location string) string {
	if location == "" {
		return "Unknown location"
	}
	return location
}
