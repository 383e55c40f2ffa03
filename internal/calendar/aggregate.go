package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/edulane/lessonbot/internal/model"
)

// BucketByDate groups lessons by their canonical date key and sorts each
// bucket by time ascending. The sort is stable: lessons at the same time
// keep their original relative order. Lessons whose date does not parse
// are left out of the map entirely; they remain in the flat list but no
// calendar cell can reach them.
func BucketByDate(lessons []model.Lesson) map[string][]model.Lesson {
	buckets := make(map[string][]model.Lesson)
	for _, l := range lessons {
		d, ok := ParseDate(l.Date)
		if !ok {
			continue
		}
		key := d.Key()
		buckets[key] = append(buckets[key], l)
	}
	for key, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return clockLess(ParseTime(bucket[i].Time), ParseTime(bucket[j].Time))
		})
		buckets[key] = bucket
	}
	return buckets
}

// SortUpcoming returns the lessons ordered by date ascending, then time
// ascending, stably. A lesson whose date fails to parse sorts as if dated
// at the epoch-zero sentinel, which places it first rather than hiding it.
// The input slice is not modified.
func SortUpcoming(lessons []model.Lesson) []model.Lesson {
	sorted := make([]model.Lesson, len(lessons))
	copy(sorted, lessons)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := sentinelTime(sorted[i].Date)
		dj := sentinelTime(sorted[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return clockLess(ParseTime(sorted[i].Time), ParseTime(sorted[j].Time))
	})
	return sorted
}

// CounterpartSummary summarizes the lesson's other-role participants for
// display: the role's empty label for none, the name for one, names joined
// with ", " for up to three, and "First +N more" beyond that.
func CounterpartSummary(l model.Lesson, role model.Role) string {
	var names []string
	for _, p := range role.Counterpart(l) {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	switch {
	case len(names) == 0:
		return role.View().EmptyLabel
	case len(names) == 1:
		return names[0]
	case len(names) <= 3:
		return strings.Join(names, ", ")
	default:
		return fmt.Sprintf("%s +%d more", names[0], len(names)-1)
	}
}

func clockLess(a, b Clock) bool {
	if a.Hour != b.Hour {
		return a.Hour < b.Hour
	}
	return a.Minute < b.Minute
}

func sentinelTime(dateStr string) time.Time {
	d, ok := ParseDate(dateStr)
	if !ok {
		return time.Time{} // epoch-zero sentinel, sorts first
	}
	return d.Time()
}
