package common

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common/formatting"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common/keyboard"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/model"
	"github.com/edulane/lessonbot/internal/service"
)

// Calendar navigation callback data.
const (
	CalNavPrefix = "cal_nav:" // cal_nav:2024-03, switch viewed month
	CalToday     = "cal_today"
	CalDayPrefix = "cal_day:" // cal_day:2024-03-05, open one day
	CalMonth     = "cal_month" // back to the month view
)

// Shown instead of the error banner whenever the feed carries the
// missing-endpoint sub-state, on the first render and after navigation
// alike.
const notImplementedNotice = "The lesson calendar for your role isn’t " +
	"available on the server yet. Once it is, your upcoming lessons will " +
	"show up here."

// ViewState is everything the calendar screen renders from. It is held in
// the chat's scratch data after the fetch, so navigation recomputes the
// grid without touching the network. The banners are part of the fetch
// outcome: the not-implemented notice derives from Feed.NotImplemented and
// Error carries until the next fetch, so both survive navigation.
type ViewState struct {
	Feed   service.Feed
	Role   model.Role
	Name   string
	Anchor time.Time // first of the viewed month
	Error  string    // error banner text; lesson data may still render
}

// SaveViewState parks the calendar view in the chat's scratch data.
func SaveViewState(m *state.Manager, chatID int64, v ViewState) {
	m.SetData(chatID, state.KeyViewLessons, v.Feed)
	m.SetData(chatID, state.KeyViewRole, v.Role)
	m.SetData(chatID, state.KeyViewName, v.Name)
	m.SetData(chatID, state.KeyViewAnchor, v.Anchor)
	m.SetData(chatID, state.KeyViewError, v.Error)
}

// LoadViewState restores a previously parked calendar view. It reports
// false when the chat has no view yet (navigation before /calendar).
func LoadViewState(m *state.Manager, chatID int64) (ViewState, bool) {
	feedRaw, ok := m.GetData(chatID, state.KeyViewLessons)
	if !ok {
		return ViewState{}, false
	}
	feed, ok := feedRaw.(service.Feed)
	if !ok {
		return ViewState{}, false
	}

	v := ViewState{Feed: feed, Anchor: calendar.MonthStart(time.Now())}
	if raw, ok := m.GetData(chatID, state.KeyViewRole); ok {
		if role, ok := raw.(model.Role); ok {
			v.Role = role
		}
	}
	if raw, ok := m.GetData(chatID, state.KeyViewName); ok {
		if name, ok := raw.(string); ok {
			v.Name = name
		}
	}
	if raw, ok := m.GetData(chatID, state.KeyViewAnchor); ok {
		if anchor, ok := raw.(time.Time); ok {
			v.Anchor = anchor
		}
	}
	if raw, ok := m.GetData(chatID, state.KeyViewError); ok {
		if msg, ok := raw.(string); ok {
			v.Error = msg
		}
	}
	return v, true
}

// RenderCalendar produces the month screen: the grid PNG, the caption and
// the navigation keyboard.
func RenderCalendar(v ViewState, now time.Time) ([]byte, string, *models.InlineKeyboardMarkup, error) {
	buckets := calendar.BucketByDate(v.Feed.Lessons)

	img, err := GenerateMonthImage(v.Anchor, buckets, v.Role, now)
	if err != nil {
		return nil, "", nil, err
	}

	return img, calendarCaption(v, buckets), calendarKeyboard(v, buckets), nil
}

func calendarCaption(v ViewState, buckets map[string][]model.Lesson) string {
	caption := "📅 " + formatting.MonthLabel(v.Anchor) + "\n"
	if v.Name != "" {
		caption += v.Name + " · "
	}
	caption += v.Role.Title()

	inMonth := 0
	for _, day := range calendar.MonthGrid(v.Anchor) {
		if day.InMonth {
			inMonth += len(buckets[calendar.DateKey(day.Date)])
		}
	}
	caption += fmt.Sprintf("\n%d lesson(s) this month", inMonth)

	if v.Error != "" {
		caption += "\n\n⚠️ " + v.Error
	} else if v.Feed.NotImplemented {
		caption += "\n\nℹ️ " + notImplementedNotice
	}
	return caption
}

func calendarKeyboard(v ViewState, buckets map[string][]model.Lesson) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()

	prev := v.Anchor.AddDate(0, -1, 0)
	next := v.Anchor.AddDate(0, 1, 0)
	kb.Row(
		keyboard.Button("⬅️ "+prev.Format("Jan"), CalNavPrefix+prev.Format("2006-01")),
		keyboard.Button("Today", CalToday),
		keyboard.Button(next.Format("Jan")+" ➡️", CalNavPrefix+next.Format("2006-01")),
	)

	// One button per in-month day that has lessons, four to a row.
	var row []models.InlineKeyboardButton
	for _, day := range calendar.MonthGrid(v.Anchor) {
		if !day.InMonth {
			continue
		}
		key := calendar.DateKey(day.Date)
		bucket := buckets[key]
		if len(bucket) == 0 {
			continue
		}
		label := fmt.Sprintf("%s %d (%d)", day.Date.Format("Jan"), day.Date.Day(), len(bucket))
		row = append(row, keyboard.Button(label, CalDayPrefix+key))
		if len(row) == 4 {
			kb.AddRow(row)
			row = nil
		}
	}
	kb.AddRow(row)

	return kb.Build()
}

// RenderDay produces the single-day screen listing the bucket's lessons
// in time order.
func RenderDay(v ViewState, dateKey string) (string, *models.InlineKeyboardMarkup) {
	bucket := calendar.BucketByDate(v.Feed.Lessons)[dateKey]

	text := "📅 " + dateKey + "\n\n"
	if len(bucket) == 0 {
		text += "No lessons on this day."
	}
	counterpartLabel := "Teacher: "
	if v.Role == model.RoleTeacher {
		counterpartLabel = "Students: "
	}
	for _, l := range bucket {
		text += fmt.Sprintf("🕐 %s · %s\n%s%s\n💵 %s\n\n",
			calendar.FormatClock(l.Time),
			formatting.LocationOrUnknown(l.Location),
			counterpartLabel,
			calendar.CounterpartSummary(l, v.Role),
			formatting.FormatPrice(l.Price),
		)
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("⬅️ Back to month", CalMonth)).
		Build()
	return text, kb
}
