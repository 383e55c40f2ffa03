package common

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/model"
	"github.com/edulane/lessonbot/internal/service"
)

func marchView(lessons []model.Lesson) ViewState {
	return ViewState{
		Feed:   service.Feed{Lessons: lessons},
		Role:   model.RoleTeacher,
		Name:   "Dana",
		Anchor: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local),
	}
}

func TestRenderCalendarCaption(t *testing.T) {
	v := marchView([]model.Lesson{
		{ID: 1, Date: "2024-03-05", Time: "09:00"},
		{ID: 2, Date: "2024-03-05", Time: "10:00"},
		{ID: 3, Date: "2024-04-01", Time: "09:00"}, // outside the viewed month
	})

	_, caption, _, err := RenderCalendar(v, time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Contains(t, caption, "March 2024")
	assert.Contains(t, caption, "Dana · Teacher")
	assert.Contains(t, caption, "2 lesson(s) this month")
}

func TestRenderCalendarNotImplementedNotice(t *testing.T) {
	v := marchView(nil)
	v.Feed.NotImplemented = true

	_, caption, _, err := RenderCalendar(v, time.Now())
	require.NoError(t, err)

	assert.Contains(t, caption, "ℹ️")
	assert.Contains(t, caption, "isn’t available on the server yet")
}

func TestRenderCalendarErrorBannerWinsOverNotice(t *testing.T) {
	v := marchView(nil)
	v.Feed.NotImplemented = true
	v.Error = "something broke"

	_, caption, _, err := RenderCalendar(v, time.Now())
	require.NoError(t, err)

	assert.Contains(t, caption, "⚠️ something broke")
	assert.NotContains(t, caption, "ℹ️")
}

// The missing-endpoint notice is part of the parked feed, so switching
// months must not drop it.
func TestNotImplementedNoticeSurvivesNavigation(t *testing.T) {
	m := state.NewManager()
	v := marchView(nil)
	v.Role = model.RoleStudent
	v.Feed.NotImplemented = true
	SaveViewState(m, 7, v)

	reloaded, ok := LoadViewState(m, 7)
	require.True(t, ok)
	assert.True(t, reloaded.Feed.NotImplemented)

	reloaded.Anchor = reloaded.Anchor.AddDate(0, 1, 0)
	_, caption, _, err := RenderCalendar(reloaded, time.Now())
	require.NoError(t, err)
	assert.Contains(t, caption, "ℹ️")
}

func TestErrorBannerSurvivesNavigation(t *testing.T) {
	m := state.NewManager()
	v := marchView(nil)
	v.Error = "Request failed (500)"
	SaveViewState(m, 7, v)

	reloaded, ok := LoadViewState(m, 7)
	require.True(t, ok)
	assert.Equal(t, "Request failed (500)", reloaded.Error)

	reloaded.Anchor = reloaded.Anchor.AddDate(0, -1, 0)
	_, caption, _, err := RenderCalendar(reloaded, time.Now())
	require.NoError(t, err)
	assert.Contains(t, caption, "⚠️ Request failed (500)")
}

func TestRenderCalendarKeyboard(t *testing.T) {
	v := marchView([]model.Lesson{
		{ID: 1, Date: "2024-03-05", Time: "09:00"},
		{ID: 2, Date: "2024-03-18", Time: "10:00"},
	})

	_, _, kb, err := RenderCalendar(v, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, kb.InlineKeyboard)

	nav := kb.InlineKeyboard[0]
	require.Len(t, nav, 3)
	assert.Equal(t, "cal_nav:2024-02", nav[0].CallbackData)
	assert.Equal(t, CalToday, nav[1].CallbackData)
	assert.Equal(t, "cal_nav:2024-04", nav[2].CallbackData)

	var dayData []string
	for _, row := range kb.InlineKeyboard[1:] {
		for _, btn := range row {
			dayData = append(dayData, btn.CallbackData)
		}
	}
	assert.Equal(t, []string{"cal_day:2024-03-05", "cal_day:2024-03-18"}, dayData)
}

func TestRenderDayListsBucketInOrder(t *testing.T) {
	v := marchView([]model.Lesson{
		{ID: 1, Date: "2024-03-05", Time: "14:00", Location: "Room 2", Price: 2500,
			Students: []model.Participant{{ID: 1, Name: "Ada"}}},
		{ID: 2, Date: "2024-03-05", Time: "09:00", Location: "Room 1", Price: 1999,
			Students: []model.Participant{{ID: 2, Name: "Ben"}}},
	})

	text, kb := RenderDay(v, "2024-03-05")

	assert.Contains(t, text, "2024-03-05")
	assert.Less(t, strings.Index(text, "9:00 AM"), strings.Index(text, "2:00 PM"))
	assert.Contains(t, text, "Students: Ben")
	assert.Contains(t, text, "$19.99")

	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, CalMonth, kb.InlineKeyboard[0][0].CallbackData)
}

func TestRenderDayEmpty(t *testing.T) {
	text, _ := RenderDay(marchView(nil), "2024-03-09")
	assert.Contains(t, text, "No lessons on this day.")
}

func TestViewStateRoundTrip(t *testing.T) {
	m := state.NewManager()
	anchor := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.Local)

	_, ok := LoadViewState(m, 7)
	assert.False(t, ok)

	SaveViewState(m, 7, ViewState{
		Feed:   service.Feed{Lessons: []model.Lesson{{ID: 9}}},
		Role:   model.RoleStudent,
		Name:   "Kim",
		Anchor: anchor,
	})

	v, ok := LoadViewState(m, 7)
	require.True(t, ok)
	assert.Equal(t, model.RoleStudent, v.Role)
	assert.Equal(t, "Kim", v.Name)
	assert.Equal(t, anchor, v.Anchor)
	require.Len(t, v.Feed.Lessons, 1)
	assert.EqualValues(t, 9, v.Feed.Lessons[0].ID)
}
