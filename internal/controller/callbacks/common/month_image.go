package common

import (
	"bytes"
	"fmt"
	"image/color"
	"time"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common/formatting"
	"github.com/edulane/lessonbot/internal/model"
)

// Layout constants.
const (
	imageWidth     = 1120
	titleHeight    = 56
	weekdayRow     = 32
	cellHeight     = 150
	daysPerWeek    = 7
	cellPadding    = 8.0
	lineHeight     = 16.0
	maxCellLessons = 3
)

// Color scheme.
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	gridLineColor   = color.RGBA{210, 213, 218, 255}
	titleColor      = color.RGBA{40, 44, 48, 255}
	weekdayColor    = color.RGBA{110, 115, 120, 255}
	dayNumColor     = color.RGBA{50, 55, 60, 255}
	outMonthColor   = color.RGBA{235, 236, 238, 255}
	outMonthTextCol = color.RGBA{170, 173, 178, 255}
	todayBgColor    = color.RGBA{219, 234, 254, 255}
	lessonTimeColor = color.RGBA{30, 64, 175, 255}
	lessonTextColor = color.RGBA{90, 95, 100, 255}
	moreColor       = color.RGBA{140, 144, 150, 255}
)

// GenerateMonthImage renders the month grid for the anchor month: whole
// weeks Sunday through Saturday, out-of-month cells dimmed, today
// highlighted, up to three lessons per cell with a "+N more" tail. The
// buckets come from calendar.BucketByDate over the viewer's lesson list.
func GenerateMonthImage(anchor time.Time, buckets map[string][]model.Lesson, role model.Role, now time.Time) ([]byte, error) {
	days := calendar.MonthGrid(anchor)
	rows := len(days) / daysPerWeek
	height := titleHeight + weekdayRow + rows*cellHeight

	dc := gg.NewContext(imageWidth, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	drawTitle(dc, anchor)
	drawWeekdayRow(dc)

	todayKey := calendar.DateKey(now)
	cellWidth := float64(imageWidth) / daysPerWeek

	for i, day := range days {
		col := i % daysPerWeek
		row := i / daysPerWeek
		x := float64(col) * cellWidth
		y := float64(titleHeight + weekdayRow + row*cellHeight)
		key := calendar.DateKey(day.Date)

		drawCell(dc, x, y, cellWidth, day, key == todayKey, buckets[key], role)
	}

	drawGridLines(dc, rows, cellWidth)

	return encodeImage(dc)
}

func drawTitle(dc *gg.Context, anchor time.Time) {
	dc.SetColor(titleColor)
	dc.DrawStringAnchored(formatting.MonthLabel(anchor), imageWidth/2, titleHeight/2, 0.5, 0.35)
}

func drawWeekdayRow(dc *gg.Context) {
	cellWidth := float64(imageWidth) / daysPerWeek
	dc.SetColor(weekdayColor)
	for i := 0; i < daysPerWeek; i++ {
		label := formatting.WeekdayShort(time.Weekday(i))
		dc.DrawStringAnchored(label, float64(i)*cellWidth+cellWidth/2, titleHeight+weekdayRow/2, 0.5, 0.35)
	}
}

func drawCell(dc *gg.Context, x, y, w float64, day calendar.Day, isToday bool, lessons []model.Lesson, role model.Role) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
		dc.DrawRectangle(x, y, w, cellHeight)
		dc.Fill()
	case !day.InMonth:
		dc.SetColor(outMonthColor)
		dc.DrawRectangle(x, y, w, cellHeight)
		dc.Fill()
	}

	numColor := dayNumColor
	if !day.InMonth {
		numColor = outMonthTextCol
	}
	dc.SetColor(numColor)
	dc.DrawString(fmt.Sprintf("%d", day.Date.Day()), x+cellPadding, y+cellPadding+10)

	if len(lessons) > 0 {
		dc.SetColor(moreColor)
		dc.DrawStringAnchored(fmt.Sprintf("%d", len(lessons)), x+w-cellPadding-4, y+cellPadding+6, 1, 0.35)
	}

	maxChars := int((w - 2*cellPadding) / 7) // basicfont glyphs are 7px wide
	lineY := y + cellPadding + 10 + 2*lineHeight

	shown := lessons
	if len(shown) > maxCellLessons {
		shown = shown[:maxCellLessons]
	}
	for _, l := range shown {
		dc.SetColor(lessonTimeColor)
		dc.DrawString(truncate(calendar.FormatClock(l.Time), maxChars), x+cellPadding, lineY)
		lineY += lineHeight

		detail := formatting.LocationOrUnknown(l.Location) + " - " + calendar.CounterpartSummary(l, role)
		dc.SetColor(lessonTextColor)
		dc.DrawString(truncate(detail, maxChars), x+cellPadding, lineY)
		lineY += lineHeight + 4
	}

	if len(lessons) > maxCellLessons {
		dc.SetColor(moreColor)
		dc.DrawString(fmt.Sprintf("+%d more", len(lessons)-maxCellLessons), x+cellPadding, lineY)
	}
}

func drawGridLines(dc *gg.Context, rows int, cellWidth float64) {
	dc.SetColor(gridLineColor)
	dc.SetLineWidth(1)

	top := float64(titleHeight + weekdayRow)
	bottom := top + float64(rows*cellHeight)

	for i := 0; i <= daysPerWeek; i++ {
		x := float64(i) * cellWidth
		dc.DrawLine(x, top, x, bottom)
		dc.Stroke()
	}
	for r := 0; r <= rows; r++ {
		y := top + float64(r*cellHeight)
		dc.DrawLine(0, y, imageWidth, y)
		dc.Stroke()
	}
}

// truncate shortens s to max characters. It counts runes, not bytes, so a
// multibyte location or name is never cut mid-rune.
func truncate(s string, max int) string {
	if max < 4 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode month image: %w", err)
	}
	return buf.Bytes(), nil
}
