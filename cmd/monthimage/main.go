// Command monthimage renders a month grid with sample lessons to
// month.png, for eyeballing layout changes without a running bot.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common"
	"github.com/edulane/lessonbot/internal/model"
)

func main() {
	now := time.Now()
	anchor := calendar.MonthStart(now)

	day := func(d int) string {
		return calendar.Date{Year: anchor.Year(), Month: anchor.Month(), Day: d}.Key()
	}

	lessons := []model.Lesson{
		{
			ID: 1, Date: day(3), Time: "09:00", Location: "Room 12", Price: 2500,
			Students: []model.Participant{{ID: 100, Name: "Ada Brown"}},
		},
		{
			ID: 2, Date: day(3), Time: "14:30", Location: "Room 12", Price: 2500,
			Students: []model.Participant{{ID: 101, Name: "Ben Cole"}},
		},
		{
			ID: 3, Date: day(3), Time: "16:00", Location: "Online", Price: 1999,
			Students: []model.Participant{{ID: 102, Name: "Cleo Diaz"}},
		},
		{
			ID: 4, Date: day(3), Time: "18:00", Location: "Online", Price: 1999,
			Students: []model.Participant{{ID: 103, Name: "Dan Epps"}},
		},
		{
			ID: 5, Date: day(12), Time: "10:00", Location: "Main hall", Price: 3000,
			Students: []model.Participant{
				{ID: 100, Name: "Ada Brown"},
				{ID: 101, Name: "Ben Cole"},
				{ID: 102, Name: "Cleo Diaz"},
				{ID: 103, Name: "Dan Epps"},
			},
		},
		{
			ID: 6, Date: day(21), Time: "11:00", Location: "Online", Price: 1999,
			Students: []model.Participant{{ID: 101, Name: "Ben Cole"}},
		},
	}

	buckets := calendar.BucketByDate(lessons)

	img, err := common.GenerateMonthImage(anchor, buckets, model.RoleTeacher, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("month.png", img, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("wrote month.png")
}
