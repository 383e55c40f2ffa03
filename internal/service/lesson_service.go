package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/model"
)

// LessonAPI is the slice of the backend client the lesson service needs.
type LessonAPI interface {
	Lessons(ctx context.Context, token string, role model.Role) ([]model.Lesson, error)
	CreateLesson(ctx context.Context, token string, r api.CreateLessonRequest) (*model.Lesson, error)
	Teachers(ctx context.Context, token string) ([]model.Participant, error)
	Students(ctx context.Context, token string) ([]model.Participant, error)
}

// Feed is the lesson list as the calendar view holds it. NotImplemented is
// the "backend has no endpoint for this role yet" sub-state: the list is
// empty and the view shows a notice instead of an error.
type Feed struct {
	Lessons        []model.Lesson
	NotImplemented bool
}

type LessonService struct {
	api    LessonAPI
	logger *zap.Logger
}

func NewLessonService(api LessonAPI, logger *zap.Logger) *LessonService {
	return &LessonService{api: api, logger: logger}
}

// Upcoming fetches the viewer's lessons and returns them sorted by date
// then time. Any failure other than the missing-endpoint case clears the
// list; the caller retries by re-running the whole view.
func (s *LessonService) Upcoming(ctx context.Context, token string, role model.Role) (Feed, error) {
	lessons, err := s.api.Lessons(ctx, token, role)
	if err != nil {
		if errors.Is(err, api.ErrNotImplemented) {
			s.logger.Info("lessons endpoint not implemented for role",
				zap.String("role", string(role)))
			return Feed{Lessons: []model.Lesson{}, NotImplemented: true}, nil
		}
		return Feed{}, err
	}
	return Feed{Lessons: calendar.SortUpcoming(lessons)}, nil
}

// Directory returns the pickable students (and teachers, for the admin
// variant of the form) for lesson creation.
func (s *LessonService) Students(ctx context.Context, token string) ([]model.Participant, error) {
	return s.api.Students(ctx, token)
}

func (s *LessonService) Teachers(ctx context.Context, token string) ([]model.Participant, error) {
	return s.api.Teachers(ctx, token)
}

// Create validates the collected form fields and submits the lesson.
func (s *LessonService) Create(ctx context.Context, token string, draft LessonDraft) (*model.Lesson, error) {
	req, err := draft.request()
	if err != nil {
		return nil, err
	}

	lesson, err := s.api.CreateLesson(ctx, token, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lesson created",
		zap.Int64("lesson_id", lesson.ID),
		zap.String("date", lesson.Date),
		zap.Int("students", len(req.StudentIDs)))
	return lesson, nil
}

// FilterParticipants returns the entries whose name or email contains the
// query, case-insensitively. An empty query returns the list unchanged.
func FilterParticipants(list []model.Participant, query string) []model.Participant {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	var out []model.Participant
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Email), query) {
			out = append(out, p)
		}
	}
	return out
}

// LessonDraft carries the lesson-creation dialog's answers before
// submission.
type LessonDraft struct {
	Date           string
	Time           string
	Location       string
	PriceText      string // major units as typed, e.g. "25" or "19.99"
	OrganisationID int64
	StudentIDs     []int64
}

func (d LessonDraft) request() (api.CreateLessonRequest, error) {
	if _, ok := calendar.ParseDate(d.Date); !ok {
		return api.CreateLessonRequest{}, fmt.Errorf("date must look like 2024-03-05, got %q", d.Date)
	}
	if !validWireTime(d.Time) {
		return api.CreateLessonRequest{}, fmt.Errorf("time must look like 14:30, got %q", d.Time)
	}
	price, err := ParsePrice(d.PriceText)
	if err != nil {
		return api.CreateLessonRequest{}, err
	}
	if len(d.StudentIDs) == 0 {
		return api.CreateLessonRequest{}, errors.New("pick at least one student")
	}

	return api.CreateLessonRequest{
		Date:           d.Date,
		Time:           d.Time,
		Location:       d.Location,
		Price:          price,
		OrganisationID: d.OrganisationID,
		StudentIDs:     d.StudentIDs,
	}, nil
}

// ParsePrice converts a major-units amount ("25", "19.99") to minor units.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || amount < 0 {
		return 0, fmt.Errorf("price must be a non-negative amount, got %q", s)
	}
	return int64(math.Round(amount * 100)), nil
}

// validWireTime checks the strict HH:MM form the backend expects on
// creation. Parsing on display stays lenient; input does not.
func validWireTime(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}
