package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/model"
)

type fakeLessonAPI struct {
	lessons    []model.Lesson
	lessonsErr error
	created    *api.CreateLessonRequest
	students   []model.Participant
}

func (f *fakeLessonAPI) Lessons(ctx context.Context, token string, role model.Role) ([]model.Lesson, error) {
	return f.lessons, f.lessonsErr
}

func (f *fakeLessonAPI) CreateLesson(ctx context.Context, token string, r api.CreateLessonRequest) (*model.Lesson, error) {
	f.created = &r
	return &model.Lesson{ID: 42, Date: r.Date, Time: r.Time}, nil
}

func (f *fakeLessonAPI) Teachers(ctx context.Context, token string) ([]model.Participant, error) {
	return nil, nil
}

func (f *fakeLessonAPI) Students(ctx context.Context, token string) ([]model.Participant, error) {
	return f.students, nil
}

func TestUpcoming_SortsFetchedLessons(t *testing.T) {
	fake := &fakeLessonAPI{lessons: []model.Lesson{
		{ID: 1, Date: "2024-03-06", Time: "08:00"},
		{ID: 2, Date: "2024-03-05", Time: "10:00"},
		{ID: 3, Date: "2024-03-05", Time: "09:00"},
	}}
	svc := NewLessonService(fake, zap.NewNop())

	feed, err := svc.Upcoming(context.Background(), "tok", model.RoleTeacher)
	require.NoError(t, err)
	assert.False(t, feed.NotImplemented)

	ids := []int64{feed.Lessons[0].ID, feed.Lessons[1].ID, feed.Lessons[2].ID}
	assert.Equal(t, []int64{3, 2, 1}, ids)
}

func TestUpcoming_NotImplementedIsInformational(t *testing.T) {
	fake := &fakeLessonAPI{lessonsErr: api.ErrNotImplemented}
	svc := NewLessonService(fake, zap.NewNop())

	feed, err := svc.Upcoming(context.Background(), "tok", model.RoleStudent)
	require.NoError(t, err, "missing endpoint must not surface as an error")
	assert.True(t, feed.NotImplemented)
	assert.Empty(t, feed.Lessons)
	assert.NotNil(t, feed.Lessons)
}

func TestUpcoming_OtherErrorsClearTheList(t *testing.T) {
	fake := &fakeLessonAPI{lessonsErr: &api.StatusError{Status: 500}}
	svc := NewLessonService(fake, zap.NewNop())

	feed, err := svc.Upcoming(context.Background(), "tok", model.RoleTeacher)
	require.Error(t, err)
	assert.Empty(t, feed.Lessons)
}

func TestCreate_ValidatesDraft(t *testing.T) {
	svc := NewLessonService(&fakeLessonAPI{}, zap.NewNop())

	valid := LessonDraft{
		Date:           "2024-03-05",
		Time:           "14:30",
		Location:       "Room 4",
		PriceText:      "25",
		OrganisationID: 1,
		StudentIDs:     []int64{10},
	}

	tests := []struct {
		name    string
		mutate  func(*LessonDraft)
		wantErr string
	}{
		{"bad date", func(d *LessonDraft) { d.Date = "05/03/2024" }, "date"},
		{"bad time", func(d *LessonDraft) { d.Time = "2pm" }, "time"},
		{"bad price", func(d *LessonDraft) { d.PriceText = "free" }, "price"},
		{"no students", func(d *LessonDraft) { d.StudentIDs = nil }, "student"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := valid
			tt.mutate(&draft)
			_, err := svc.Create(context.Background(), "tok", draft)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreate_ConvertsPriceToMinorUnits(t *testing.T) {
	fake := &fakeLessonAPI{}
	svc := NewLessonService(fake, zap.NewNop())

	_, err := svc.Create(context.Background(), "tok", LessonDraft{
		Date:           "2024-03-05",
		Time:           "14:30",
		PriceText:      "19.99",
		OrganisationID: 1,
		StudentIDs:     []int64{10},
	})
	require.NoError(t, err)
	require.NotNil(t, fake.created)
	assert.Equal(t, int64(1999), fake.created.Price)
	assert.Equal(t, []int64{10}, fake.created.StudentIDs)
	assert.NotNil(t, fake.created.TeacherIDs, "teacher ids must encode as [], not null")
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"25", 2500, false},
		{"19.99", 1999, false},
		{"$12.50", 1250, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFilterParticipants(t *testing.T) {
	list := []model.Participant{
		{ID: 1, Name: "Ada Lovelace", Email: "ada@school.org"},
		{ID: 2, Name: "Ben Okri", Email: "ben@school.org"},
		{ID: 3, Name: "Cy Twombly", Email: "cy@other.org"},
	}

	assert.Len(t, FilterParticipants(list, ""), 3)
	assert.Len(t, FilterParticipants(list, "ADA"), 1)
	assert.Len(t, FilterParticipants(list, "school.org"), 2)
	assert.Empty(t, FilterParticipants(list, "zzz"))

	byEmail := FilterParticipants(list, "other")
	require.Len(t, byEmail, 1)
	assert.Equal(t, int64(3), byEmail[0].ID)
}
