package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zap.NewNop())
}

func TestLogin_Success(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a@b.com", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		w.Write([]byte(`{"access_token":"tok123","token_type":"bearer"}`))
	})

	token, err := c.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	})

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMe_ExpiredToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Me(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMe_SendsBearerToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"id":7,"name":"Ada","email":"ada@b.com","role":"Teacher"}`))
	})

	p, err := c.Me(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, model.RoleTeacher, p.Role())
}

func TestLessons_StudentEndpointMissing(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusMethodNotAllowed} {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/lessons/my-upcoming", r.URL.Path)
			w.WriteHeader(status)
		})

		_, err := c.Lessons(context.Background(), "tok", model.RoleStudent)
		assert.ErrorIs(t, err, ErrNotImplemented, "status %d", status)
	}
}

func TestLessons_TeacherGets404AsError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/lessons/my-lessons", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Lesson not found"}`))
	})

	_, err := c.Lessons(context.Background(), "tok", model.RoleTeacher)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, "Lesson not found", statusErr.Detail)
}

func TestLessons_NonArrayCoercedToEmpty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"unexpected shape"}`))
	})

	lessons, err := c.Lessons(context.Background(), "tok", model.RoleTeacher)
	require.NoError(t, err)
	assert.Empty(t, lessons)
	assert.NotNil(t, lessons)
}

func TestLessons_DecodesList(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"date":"2024-03-05","time":"09:00","location":"Room 4","price":2500,
			 "students":[{"id":10,"name":"Ben","email":"ben@b.com"}],"teachers":[]}
		]`))
	})

	lessons, err := c.Lessons(context.Background(), "tok", model.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Room 4", lessons[0].Location)
	assert.Equal(t, int64(2500), lessons[0].Price)
	require.Len(t, lessons[0].Students, 1)
	assert.Equal(t, "Ben", lessons[0].Students[0].Name)
}

func TestLessons_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL, zap.NewNop())

	_, err := c.Lessons(context.Background(), "tok", model.RoleTeacher)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotImplemented))
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "network failure is not a status error")
}

func TestCreateLesson(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/lessons/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"id":42,"date":"2024-03-05","time":"09:00","location":"Room 4","price":2500}`))
	})

	lesson, err := c.CreateLesson(context.Background(), "tok", CreateLessonRequest{
		Date:           "2024-03-05",
		Time:           "09:00",
		Location:       "Room 4",
		Price:          2500,
		OrganisationID: 1,
		StudentIDs:     []int64{10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), lesson.ID)
}

func TestRegister_ValidationDetail(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Email already registered"}`))
	})

	err := c.Register(context.Background(), RegisterRequest{Email: "dup@b.com"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Email already registered", statusErr.Message())
}
