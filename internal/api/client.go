// Package api is the REST client for the lesson-scheduling backend. It
// only reads and creates; all state lives server-side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/model"
)

const requestTimeout = 15 * time.Second

type Client struct {
	base   string
	client *http.Client
	logger *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: requestTimeout},
		logger: logger,
	}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The backend speaks the
// OAuth2 password form: fields are named username/password even though the
// username is an email.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out loginResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return out.AccessToken, nil
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganisationID int64  `json:"organisation_id"`
	Password       string `json:"password"`
}

// Register creates a new account. The backend sends a verification email;
// the account cannot log in until verified.
func (c *Client) Register(ctx context.Context, r RegisterRequest) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/users/", "", r)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Me fetches the authenticated viewer's profile.
func (c *Client) Me(ctx context.Context, token string) (*model.Profile, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/users/me", token, nil)
	if err != nil {
		return nil, err
	}
	var p model.Profile
	if err := c.do(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Teachers lists the organisation's teachers for the lesson-creation picker.
func (c *Client) Teachers(ctx context.Context, token string) ([]model.Participant, error) {
	return c.participants(ctx, token, "/api/users/teachers")
}

// Students lists the organisation's students for the lesson-creation picker.
func (c *Client) Students(ctx context.Context, token string) ([]model.Participant, error) {
	return c.participants(ctx, token, "/api/users/students")
}

func (c *Client) participants(ctx context.Context, token, path string) ([]model.Participant, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	var list []model.Participant
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Lessons fetches the viewer's lessons from the role-specific endpoint.
// For any non-teacher role the backend may not implement the route at all;
// 404 and 405 translate to ErrNotImplemented so the view can show a notice
// instead of an error banner. Bodies that are not a JSON array come back
// as an empty list.
func (c *Client) Lessons(ctx context.Context, token string, role model.Role) ([]model.Lesson, error) {
	path := role.View().LessonsPath
	req, err := c.jsonRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch lessons: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if role != model.RoleTeacher &&
			(resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed) {
			return nil, ErrNotImplemented
		}
		return nil, c.statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read lessons response: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		c.logger.Warn("lessons response was not an array, treating as empty",
			zap.String("path", path))
		return []model.Lesson{}, nil
	}

	var lessons []model.Lesson
	if err := json.Unmarshal(trimmed, &lessons); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	return lessons, nil
}

// CreateLessonRequest is the payload for POST /api/lessons/. The creating
// teacher is added server-side, so TeacherIDs stays empty for the teacher
// flow.
type CreateLessonRequest struct {
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Location       string  `json:"location"`
	Price          int64   `json:"price"` // minor currency units
	OrganisationID int64   `json:"organisation_id"`
	TeacherIDs     []int64 `json:"teacher_ids"`
	StudentIDs     []int64 `json:"student_ids"`
}

// CreateLesson creates a lesson on behalf of the authenticated teacher.
func (c *Client) CreateLesson(ctx context.Context, token string, r CreateLessonRequest) (*model.Lesson, error) {
	if r.TeacherIDs == nil {
		r.TeacherIDs = []int64{}
	}
	if r.StudentIDs == nil {
		r.StudentIDs = []int64{}
	}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/lessons/", token, r)
	if err != nil {
		return nil, err
	}
	var l model.Lesson
	if err := c.do(req, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path, token string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do runs the request and decodes a success body into out (out may be
// nil). Every call gets a request id so failures can be correlated with
// backend logs.
func (c *Client) do(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("path", req.URL.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := c.statusError(resp)
		c.logger.Warn("request rejected",
			zap.String("path", req.URL.Path),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// statusError maps a non-success response to the error taxonomy: 401 is
// ErrUnauthorized, everything else a StatusError with the backend's detail
// message when the body carries one.
func (c *Client) statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := extractDetail(body)
	return &StatusError{Status: resp.StatusCode, Detail: detail}
}

// extractDetail pulls the message out of a FastAPI-style {"detail": ...}
// body, falling back to the raw text.
func extractDetail(body []byte) string {
	var wrapped struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Detail) > 0 {
		var s string
		if err := json.Unmarshal(wrapped.Detail, &s); err == nil {
			return s
		}
		return string(wrapped.Detail)
	}
	return strings.TrimSpace(string(body))
}
