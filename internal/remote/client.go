package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"lingo-quiz/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Service is the course service consumed by the quiz core.
// Implementations must be safe to call from several goroutines.
type Service interface {
	SeedDemo(ctx context.Context) error
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListLessons(ctx context.Context, courseID int) ([]models.Lesson, error)
	ListExercises(ctx context.Context, lessonID int) ([]models.Exercise, error)
	CheckAnswer(ctx context.Context, exerciseID int, answer string) (models.AnswerCheckResult, error)
}

// RequestIDHeader carries a per-request id the server echoes in its logs.
const RequestIDHeader = "X-Request-ID"

// Client talks to the course service HTTP API.
type Client struct {
	http *resty.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a client for the API rooted at baseURL (e.g. http://localhost:8080/api).
// A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})
	return &Client{http: c}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account on the service.
func (c *Client) Register(ctx context.Context, email, password string) error {
	_, err := c.do(ctx, "register", c.http.R().SetBody(credentials{email, password}), "POST", "/register")
	return err
}

// Login obtains a token and uses it for all further calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := c.do(ctx, "login", c.http.R().SetBody(credentials{email, password}), "POST", "/login")
	if err != nil {
		return err
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return decodeError("login", err)
	}
	if resp.Token == "" {
		return decodeError("login", errors.New("empty token"))
	}
	c.SetToken(resp.Token)
	return nil
}

func (c *Client) SeedDemo(ctx context.Context) error {
	_, err := c.do(ctx, "seed demo", c.http.R(), "POST", "/seed")
	return err
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	const op = "list courses"
	body, err := c.do(ctx, op, c.http.R(), "GET", "/courses")
	if err != nil {
		return nil, err
	}
	var courses []models.Course
	if err := json.Unmarshal(body, &courses); err != nil {
		return nil, decodeError(op, err)
	}
	return courses, nil
}

func (c *Client) ListLessons(ctx context.Context, courseID int) ([]models.Lesson, error) {
	const op = "list lessons"
	req := c.http.R().SetPathParam("course_id", strconv.Itoa(courseID))
	body, err := c.do(ctx, op, req, "GET", "/courses/{course_id}/lessons")
	if err != nil {
		return nil, err
	}
	var lessons []models.Lesson
	if err := json.Unmarshal(body, &lessons); err != nil {
		return nil, decodeError(op, err)
	}
	return lessons, nil
}

func (c *Client) ListExercises(ctx context.Context, lessonID int) ([]models.Exercise, error) {
	const op = "list exercises"
	req := c.http.R().SetPathParam("lesson_id", strconv.Itoa(lessonID))
	body, err := c.do(ctx, op, req, "GET", "/lessons/{lesson_id}/exercises")
	if err != nil {
		return nil, err
	}
	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, decodeError(op, err)
	}
	for _, e := range exercises {
		if !e.Type.Valid() {
			return nil, decodeError(op, fmt.Errorf("exercise %d: unknown type %q", e.ID, e.Type))
		}
	}
	return exercises, nil
}

func (c *Client) CheckAnswer(ctx context.Context, exerciseID int, answer string) (models.AnswerCheckResult, error) {
	const op = "check answer"
	req := c.http.R().
		SetPathParam("exercise_id", strconv.Itoa(exerciseID)).
		SetBody(map[string]string{"answer": answer})
	body, err := c.do(ctx, op, req, "POST", "/exercises/{exercise_id}/check")
	if err != nil {
		return models.AnswerCheckResult{}, err
	}
	var result models.AnswerCheckResult
	if err := json.Unmarshal(body, &result); err != nil {
		return models.AnswerCheckResult{}, decodeError(op, err)
	}
	return result, nil
}

// do executes the request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, op string, req *resty.Request, method, path string) ([]byte, error) {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return nil, transportError(op, 0, err)
	}
	if resp.IsError() || resp.StatusCode() >= 300 {
		return nil, transportError(op, resp.StatusCode(), errors.New(errorMessage(resp.Body(), resp.Status())))
	}
	return resp.Body(), nil
}

// errorMessage pulls the message out of an {"error": "..."} body.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}
