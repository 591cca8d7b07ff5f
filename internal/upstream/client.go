package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"roombook-gateway/api"
)

// StatusError is a non-2xx reply from the booking backend, normalized into
// the upstream message and its HTTP status code. A 409 carries the
// multi-conflict message the conflict package knows how to split.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s (status %d)", e.Message, e.Code)
}

func IsConflict(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusConflict
}

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client talks to the booking REST API. All calls propagate ctx and are
// bounded by the configured client timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Schedules

func (c *Client) ListSchedules(ctx context.Context) ([]api.Schedule, error) {
	const op = "upstream.ListSchedules"

	var schedules []api.Schedule
	if err := c.do(ctx, http.MethodGet, "/api/schedules", nil, "", &schedules); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schedules, nil
}

func (c *Client) GetSchedule(ctx context.Context, id int64) (*api.Schedule, error) {
	const op = "upstream.GetSchedule"

	var schedule api.Schedule
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/schedules/%d", id), nil, "", &schedule); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &schedule, nil
}

func (c *Client) ListSchedulesByEmail(ctx context.Context, email string) ([]api.Schedule, error) {
	const op = "upstream.ListSchedulesByEmail"

	var schedules []api.Schedule
	path := "/api/schedules/email/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &schedules); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schedules, nil
}

func (c *Client) CreateSchedule(ctx context.Context, schedule *api.Schedule) (*api.Schedule, error) {
	const op = "upstream.CreateSchedule"

	var created api.Schedule
	if err := c.do(ctx, http.MethodPost, "/api/schedules", schedule, "", &created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

func (c *Client) CreateRecurring(ctx context.Context, req *api.RecurringScheduleRequest, idempotencyKey string) ([]api.Schedule, error) {
	const op = "upstream.CreateRecurring"

	var created []api.Schedule
	if err := c.do(ctx, http.MethodPost, "/api/schedules/recurring", req, idempotencyKey, &created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, id int64, schedule *api.Schedule) (*api.Schedule, error) {
	const op = "upstream.UpdateSchedule"

	var updated api.Schedule
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), schedule, "", &updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &updated, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status string) (*api.Schedule, error) {
	const op = "upstream.UpdateStatus"

	var updated api.Schedule
	path := fmt.Sprintf("/api/schedules/%d/status?status=%s", id, url.QueryEscape(status))
	if err := c.do(ctx, http.MethodPatch, path, nil, "", &updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &updated, nil
}

func (c *Client) BatchUpdateStatus(ctx context.Context, ids []int64, status string) ([]api.Schedule, error) {
	const op = "upstream.BatchUpdateStatus"

	req := api.BatchStatusRequest{IDs: ids, Status: status}

	var updated []api.Schedule
	if err := c.do(ctx, http.MethodPatch, "/api/schedules/batch/status", req, "", &updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	const op = "upstream.DeleteSchedule"

	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", id), nil, "", nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) BatchDelete(ctx context.Context, ids []int64) error {
	const op = "upstream.BatchDelete"

	if err := c.do(ctx, http.MethodDelete, "/api/schedules/batch", ids, "", nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Rooms

func (c *Client) ListRooms(ctx context.Context) ([]api.Room, error) {
	const op = "upstream.ListRooms"

	var rooms []api.Room
	if err := c.do(ctx, http.MethodGet, "/api/rooms", nil, "", &rooms); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, nil
}

func (c *Client) FindAvailableRooms(ctx context.Context, date, startTime, endTime string) ([]api.Room, error) {
	const op = "upstream.FindAvailableRooms"

	q := url.Values{}
	q.Set("date", date)
	q.Set("startTime", startTime)
	q.Set("endTime", endTime)

	var rooms []api.Room
	if err := c.do(ctx, http.MethodGet, "/api/rooms/available?"+q.Encode(), nil, "", &rooms); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, nil
}

// Catalog

func (c *Client) ListCourses(ctx context.Context) ([]api.Course, error) {
	const op = "upstream.ListCourses"

	var courses []api.Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, "", &courses); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return courses, nil
}

func (c *Client) CoursesByProgram(ctx context.Context, programID int64) ([]api.Course, error) {
	const op = "upstream.CoursesByProgram"

	var courses []api.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/courses/program/%d", programID), nil, "", &courses); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id int64) (*api.Course, error) {
	const op = "upstream.GetCourse"

	var course api.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/courses/%d", id), nil, "", &course); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &course, nil
}

func (c *Client) ListDepartments(ctx context.Context) ([]api.Department, error) {
	const op = "upstream.ListDepartments"

	var departments []api.Department
	if err := c.do(ctx, http.MethodGet, "/api/departments", nil, "", &departments); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return departments, nil
}

func (c *Client) ListPrograms(ctx context.Context) ([]api.Program, error) {
	const op = "upstream.ListPrograms"

	var programs []api.Program
	if err := c.do(ctx, http.MethodGet, "/api/programs", nil, "", &programs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return programs, nil
}

func (c *Client) ProgramsByDepartment(ctx context.Context, departmentID int64) ([]api.Program, error) {
	const op = "upstream.ProgramsByDepartment"

	var programs []api.Program
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/programs/department/%d", departmentID), nil, "", &programs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return programs, nil
}

func (c *Client) GetProgram(ctx context.Context, id int64) (*api.Program, error) {
	const op = "upstream.GetProgram"

	var program api.Program
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/programs/%d", id), nil, "", &program); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &program, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// statusError extracts the upstream "message" field when the error body is
// JSON, otherwise falls back to the raw body text.
func (c *Client) statusError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &StatusError{Code: resp.StatusCode, Message: resp.Status}
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return &StatusError{Code: resp.StatusCode, Message: payload.Message}
	}

	msg := string(bytes.TrimSpace(raw))
	if msg == "" {
		msg = resp.Status
	}

	return &StatusError{Code: resp.StatusCode, Message: msg}
}
