package recurring_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"roombook-gateway/api"
	"roombook-gateway/internal/http-server/handlers/schedules/recurring"
	"roombook-gateway/internal/http-server/session"
	"roombook-gateway/internal/models"
	"roombook-gateway/internal/recurrence"
	"roombook-gateway/internal/upstream"
)

type fakeCreator struct {
	calls int
	reply []api.Schedule
	err   error
}

func (f *fakeCreator) CreateRecurring(_ context.Context, _ models.Session, _ *api.RecurringCreateRequest) ([]api.Schedule, error) {
	f.calls++
	return f.reply, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validBody() []byte {
	body, _ := json.Marshal(api.RecurringCreateRequest{
		RoomID:     7,
		StartDate:  "2024-03-04",
		EndDate:    "2024-03-29",
		DaysOfWeek: []int{1, 3},
		StartTime:  "09:00",
		EndTime:    "10:00",
		Purpose:    "Seminar",
	})
	return body
}

func doRequest(handler http.HandlerFunc, body []byte, withSession bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/recurring", bytes.NewReader(body))
	if withSession {
		req.Header.Set(session.HeaderUserID, "9")
		req.Header.Set(session.HeaderUserName, "Dana Cruz")
	}

	rr := httptest.NewRecorder()
	session.Middleware(handler).ServeHTTP(rr, req)
	return rr
}

func TestRecurringCreated(t *testing.T) {
	creator := &fakeCreator{reply: []api.Schedule{
		{ID: 1, Date: "2024-03-04"},
		{ID: 2, Date: "2024-03-06"},
	}}
	handler := recurring.New(discardLogger(), creator)

	rr := doRequest(handler, validBody(), true)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rr.Code, rr.Body)
	}

	var resp recurring.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Created != 2 || len(resp.Schedules) != 2 {
		t.Errorf("created = %d, schedules = %d, want 2/2", resp.Created, len(resp.Schedules))
	}
}

func TestRecurringNoSession(t *testing.T) {
	creator := &fakeCreator{}
	handler := recurring.New(discardLogger(), creator)

	rr := doRequest(handler, validBody(), false)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if creator.calls != 0 {
		t.Errorf("creator called %d times without a session", creator.calls)
	}
}

func TestRecurringEmptyWeekdays(t *testing.T) {
	creator := &fakeCreator{err: fmt.Errorf("service.CreateRecurring: %w", recurrence.ErrNoWeekdays)}
	handler := recurring.New(discardLogger(), creator)

	rr := doRequest(handler, validBody(), true)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rr.Code, rr.Body)
	}

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_FAILED" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
	if resp.Error.Message != recurrence.ErrNoWeekdays.Error() {
		t.Errorf("message = %q, want bare cause", resp.Error.Message)
	}
}

func TestRecurringConflictFormatting(t *testing.T) {
	creator := &fakeCreator{err: fmt.Errorf("service.CreateRecurring: %w", &upstream.StatusError{
		Code:    http.StatusConflict,
		Message: "Room unavailable • Mon 3/4 9-10am • Wed 3/6 9-10am",
	})}
	handler := recurring.New(discardLogger(), creator)

	rr := doRequest(handler, validBody(), true)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", rr.Code, rr.Body)
	}

	var resp recurring.ConflictResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary != "Room unavailable" {
		t.Errorf("summary = %q", resp.Summary)
	}
	if len(resp.Conflicts) != 2 || resp.Conflicts[0] != "Mon 3/4 9-10am" || resp.Conflicts[1] != "Wed 3/6 9-10am" {
		t.Errorf("conflicts = %v", resp.Conflicts)
	}
}

func TestRecurringMissingFields(t *testing.T) {
	creator := &fakeCreator{}
	handler := recurring.New(discardLogger(), creator)

	body, _ := json.Marshal(api.RecurringCreateRequest{RoomID: 7})
	rr := doRequest(handler, body, true)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if creator.calls != 0 {
		t.Errorf("creator called %d times on an invalid request", creator.calls)
	}
}
