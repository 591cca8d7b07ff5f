package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"roombook-gateway/api"
	"roombook-gateway/internal/models"
)

type fakeUpstream struct {
	listSchedules        func(ctx context.Context) ([]api.Schedule, error)
	getSchedule          func(ctx context.Context, id int64) (*api.Schedule, error)
	listSchedulesByEmail func(ctx context.Context, email string) ([]api.Schedule, error)
	createSchedule       func(ctx context.Context, schedule *api.Schedule) (*api.Schedule, error)
	createRecurring      func(ctx context.Context, req *api.RecurringScheduleRequest, key string) ([]api.Schedule, error)
	updateSchedule       func(ctx context.Context, id int64, schedule *api.Schedule) (*api.Schedule, error)
	updateStatus         func(ctx context.Context, id int64, status string) (*api.Schedule, error)
	batchUpdateStatus    func(ctx context.Context, ids []int64, status string) ([]api.Schedule, error)
	deleteSchedule       func(ctx context.Context, id int64) error
	batchDelete          func(ctx context.Context, ids []int64) error
	listRooms            func(ctx context.Context) ([]api.Room, error)
	findAvailableRooms   func(ctx context.Context, date, startTime, endTime string) ([]api.Room, error)

	statusCalls int
	roomCalls   int
}

func (f *fakeUpstream) ListSchedules(ctx context.Context) ([]api.Schedule, error) {
	return f.listSchedules(ctx)
}

func (f *fakeUpstream) GetSchedule(ctx context.Context, id int64) (*api.Schedule, error) {
	return f.getSchedule(ctx, id)
}

func (f *fakeUpstream) ListSchedulesByEmail(ctx context.Context, email string) ([]api.Schedule, error) {
	return f.listSchedulesByEmail(ctx, email)
}

func (f *fakeUpstream) CreateSchedule(ctx context.Context, schedule *api.Schedule) (*api.Schedule, error) {
	return f.createSchedule(ctx, schedule)
}

func (f *fakeUpstream) CreateRecurring(ctx context.Context, req *api.RecurringScheduleRequest, key string) ([]api.Schedule, error) {
	return f.createRecurring(ctx, req, key)
}

func (f *fakeUpstream) UpdateSchedule(ctx context.Context, id int64, schedule *api.Schedule) (*api.Schedule, error) {
	return f.updateSchedule(ctx, id, schedule)
}

func (f *fakeUpstream) UpdateStatus(ctx context.Context, id int64, status string) (*api.Schedule, error) {
	f.statusCalls++
	return f.updateStatus(ctx, id, status)
}

func (f *fakeUpstream) BatchUpdateStatus(ctx context.Context, ids []int64, status string) ([]api.Schedule, error) {
	return f.batchUpdateStatus(ctx, ids, status)
}

func (f *fakeUpstream) DeleteSchedule(ctx context.Context, id int64) error {
	return f.deleteSchedule(ctx, id)
}

func (f *fakeUpstream) BatchDelete(ctx context.Context, ids []int64) error {
	return f.batchDelete(ctx, ids)
}

func (f *fakeUpstream) ListRooms(ctx context.Context) ([]api.Room, error) {
	f.roomCalls++
	return f.listRooms(ctx)
}

func (f *fakeUpstream) FindAvailableRooms(ctx context.Context, date, startTime, endTime string) ([]api.Room, error) {
	return f.findAvailableRooms(ctx, date, startTime, endTime)
}

func (f *fakeUpstream) ListCourses(ctx context.Context) ([]api.Course, error) { return nil, nil }
func (f *fakeUpstream) GetCourse(ctx context.Context, id int64) (*api.Course, error) {
	return nil, nil
}
func (f *fakeUpstream) CoursesByProgram(ctx context.Context, programID int64) ([]api.Course, error) {
	return nil, nil
}
func (f *fakeUpstream) ListDepartments(ctx context.Context) ([]api.Department, error) {
	return nil, nil
}
func (f *fakeUpstream) ListPrograms(ctx context.Context) ([]api.Program, error) { return nil, nil }
func (f *fakeUpstream) ProgramsByDepartment(ctx context.Context, departmentID int64) ([]api.Program, error) {
	return nil, nil
}
func (f *fakeUpstream) GetProgram(ctx context.Context, id int64) (*api.Program, error) {
	return nil, nil
}

type memoryCache struct {
	values map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memoryCache) Close() error { return nil }

func TestListSchedulesWithBuilding(t *testing.T) {
	up := &fakeUpstream{
		listSchedules: func(ctx context.Context) ([]api.Schedule, error) {
			return []api.Schedule{
				{ID: 1, RoomID: 7},
				{ID: 2, RoomID: 99},
			}, nil
		},
		listRooms: func(ctx context.Context) ([]api.Room, error) {
			return []api.Room{{ID: 7, Building: "Main Hall"}}, nil
		},
	}
	svc := NewService(up, nil, 0, false)

	result, err := svc.ListSchedulesWithBuilding(context.Background())
	if err != nil {
		t.Fatalf("ListSchedulesWithBuilding: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("got %d schedules, want 2", len(result))
	}
	if result[0].Building != "Main Hall" {
		t.Errorf("building = %q, want Main Hall", result[0].Building)
	}
	if result[1].Building != "N/A" {
		t.Errorf("unknown room building = %q, want N/A", result[1].Building)
	}
}

func TestListSchedulesWithBuildingJoinFailure(t *testing.T) {
	wantErr := errors.New("rooms down")
	up := &fakeUpstream{
		listSchedules: func(ctx context.Context) ([]api.Schedule, error) {
			return []api.Schedule{{ID: 1}}, nil
		},
		listRooms: func(ctx context.Context) ([]api.Room, error) {
			return nil, wantErr
		},
	}
	svc := NewService(up, nil, 0, false)

	if _, err := svc.ListSchedulesWithBuilding(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected join to fail when the room fetch fails, got %v", err)
	}
}

func TestCreateScheduleUsesSessionAndForcesPending(t *testing.T) {
	var sent *api.Schedule
	up := &fakeUpstream{
		createSchedule: func(ctx context.Context, schedule *api.Schedule) (*api.Schedule, error) {
			sent = schedule
			created := *schedule
			created.ID = 42
			return &created, nil
		},
	}
	svc := NewService(up, nil, 0, false)

	sess := models.Session{UserID: 9, UserName: "Dana Cruz"}
	req := &api.ScheduleCreateRequest{
		RoomID:    7,
		Date:      "2024-03-15",
		StartTime: "9:00",
		EndTime:   "10:30",
		Purpose:   "Thesis defense",
	}

	created, err := svc.CreateSchedule(context.Background(), sess, req)
	if err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}

	if sent.UserID != 9 || sent.UserName != "Dana Cruz" {
		t.Errorf("requester identity not taken from session: %+v", sent)
	}
	if sent.Status != "PENDING" {
		t.Errorf("status = %q, want PENDING", sent.Status)
	}
	if sent.StartTime != "09:00:00" || sent.EndTime != "10:30:00" {
		t.Errorf("times not normalized: %q - %q", sent.StartTime, sent.EndTime)
	}
	if created.ID != 42 {
		t.Errorf("created id = %d", created.ID)
	}
}

func TestCreateScheduleRejectsInvertedInterval(t *testing.T) {
	up := &fakeUpstream{
		createSchedule: func(ctx context.Context, schedule *api.Schedule) (*api.Schedule, error) {
			t.Fatal("upstream must not be called for an invalid interval")
			return nil, nil
		},
	}
	svc := NewService(up, nil, 0, false)

	_, err := svc.CreateSchedule(context.Background(), models.Session{}, &api.ScheduleCreateRequest{
		RoomID:    7,
		Date:      "2024-03-15",
		StartTime: "11:00",
		EndTime:   "10:00",
	})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("error = %v, want ErrInvalidInterval", err)
	}
}

func TestUpdateScheduleStatusPolicy(t *testing.T) {
	tests := []struct {
		name             string
		editResetsStatus bool
		wantStatus       string
	}{
		{"status preserved", false, "APPROVED"},
		{"status reset to pending", true, "PENDING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent *api.Schedule
			up := &fakeUpstream{
				getSchedule: func(ctx context.Context, id int64) (*api.Schedule, error) {
					return &api.Schedule{ID: id, UserID: 3, UserName: "Rey Santos", Status: "APPROVED"}, nil
				},
				updateSchedule: func(ctx context.Context, id int64, schedule *api.Schedule) (*api.Schedule, error) {
					sent = schedule
					return schedule, nil
				},
			}
			svc := NewService(up, nil, 0, tt.editResetsStatus)

			_, err := svc.UpdateSchedule(context.Background(), 5, &api.ScheduleUpdateRequest{
				RoomID:    7,
				Date:      "2024-03-15",
				StartTime: "09:00",
				EndTime:   "10:00",
			})
			if err != nil {
				t.Fatalf("UpdateSchedule: %v", err)
			}

			if sent.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", sent.Status, tt.wantStatus)
			}
			if sent.UserID != 3 || sent.UserName != "Rey Santos" {
				t.Errorf("original requester not preserved: %+v", sent)
			}
		})
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	up := &fakeUpstream{
		updateStatus: func(ctx context.Context, id int64, status string) (*api.Schedule, error) {
			return &api.Schedule{ID: id, Status: status}, nil
		},
	}
	svc := NewService(up, nil, 0, false)

	if _, err := svc.UpdateStatus(context.Background(), 1, "CANCELLED"); !errors.Is(err, ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}
	if up.statusCalls != 0 {
		t.Errorf("upstream called %d times for an invalid status", up.statusCalls)
	}
}

func TestRoomOccupancy(t *testing.T) {
	up := &fakeUpstream{
		listSchedules: func(ctx context.Context) ([]api.Schedule, error) {
			return []api.Schedule{
				{ID: 1, RoomID: 7, Date: "2024-03-15", StartTime: "09:00:00", EndTime: "10:00:00", UserName: "Dana Cruz", Status: "APPROVED"},
				{ID: 2, RoomID: 8, Date: "2024-03-15", StartTime: "09:00:00", EndTime: "10:00:00"},
				{ID: 3, RoomID: 7, Date: "2024-03-16", StartTime: "09:00:00", EndTime: "10:00:00"},
			}, nil
		},
	}
	svc := NewService(up, nil, 0, false)

	resp, err := svc.RoomOccupancy(context.Background(), 7, "2024-03-15")
	if err != nil {
		t.Fatalf("RoomOccupancy: %v", err)
	}

	if len(resp.Morning) != 11 || len(resp.Afternoon) != 18 {
		t.Fatalf("grid shape %d/%d, want 11/18", len(resp.Morning), len(resp.Afternoon))
	}

	occupied := map[string]bool{}
	for _, slot := range resp.Morning {
		occupied[slot.Time] = slot.Occupied
		if slot.Time == "9:00 AM" {
			if slot.Schedule == nil || slot.Schedule.ID != 1 {
				t.Errorf("9:00 AM slot schedule = %+v, want schedule 1", slot.Schedule)
			}
		}
	}

	if !occupied["9:00 AM"] || !occupied["9:30 AM"] {
		t.Error("slots inside the booking must be occupied")
	}
	if occupied["10:00 AM"] {
		t.Error("slot at the booking end must be free")
	}
}

func TestRoomOccupancyFetchFailure(t *testing.T) {
	wantErr := errors.New("backend down")
	up := &fakeUpstream{
		listSchedules: func(ctx context.Context) ([]api.Schedule, error) {
			return nil, wantErr
		},
	}
	svc := NewService(up, nil, 0, false)

	if _, err := svc.RoomOccupancy(context.Background(), 7, "2024-03-15"); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want fetch failure surfaced", err)
	}
}

func TestListRoomsCached(t *testing.T) {
	up := &fakeUpstream{
		listRooms: func(ctx context.Context) ([]api.Room, error) {
			return []api.Room{{ID: 7, Building: "Main Hall"}}, nil
		},
	}
	svc := NewService(up, newMemoryCache(), time.Minute, false)

	for i := 0; i < 3; i++ {
		rooms, err := svc.ListRooms(context.Background())
		if err != nil {
			t.Fatalf("ListRooms: %v", err)
		}
		if len(rooms) != 1 || rooms[0].Building != "Main Hall" {
			t.Fatalf("unexpected rooms: %+v", rooms)
		}
	}

	if up.roomCalls != 1 {
		t.Errorf("upstream fetched %d times, want 1 (cache hit)", up.roomCalls)
	}
}

func TestCacheFailOpen(t *testing.T) {
	up := &fakeUpstream{
		listRooms: func(ctx context.Context) ([]api.Room, error) {
			return []api.Room{{ID: 7}}, nil
		},
	}
	broken := newMemoryCache()
	broken.getErr = errors.New("redis down")
	svc := NewService(up, broken, time.Minute, false)

	rooms, err := svc.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
	if len(rooms) != 1 {
		t.Errorf("unexpected rooms: %+v", rooms)
	}
}

func TestListBuildings(t *testing.T) {
	up := &fakeUpstream{
		listRooms: func(ctx context.Context) ([]api.Room, error) {
			return []api.Room{
				{ID: 1, Building: "West Wing"},
				{ID: 2, Building: "Annex"},
				{ID: 3, Building: "West Wing"},
			}, nil
		},
	}
	svc := NewService(up, nil, 0, false)

	buildings, err := svc.ListBuildings(context.Background())
	if err != nil {
		t.Fatalf("ListBuildings: %v", err)
	}

	if len(buildings) != 2 || buildings[0] != "Annex" || buildings[1] != "West Wing" {
		t.Errorf("buildings = %v, want unique sorted", buildings)
	}
}
