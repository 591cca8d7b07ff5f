package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"roombook-gateway/api"
	"roombook-gateway/internal/cache"
	"roombook-gateway/internal/models"
	"roombook-gateway/internal/occupancy"
	"roombook-gateway/internal/recurrence"
	"roombook-gateway/internal/timefmt"
)

var (
	ErrInvalidInterval = errors.New("start time must be before end time")
	ErrBadStatus       = errors.New("status must be PENDING, APPROVED or REJECTED")
)

// Upstream is the booking REST API as the gateway consumes it.
type Upstream interface {
	ListSchedules(ctx context.Context) ([]api.Schedule, error)
	GetSchedule(ctx context.Context, id int64) (*api.Schedule, error)
	ListSchedulesByEmail(ctx context.Context, email string) ([]api.Schedule, error)
	CreateSchedule(ctx context.Context, schedule *api.Schedule) (*api.Schedule, error)
	CreateRecurring(ctx context.Context, req *api.RecurringScheduleRequest, idempotencyKey string) ([]api.Schedule, error)
	UpdateSchedule(ctx context.Context, id int64, schedule *api.Schedule) (*api.Schedule, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*api.Schedule, error)
	BatchUpdateStatus(ctx context.Context, ids []int64, status string) ([]api.Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
	BatchDelete(ctx context.Context, ids []int64) error

	ListRooms(ctx context.Context) ([]api.Room, error)
	FindAvailableRooms(ctx context.Context, date, startTime, endTime string) ([]api.Room, error)

	ListCourses(ctx context.Context) ([]api.Course, error)
	CoursesByProgram(ctx context.Context, programID int64) ([]api.Course, error)
	GetCourse(ctx context.Context, id int64) (*api.Course, error)
	ListDepartments(ctx context.Context) ([]api.Department, error)
	ListPrograms(ctx context.Context) ([]api.Program, error)
	ProgramsByDepartment(ctx context.Context, departmentID int64) ([]api.Program, error)
	GetProgram(ctx context.Context, id int64) (*api.Program, error)
}

type Service struct {
	upstream Upstream
	cache    cache.Cache
	cacheTTL time.Duration
	builder  *recurrence.Builder

	// Whether editing a schedule sends it back through approval.
	editResetsStatus bool
}

func NewService(upstream Upstream, c cache.Cache, cacheTTL time.Duration, editResetsStatus bool) *Service {
	return &Service{
		upstream:         upstream,
		cache:            c,
		cacheTTL:         cacheTTL,
		builder:          recurrence.NewBuilder(upstream),
		editResetsStatus: editResetsStatus,
	}
}

// Schedules

// ListSchedulesWithBuilding fetches schedules and rooms concurrently and
// joins them: each schedule gains its room's building name, with "N/A" for
// rooms the room list does not know. Either fetch failing fails the whole
// operation; a half-joined listing is never returned.
func (s *Service) ListSchedulesWithBuilding(ctx context.Context) ([]api.ScheduleWithBuilding, error) {
	const op = "service.ListSchedulesWithBuilding"

	type schedulesResult struct {
		schedules []api.Schedule
		err       error
	}
	type roomsResult struct {
		rooms []api.Room
		err   error
	}

	schedCh := make(chan schedulesResult, 1)
	roomCh := make(chan roomsResult, 1)

	go func() {
		schedules, err := s.upstream.ListSchedules(ctx)
		schedCh <- schedulesResult{schedules: schedules, err: err}
	}()
	go func() {
		rooms, err := s.ListRooms(ctx)
		roomCh <- roomsResult{rooms: rooms, err: err}
	}()

	sr := <-schedCh
	rr := <-roomCh

	if sr.err != nil {
		return nil, fmt.Errorf("%s: %w", op, sr.err)
	}
	if rr.err != nil {
		return nil, fmt.Errorf("%s: %w", op, rr.err)
	}

	buildings := make(map[int64]string, len(rr.rooms))
	for _, room := range rr.rooms {
		buildings[room.ID] = room.Building
	}

	result := make([]api.ScheduleWithBuilding, 0, len(sr.schedules))
	for _, schedule := range sr.schedules {
		building, ok := buildings[schedule.RoomID]
		if !ok || building == "" {
			building = "N/A"
		}
		result = append(result, api.ScheduleWithBuilding{
			Schedule: schedule,
			Building: building,
		})
	}

	return result, nil
}

func (s *Service) GetSchedule(ctx context.Context, id int64) (*api.Schedule, error) {
	const op = "service.GetSchedule"

	schedule, err := s.upstream.GetSchedule(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schedule, nil
}

func (s *Service) ListSchedulesByEmail(ctx context.Context, email string) ([]api.Schedule, error) {
	const op = "service.ListSchedulesByEmail"

	schedules, err := s.upstream.ListSchedulesByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schedules, nil
}

func (s *Service) CreateSchedule(ctx context.Context, sess models.Session, req *api.ScheduleCreateRequest) (*api.Schedule, error) {
	const op = "service.CreateSchedule"

	startTime, endTime, err := normalizeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	schedule := &api.Schedule{
		RoomID:            req.RoomID,
		UserID:            sess.UserID,
		UserName:          sess.UserName,
		Date:              req.Date,
		StartTime:         startTime,
		EndTime:           endTime,
		Purpose:           req.Purpose,
		CourseID:          req.CourseID,
		CourseCode:        req.CourseCode,
		CourseDescription: req.CourseDescription,
		Status:            string(models.SchedulePending),
	}

	created, err := s.upstream.CreateSchedule(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (s *Service) CreateRecurring(ctx context.Context, sess models.Session, req *api.RecurringCreateRequest) ([]api.Schedule, error) {
	const op = "service.CreateRecurring"

	startTime, endTime, err := normalizeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid startDate: %w", op, err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid endDate: %w", op, err)
	}

	weekdays, err := recurrence.WeekdaysFromInts(req.DaysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	template := api.BaseSchedule{
		RoomID:            req.RoomID,
		UserID:            sess.UserID,
		UserName:          sess.UserName,
		StartTime:         startTime,
		EndTime:           endTime,
		Purpose:           req.Purpose,
		CourseID:          req.CourseID,
		CourseCode:        req.CourseCode,
		CourseDescription: req.CourseDescription,
	}

	created, err := s.builder.Submit(ctx, template, recurrence.Pattern{
		StartDate: startDate,
		EndDate:   endDate,
		Weekdays:  weekdays,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (s *Service) UpdateSchedule(ctx context.Context, id int64, req *api.ScheduleUpdateRequest) (*api.Schedule, error) {
	const op = "service.UpdateSchedule"

	existing, err := s.upstream.GetSchedule(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	startTime, endTime, err := normalizeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := existing.Status
	if s.editResetsStatus {
		status = string(models.SchedulePending)
	}

	updated := &api.Schedule{
		ID:                id,
		RoomID:            req.RoomID,
		UserID:            existing.UserID,
		UserName:          existing.UserName,
		Date:              req.Date,
		StartTime:         startTime,
		EndTime:           endTime,
		Purpose:           req.Purpose,
		CourseID:          req.CourseID,
		CourseCode:        req.CourseCode,
		CourseDescription: req.CourseDescription,
		Status:            status,
	}

	result, err := s.upstream.UpdateSchedule(ctx, id, updated)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*api.Schedule, error) {
	const op = "service.UpdateStatus"

	if !models.ScheduleStatus(status).Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrBadStatus)
	}

	updated, err := s.upstream.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []int64, status string) ([]api.Schedule, error) {
	const op = "service.BatchUpdateStatus"

	if !models.ScheduleStatus(status).Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrBadStatus)
	}

	updated, err := s.upstream.BatchUpdateStatus(ctx, ids, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, id int64) error {
	const op = "service.DeleteSchedule"

	if err := s.upstream.DeleteSchedule(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) BatchDelete(ctx context.Context, ids []int64) error {
	const op = "service.BatchDelete"

	if err := s.upstream.BatchDelete(ctx, ids); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Occupancy

// RoomOccupancy fetches the day's schedules and renders the half-hour
// occupancy grid for one room. The grid is computed fresh from a fresh
// fetch on every call; a fetch failure returns an error and no grid, never
// a partially populated one.
func (s *Service) RoomOccupancy(ctx context.Context, roomID int64, dateStr string) (*api.OccupancyResponse, error) {
	const op = "service.RoomOccupancy"

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, err)
	}

	schedules, err := s.upstream.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookings := make([]models.Booking, 0, len(schedules))
	byID := make(map[int64]api.Schedule, len(schedules))
	for _, schedule := range schedules {
		booking, err := toBooking(schedule)
		if err != nil {
			continue
		}
		bookings = append(bookings, booking)
		byID[schedule.ID] = schedule
	}

	grid := occupancy.Build(bookings, roomID, date)

	return &api.OccupancyResponse{
		RoomID:    roomID,
		Date:      dateStr,
		Morning:   toSlotResponses(grid.Morning, byID),
		Afternoon: toSlotResponses(grid.Afternoon, byID),
	}, nil
}

// Rooms

func (s *Service) ListRooms(ctx context.Context) ([]api.Room, error) {
	const op = "service.ListRooms"

	rooms, err := fetchCached(ctx, s, "rooms", s.upstream.ListRooms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, nil
}

// ListBuildings derives the unique, sorted building names from the room
// list.
func (s *Service) ListBuildings(ctx context.Context) ([]string, error) {
	const op = "service.ListBuildings"

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[string]struct{}, len(rooms))
	buildings := make([]string, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := seen[room.Building]; ok {
			continue
		}
		seen[room.Building] = struct{}{}
		buildings = append(buildings, room.Building)
	}
	sort.Strings(buildings)

	return buildings, nil
}

func (s *Service) FindAvailableRooms(ctx context.Context, date, startTime, endTime string) ([]api.Room, error) {
	const op = "service.FindAvailableRooms"

	start, err := timefmt.NormalizeClock(startTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	end, err := timefmt.NormalizeClock(endTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rooms, err := s.upstream.FindAvailableRooms(ctx, date, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, nil
}

// Catalog

func (s *Service) ListCourses(ctx context.Context) ([]api.Course, error) {
	const op = "service.ListCourses"

	courses, err := fetchCached(ctx, s, "courses", s.upstream.ListCourses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return courses, nil
}

func (s *Service) CoursesByProgram(ctx context.Context, programID int64) ([]api.Course, error) {
	const op = "service.CoursesByProgram"

	key := fmt.Sprintf("courses:program:%d", programID)
	courses, err := fetchCached(ctx, s, key, func(ctx context.Context) ([]api.Course, error) {
		return s.upstream.CoursesByProgram(ctx, programID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return courses, nil
}

func (s *Service) GetCourse(ctx context.Context, id int64) (*api.Course, error) {
	const op = "service.GetCourse"

	course, err := s.upstream.GetCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return course, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]api.Department, error) {
	const op = "service.ListDepartments"

	departments, err := fetchCached(ctx, s, "departments", s.upstream.ListDepartments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return departments, nil
}

func (s *Service) ListPrograms(ctx context.Context) ([]api.Program, error) {
	const op = "service.ListPrograms"

	programs, err := fetchCached(ctx, s, "programs", s.upstream.ListPrograms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return programs, nil
}

func (s *Service) ProgramsByDepartment(ctx context.Context, departmentID int64) ([]api.Program, error) {
	const op = "service.ProgramsByDepartment"

	key := fmt.Sprintf("programs:department:%d", departmentID)
	programs, err := fetchCached(ctx, s, key, func(ctx context.Context) ([]api.Program, error) {
		return s.upstream.ProgramsByDepartment(ctx, departmentID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return programs, nil
}

func (s *Service) GetProgram(ctx context.Context, id int64) (*api.Program, error) {
	const op = "service.GetProgram"

	program, err := s.upstream.GetProgram(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return program, nil
}

// fetchCached reads through the response cache. Cache failures are
// fail-open: the upstream fetch still happens and its result is returned.
func fetchCached[T any](ctx context.Context, s *Service, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var value T
			if err := json.Unmarshal(raw, &value); err == nil {
				return value, nil
			}
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(value); err == nil {
			_ = s.cache.Set(ctx, key, raw, s.cacheTTL)
		}
	}

	return value, nil
}

func normalizeInterval(startTime, endTime string) (string, string, error) {
	start, err := timefmt.NormalizeClock(startTime)
	if err != nil {
		return "", "", err
	}
	end, err := timefmt.NormalizeClock(endTime)
	if err != nil {
		return "", "", err
	}

	// Zero-padded HH:MM:SS compares correctly as a string.
	if start >= end {
		return "", "", ErrInvalidInterval
	}

	return start, end, nil
}

// toBooking maps a wire schedule into the domain model the grid builder
// consumes. The date is parsed tolerantly: plain dates, RFC3339 stamps and
// anything else starting with YYYY-MM-DD all reduce to day granularity.
func toBooking(s api.Schedule) (models.Booking, error) {
	date, err := parseDay(s.Date)
	if err != nil {
		return models.Booking{}, err
	}

	classification := models.PurposeClassification(s.Purpose)
	if s.CourseID != 0 || s.CourseCode != "" {
		classification = models.CourseClassification(s.CourseID, s.CourseCode, s.CourseDescription)
	}

	return models.Booking{
		ID:             s.ID,
		RoomID:         s.RoomID,
		RoomNumber:     s.RoomNumber,
		UserID:         s.UserID,
		UserName:       s.UserName,
		Date:           date,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Classification: classification,
		Status:         models.ScheduleStatus(s.Status),
	}, nil
}

func parseDay(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if len(value) >= 10 {
		if t, err := time.Parse("2006-01-02", value[:10]); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func toSlotResponses(slots []occupancy.Slot, byID map[int64]api.Schedule) []api.SlotResponse {
	result := make([]api.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		sr := api.SlotResponse{
			Time:     slot.Label,
			Occupied: slot.Occupied,
		}
		if slot.Booking != nil {
			if schedule, ok := byID[slot.Booking.ID]; ok {
				sr.Schedule = &schedule
			}
		}
		result = append(result, sr)
	}

	return result
}
