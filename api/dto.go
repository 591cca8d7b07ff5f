package api

// Wire shapes of the upstream booking REST API. Field names follow the
// upstream JSON contract.

type Schedule struct {
	ID                int64  `json:"id"`
	RoomID            int64  `json:"roomId"`
	RoomNumber        string `json:"roomNumber"`
	UserID            int64  `json:"userId"`
	UserName          string `json:"userName"`
	Date              string `json:"date"`      // YYYY-MM-DD
	StartTime         string `json:"startTime"` // HH:MM:SS
	EndTime           string `json:"endTime"`   // HH:MM:SS
	Purpose           string `json:"purpose,omitempty"`
	CourseID          int64  `json:"courseId,omitempty"`
	CourseCode        string `json:"courseCode,omitempty"`
	CourseDescription string `json:"courseDescription,omitempty"`
	Status            string `json:"status"`
}

// BaseSchedule is a schedule template: every Schedule field except the
// identifier and the date, which the server fills in per occurrence.
type BaseSchedule struct {
	RoomID            int64  `json:"roomId"`
	RoomNumber        string `json:"roomNumber"`
	UserID            int64  `json:"userId"`
	UserName          string `json:"userName"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Purpose           string `json:"purpose,omitempty"`
	CourseID          int64  `json:"courseId,omitempty"`
	CourseCode        string `json:"courseCode,omitempty"`
	CourseDescription string `json:"courseDescription,omitempty"`
	Status            string `json:"status"`
}

type RecurrencePattern struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	DaysOfWeek []int  `json:"daysOfWeek"` // 0 = Sunday .. 6 = Saturday
}

type RecurringScheduleRequest struct {
	BaseSchedule      BaseSchedule      `json:"baseSchedule"`
	RecurrencePattern RecurrencePattern `json:"recurrencePattern"`
}

type BatchStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
}

type Room struct {
	ID           int64  `json:"id"`
	RoomNumber   string `json:"roomNumber"`
	Building     string `json:"building"`
	Capacity     int    `json:"capacity"`
	HasProjector bool   `json:"hasProjector"`
	HasComputers bool   `json:"hasComputers"`
}

type Course struct {
	ID          int64  `json:"id"`
	CourseCode  string `json:"courseCode"`
	Description string `json:"description"`
	ProgramID   int64  `json:"programId"`
}

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Program struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	DepartmentID int64  `json:"departmentId"`
}

// Gateway request DTOs (what the booking UI submits to this service).

type ScheduleCreateRequest struct {
	RoomID            int64  `json:"roomId" validate:"required"`
	Date              string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime         string `json:"startTime" validate:"required"`
	EndTime           string `json:"endTime" validate:"required"`
	Purpose           string `json:"purpose,omitempty"`
	CourseID          int64  `json:"courseId,omitempty"`
	CourseCode        string `json:"courseCode,omitempty"`
	CourseDescription string `json:"courseDescription,omitempty"`
}

type RecurringCreateRequest struct {
	RoomID            int64  `json:"roomId" validate:"required"`
	StartDate         string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate           string `json:"endDate" validate:"required,datetime=2006-01-02"`
	DaysOfWeek        []int  `json:"daysOfWeek" validate:"dive,min=0,max=6"`
	StartTime         string `json:"startTime" validate:"required"`
	EndTime           string `json:"endTime" validate:"required"`
	Purpose           string `json:"purpose,omitempty"`
	CourseID          int64  `json:"courseId,omitempty"`
	CourseCode        string `json:"courseCode,omitempty"`
	CourseDescription string `json:"courseDescription,omitempty"`
}

type ScheduleUpdateRequest struct {
	RoomID            int64  `json:"roomId" validate:"required"`
	Date              string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime         string `json:"startTime" validate:"required"`
	EndTime           string `json:"endTime" validate:"required"`
	Purpose           string `json:"purpose,omitempty"`
	CourseID          int64  `json:"courseId,omitempty"`
	CourseCode        string `json:"courseCode,omitempty"`
	CourseDescription string `json:"courseDescription,omitempty"`
}

type BatchStatusUpdateRequest struct {
	IDs    []int64 `json:"ids" validate:"required,min=1"`
	Status string  `json:"status" validate:"required"`
}

type BatchDeleteRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

// Gateway response DTOs.

type ScheduleWithBuilding struct {
	Schedule
	Building string `json:"building"`
}

type SlotResponse struct {
	Time     string    `json:"time"`
	Occupied bool      `json:"occupied"`
	Schedule *Schedule `json:"schedule,omitempty"`
}

type OccupancyResponse struct {
	RoomID    int64          `json:"roomId"`
	Date      string         `json:"date"`
	Morning   []SlotResponse `json:"morning"`
	Afternoon []SlotResponse `json:"afternoon"`
}

type ConflictResponse struct {
	Summary   string   `json:"summary"`
	Conflicts []string `json:"conflicts"`
}
