package models

import (
	"fmt"
	"time"
)

type ScheduleStatus string

const (
	SchedulePending  ScheduleStatus = "PENDING"
	ScheduleApproved ScheduleStatus = "APPROVED"
	ScheduleRejected ScheduleStatus = "REJECTED"
)

func (s ScheduleStatus) Valid() bool {
	return s == SchedulePending || s == ScheduleApproved || s == ScheduleRejected
}

type ClassificationKind string

const (
	ClassificationPurpose ClassificationKind = "purpose"
	ClassificationCourse  ClassificationKind = "course"
)

// Classification is what a booking occupies the room for. Deployments run
// either with free-text purposes or with course references, never both on
// one booking.
type Classification struct {
	Kind              ClassificationKind
	Purpose           string
	CourseID          int64
	CourseCode        string
	CourseDescription string
}

func PurposeClassification(text string) Classification {
	return Classification{Kind: ClassificationPurpose, Purpose: text}
}

func CourseClassification(id int64, code, description string) Classification {
	return Classification{
		Kind:              ClassificationCourse,
		CourseID:          id,
		CourseCode:        code,
		CourseDescription: description,
	}
}

func (c Classification) Label() string {
	if c.Kind == ClassificationCourse {
		return fmt.Sprintf("%s %s", c.CourseCode, c.CourseDescription)
	}
	return c.Purpose
}

// Booking is a reservation of one room for a contiguous interval on one
// calendar date. Date carries day granularity only; any time-of-day in it
// is noise from upstream serialization and must be ignored.
type Booking struct {
	ID             int64
	RoomID         int64
	RoomNumber     string
	UserID         int64
	UserName       string
	Date           time.Time
	StartTime      string // "HH:MM:SS"
	EndTime        string // "HH:MM:SS"
	Classification Classification
	Status         ScheduleStatus
}

// Session identifies the requester creating or editing bookings. It is
// always passed explicitly; there is no package-level current user.
type Session struct {
	UserID   int64
	UserName string
	Email    string
}

type Room struct {
	ID           int64
	RoomNumber   string
	Building     string
	Capacity     int
	HasProjector bool
	HasComputers bool
}
