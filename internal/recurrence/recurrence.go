package recurrence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roombook-gateway/api"
	"roombook-gateway/internal/models"
)

var (
	ErrNoWeekdays    = errors.New("select at least one day of the week")
	ErrInvertedRange = errors.New("end date is before start date")
	ErrBadWeekday    = errors.New("weekday index out of range")
)

// Pattern projects one template booking onto every date in the inclusive
// [StartDate, EndDate] range that falls on a selected weekday.
type Pattern struct {
	StartDate time.Time
	EndDate   time.Time
	Weekdays  []time.Weekday
}

func (p Pattern) Validate() error {
	if len(p.Weekdays) == 0 {
		return ErrNoWeekdays
	}
	for _, d := range p.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return ErrBadWeekday
		}
	}
	if p.EndDate.Before(p.StartDate) {
		return ErrInvertedRange
	}

	return nil
}

// WeekdaysFromInts converts the wire representation (0 = Sunday .. 6 =
// Saturday) into time.Weekday values.
func WeekdaysFromInts(days []int) ([]time.Weekday, error) {
	weekdays := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: %d", ErrBadWeekday, d)
		}
		weekdays = append(weekdays, time.Weekday(d))
	}

	return weekdays, nil
}

// Submitter is the slice of the upstream API the builder needs.
type Submitter interface {
	CreateRecurring(ctx context.Context, req *api.RecurringScheduleRequest, idempotencyKey string) ([]api.Schedule, error)
}

// Builder shapes recurring-schedule submissions. Date expansion and
// conflict checking stay on the server, which is the only party that knows
// room availability; the builder's job is a correct, minimal request and a
// faithful reading of the batch response.
type Builder struct {
	submitter Submitter
}

func NewBuilder(submitter Submitter) *Builder {
	return &Builder{submitter: submitter}
}

// Submit validates the pattern, forces the template status to PENDING and
// sends the request with a fresh idempotency key. A validation failure
// performs no network call. The created schedules come back in server
// order, one per generated date.
func (b *Builder) Submit(ctx context.Context, template api.BaseSchedule, pattern Pattern) ([]api.Schedule, error) {
	const op = "recurrence.Builder.Submit"

	if err := pattern.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	template.Status = string(models.SchedulePending)

	days := make([]int, 0, len(pattern.Weekdays))
	for _, d := range pattern.Weekdays {
		days = append(days, int(d))
	}

	req := &api.RecurringScheduleRequest{
		BaseSchedule: template,
		RecurrencePattern: api.RecurrencePattern{
			StartDate:  pattern.StartDate.Format("2006-01-02"),
			EndDate:    pattern.EndDate.Format("2006-01-02"),
			DaysOfWeek: days,
		},
	}

	created, err := b.submitter.CreateRecurring(ctx, req, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}
