package occupancy

import (
	"fmt"
	"time"

	"roombook-gateway/internal/models"
	"roombook-gateway/internal/timefmt"
)

// The display day runs 07:00 through 21:00 in half-hour slots, split into a
// morning sequence (07:00-12:00 inclusive) and an afternoon sequence
// (12:30-21:00).

type Slot struct {
	Label    string
	Occupied bool
	Booking  *models.Booking
}

type Grid struct {
	Morning   []Slot
	Afternoon []Slot
}

// Template returns a fresh, fully unoccupied grid. It is a pure function of
// the operating window; callers get a new grid every time so occupancy
// flags never leak across room or date switches.
func Template() Grid {
	morning := make([]Slot, 0, 11)
	for hour := 7; hour < 12; hour++ {
		morning = append(morning, Slot{Label: fmt.Sprintf("%d:00 AM", hour)})
		morning = append(morning, Slot{Label: fmt.Sprintf("%d:30 AM", hour)})
	}
	morning = append(morning, Slot{Label: "12:00 PM"})

	afternoon := make([]Slot, 0, 18)
	afternoon = append(afternoon, Slot{Label: "12:30 PM"})
	for hour := 1; hour <= 9; hour++ {
		afternoon = append(afternoon, Slot{Label: fmt.Sprintf("%d:00 PM", hour)})
		if hour < 9 {
			afternoon = append(afternoon, Slot{Label: fmt.Sprintf("%d:30 PM", hour)})
		}
	}

	return Grid{Morning: morning, Afternoon: afternoon}
}

// Build produces the occupancy grid for one room on one calendar date.
//
// Bookings are filtered to the room and to the date at day granularity, so
// time-of-day noise in Booking.Date never affects matching. A slot is
// occupied when slot >= booking start and slot < booking end: the interval
// is half-open, a slot exactly at the end instant stays free for a
// back-to-back follow-up. When two bookings cover the same slot the one
// later in input order wins.
//
// Build is synchronous and idempotent for a given (bookings, roomID, date)
// triple. An empty booking list yields the full template, all free.
func Build(bookings []models.Booking, roomID int64, date time.Time) Grid {
	grid := Template()

	day := timefmt.TruncateToDate(date, date.Location())

	retained := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.RoomID != roomID {
			continue
		}
		if !timefmt.SameDate(b.Date, day) {
			continue
		}
		retained = append(retained, b)
	}

	for i := range retained {
		b := &retained[i]

		start, err := timefmt.CombineDateClock(day, b.StartTime)
		if err != nil {
			continue
		}
		end, err := timefmt.CombineDateClock(day, b.EndTime)
		if err != nil {
			continue
		}

		mark(grid.Morning, b, start, end, day)
		mark(grid.Afternoon, b, start, end, day)
	}

	return grid
}

func mark(slots []Slot, b *models.Booking, start, end, day time.Time) {
	for i := range slots {
		slotTime, err := timefmt.ParseSlotLabel(slots[i].Label, day)
		if err != nil {
			continue
		}

		if !slotTime.Before(start) && slotTime.Before(end) {
			slots[i].Occupied = true
			slots[i].Booking = b
		}
	}
}
