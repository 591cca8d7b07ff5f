package timefmt

import (
	"testing"
	"time"
)

func TestTo12Hour(t *testing.T) {
	tests := []struct {
		name  string
		clock string
		want  string
	}{
		{"morning", "09:00:00", "9:00 AM"},
		{"afternoon", "14:30:00", "2:30 PM"},
		{"midnight", "00:00:00", "12:00 AM"},
		{"noon", "12:00:00", "12:00 PM"},
		{"no seconds", "14:30", "2:30 PM"},
		{"late evening", "21:00:00", "9:00 PM"},
		{"empty", "", ""},
		{"garbage passthrough", "not-a-time", "not-a-time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := To12Hour(tt.clock); got != tt.want {
				t.Errorf("To12Hour(%q) = %q, want %q", tt.clock, got, tt.want)
			}
		})
	}
}

func TestParseSlotLabel(t *testing.T) {
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		label      string
		wantHour   int
		wantMinute int
	}{
		{"afternoon", "2:30 PM", 14, 30},
		{"morning", "9:00 AM", 9, 0},
		{"noon", "12:00 PM", 12, 0},
		{"midnight", "12:00 AM", 0, 0},
		{"half past noon", "12:30 PM", 12, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSlotLabel(tt.label, date)
			if err != nil {
				t.Fatalf("ParseSlotLabel(%q) error: %v", tt.label, err)
			}
			if got.Hour() != tt.wantHour || got.Minute() != tt.wantMinute {
				t.Errorf("ParseSlotLabel(%q) = %02d:%02d, want %02d:%02d",
					tt.label, got.Hour(), got.Minute(), tt.wantHour, tt.wantMinute)
			}
			if !SameDate(got, date) {
				t.Errorf("ParseSlotLabel(%q) moved off the date: %v", tt.label, got)
			}
		})
	}

	t.Run("rejects malformed labels", func(t *testing.T) {
		for _, label := range []string{"", "2:30", "2:30 XX", "nonsense PM"} {
			if _, err := ParseSlotLabel(label, date); err == nil {
				t.Errorf("ParseSlotLabel(%q) expected error", label)
			}
		}
	})
}

func TestRoundTrip(t *testing.T) {
	// Formatting 24h to 12h and parsing the label back must land on the
	// original hour and minute.
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	clocks := []struct {
		clock      string
		wantHour   int
		wantMinute int
	}{
		{"14:30:00", 14, 30},
		{"00:00:00", 0, 0},
		{"12:00:00", 12, 0},
		{"07:00:00", 7, 0},
		{"21:00:00", 21, 0},
	}

	for _, tt := range clocks {
		label := To12Hour(tt.clock)
		got, err := ParseSlotLabel(label, date)
		if err != nil {
			t.Fatalf("round trip %q -> %q failed: %v", tt.clock, label, err)
		}
		if got.Hour() != tt.wantHour || got.Minute() != tt.wantMinute {
			t.Errorf("round trip %q -> %q = %02d:%02d, want %02d:%02d",
				tt.clock, label, got.Hour(), got.Minute(), tt.wantHour, tt.wantMinute)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9:5", "09:05:00", false},
		{"09:00", "09:00:00", false},
		{"14:30:00", "14:30:00", false},
		{"0:00", "00:00:00", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeClock(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeClock(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClockString(t *testing.T) {
	c := Clock{Hour: 7, Minute: 5}
	if got := c.String(); got != "07:05:00" {
		t.Errorf("Clock.String() = %q, want %q", got, "07:05:00")
	}
}

func TestSameDate(t *testing.T) {
	base := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	noisy := time.Date(2024, time.March, 15, 23, 59, 59, 0, time.UTC)
	other := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)

	if !SameDate(base, noisy) {
		t.Error("SameDate should ignore time-of-day noise")
	}
	if SameDate(base, other) {
		t.Error("SameDate matched different days")
	}
}
