package conflict

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		msg           string
		wantSummary   string
		wantConflicts []string
	}{
		{
			name:          "two conflicts",
			msg:           "Room unavailable • Mon 3/4 9-10am • Wed 3/6 9-10am",
			wantSummary:   "Room unavailable",
			wantConflicts: []string{"Mon 3/4 9-10am", "Wed 3/6 9-10am"},
		},
		{
			name:        "no bullets",
			msg:         "Room unavailable",
			wantSummary: "Room unavailable",
		},
		{
			name:          "single conflict",
			msg:           "Scheduling conflict • Fri 4/12 2-4pm",
			wantSummary:   "Scheduling conflict",
			wantConflicts: []string{"Fri 4/12 2-4pm"},
		},
		{
			name:          "empty parts dropped",
			msg:           "Conflicts found ••  Tue 5/7 8-9am •",
			wantSummary:   "Conflicts found",
			wantConflicts: []string{"Tue 5/7 8-9am"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Parse(tt.msg)
			if d.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", d.Summary, tt.wantSummary)
			}
			if len(d.Conflicts) != len(tt.wantConflicts) {
				t.Fatalf("Conflicts = %v, want %v", d.Conflicts, tt.wantConflicts)
			}
			for i := range d.Conflicts {
				if d.Conflicts[i] != tt.wantConflicts[i] {
					t.Errorf("Conflicts[%d] = %q, want %q", i, d.Conflicts[i], tt.wantConflicts[i])
				}
			}
		})
	}
}

func TestReformat(t *testing.T) {
	got := Reformat("Room unavailable • Mon 3/4 9-10am • Wed 3/6 9-10am")

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "Room unavailable" {
		t.Errorf("first line = %q, want summary", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "• ") {
			t.Errorf("conflict line %q does not start with bullet", line)
		}
	}
}

func TestReformatPassthrough(t *testing.T) {
	msg := "Failed to create schedules"
	if got := Reformat(msg); got != msg {
		t.Errorf("Reformat(%q) = %q, want unchanged", msg, got)
	}
}
