package models

import (
	"testing"

	"github.com/julianstephens/daystreak/internal/calendar"
)

func dayPtr(d calendar.DayKey) *calendar.DayKey { return &d }

func TestStreakStateCurrentAsOf(t *testing.T) {
	tests := []struct {
		name  string
		state StreakState
		now   calendar.DayKey
		want  int
	}{
		{
			name:  "no history",
			state: StreakState{},
			now:   "2024-05-10",
			want:  0,
		},
		{
			name:  "completed today",
			state: StreakState{CurrentStreak: 4, LongestStreak: 4, LastCompletedDate: dayPtr("2024-05-10")},
			now:   "2024-05-10",
			want:  4,
		},
		{
			name:  "completed yesterday",
			state: StreakState{CurrentStreak: 4, LongestStreak: 9, LastCompletedDate: dayPtr("2024-05-09")},
			now:   "2024-05-10",
			want:  4,
		},
		{
			name:  "gap of two days breaks the streak",
			state: StreakState{CurrentStreak: 4, LongestStreak: 9, LastCompletedDate: dayPtr("2024-05-08")},
			now:   "2024-05-10",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.CurrentAsOf(tt.now); got != tt.want {
				t.Errorf("CurrentAsOf(%s) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestProgressStatusTerminal(t *testing.T) {
	if StatusActive.Terminal() {
		t.Error("active must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Error("completed and failed must be terminal")
	}
}

func TestHabitNameKey(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"Read", "read", true},
		{"  Read ", "READ", true},
		{"Café", "café", true},
		{"Straße", "STRASSE", true},
		{"Read", "Run", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			got := HabitNameKey(tt.a) == HabitNameKey(tt.b)
			if got != tt.same {
				t.Errorf("HabitNameKey(%q) == HabitNameKey(%q) is %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}
}
