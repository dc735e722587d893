package calendar

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/daystreak/internal/errors"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone Asia/Kolkata", timezone: "Asia/Kolkata", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidTimezone) {
					t.Errorf("expected ErrInvalidTimezone, got %v", err)
				}
				if !errors.Is(err, apperrors.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidTimezone to be an InvalidInput, got %v", err)
				}
				return
			}
			if loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestNormalizeTimezoneBoundaries(t *testing.T) {
	n := NewNormalizer(nil)

	// 2024-03-10 20:00 UTC is already 2024-03-11 in Kolkata (+05:30)
	instant := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		timezone string
		want     DayKey
	}{
		{"UTC", "2024-03-10"},
		{"Asia/Kolkata", "2024-03-11"},
		{"America/Los_Angeles", "2024-03-10"},
		{"Pacific/Kiritimati", "2024-03-11"},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			got, err := n.Normalize(&instant, tt.timezone)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeSameDayIffSameLocalDate(t *testing.T) {
	n := NewNormalizer(nil)
	loc, _ := time.LoadLocation("America/New_York")

	early := time.Date(2024, 6, 1, 0, 5, 0, 0, loc)
	late := time.Date(2024, 6, 1, 23, 55, 0, 0, loc)
	next := time.Date(2024, 6, 2, 0, 0, 0, 0, loc)

	a, _ := n.Normalize(&early, "America/New_York")
	b, _ := n.Normalize(&late, "America/New_York")
	c, _ := n.Normalize(&next, "America/New_York")

	if a != b {
		t.Errorf("expected same day, got %s and %s", a, b)
	}
	if b == c {
		t.Errorf("expected different days, got %s for both", b)
	}
}

func TestNormalizeNilUsesClock(t *testing.T) {
	fixed := time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC)
	n := NewNormalizer(func() time.Time { return fixed })

	got, err := n.Today("UTC")
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if got != "2025-01-31" {
		t.Errorf("Today() = %s, want 2025-01-31", got)
	}

	got, err = n.Today("Asia/Tokyo")
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if got != "2025-02-01" {
		t.Errorf("Today() = %s, want 2025-02-01", got)
	}
}

func TestNormalizeInvalidTimezone(t *testing.T) {
	_, err := Normalize(nil, "Mars/Olympus_Mons")
	if !errors.Is(err, apperrors.ErrInvalidTimezone) {
		t.Errorf("expected ErrInvalidTimezone, got %v", err)
	}
}

func TestDayKeyArithmetic(t *testing.T) {
	d := DayKey("2024-02-28")

	if got := d.AddDays(1); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %s, want 2024-02-29", got)
	}
	if got := d.AddDays(2); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", got)
	}
	if got := d.AddDays(-28); got != "2024-01-31" {
		t.Errorf("AddDays(-28) = %s, want 2024-01-31", got)
	}
	if got := DayKey("2024-01-15").AddMonths(1); got != "2024-02-15" {
		t.Errorf("AddMonths(1) = %s, want 2024-02-15", got)
	}
	if got := DayKey("2024-03-31").DaysSince("2024-03-01"); got != 30 {
		t.Errorf("DaysSince() = %d, want 30", got)
	}
	if got := DayKey("2024-03-01").DaysSince("2024-03-02"); got != -1 {
		t.Errorf("DaysSince() = %d, want -1", got)
	}
	// DST transition in the US does not affect day arithmetic
	if got := DayKey("2024-03-11").DaysSince("2024-03-10"); got != 1 {
		t.Errorf("DaysSince() across DST = %d, want 1", got)
	}
}

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-01-01", false},
		{"2024-02-30", true},
		{"2024/01/01", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDayKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDayKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && !d.Valid() {
				t.Errorf("parsed key %q reported invalid", d)
			}
		})
	}
}
