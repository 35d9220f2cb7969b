package theme

import (
	"testing"
	"time"

	"github.com/emilianohg/punchclock/internal/models"
)

func TestActive(t *testing.T) {
	schedules := []models.ThemeSchedule{
		{ID: "1", ThemeName: "ocean", StartDate: "2026-07-01", EndDate: "2026-08-31", Enabled: false},
		{ID: "2", ThemeName: "autumn", StartDate: "2026-10-01", EndDate: "2026-10-31", Enabled: true},
		{ID: "3", ThemeName: "festive", StartDate: "2026-10-15", EndDate: "2026-12-31", Enabled: true},
	}

	tests := []struct {
		date string
		want string
	}{
		{"2026-07-15", Default},
		{"2026-10-01", "autumn"},
		{"2026-10-31", "autumn"},
		{"2026-11-01", "festive"},
		{"2027-01-01", Default},
	}
	for _, tt := range tests {
		now, _ := time.ParseInLocation("2006-01-02", tt.date, time.Local)
		if got := Active(schedules, now.Add(12*time.Hour)); got != tt.want {
			t.Errorf("Active(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestLookup_FallsBackToDefault(t *testing.T) {
	if got := Lookup("neon").Name; got != Default {
		t.Fatalf("Lookup(neon) = %q", got)
	}
	if got := Lookup("ocean").Name; got != "ocean" {
		t.Fatalf("Lookup(ocean) = %q", got)
	}
	if len(Names()) != len(palettes) {
		t.Fatal("Names incomplete")
	}
}
