// Package theme picks the kiosk color scheme. Theme schedules switch the
// palette for a date window, e.g. a holiday theme for the last week of
// December.
package theme

import (
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
)

const Default = "default"

// Palette is a named set of terminal colors.
type Palette struct {
	Name    string
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
}

var palettes = map[string]Palette{
	Default: {
		Name: Default, Accent: "205", Text: "252", Muted: "241",
		Success: "42", Warning: "214", Error: "196", Border: "62",
	},
	"ocean": {
		Name: "ocean", Accent: "39", Text: "255", Muted: "67",
		Success: "49", Warning: "221", Error: "203", Border: "31",
	},
	"autumn": {
		Name: "autumn", Accent: "208", Text: "230", Muted: "137",
		Success: "142", Warning: "220", Error: "160", Border: "130",
	},
	"festive": {
		Name: "festive", Accent: "196", Text: "255", Muted: "108",
		Success: "34", Warning: "226", Error: "160", Border: "28",
	},
	"spring": {
		Name: "spring", Accent: "213", Text: "254", Muted: "151",
		Success: "120", Warning: "222", Error: "167", Border: "114",
	},
}

// Lookup returns the named palette, or the default one.
func Lookup(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[Default]
}

func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Active returns the theme of the first enabled schedule whose date window
// contains today, or Default.
func Active(schedules []models.ThemeSchedule, now time.Time) string {
	today := clock.ISODate(now)
	for _, s := range schedules {
		if s.Enabled && clock.InDateWindow(today, s.StartDate, s.EndDate) {
			return s.ThemeName
		}
	}
	return Default
}

// Styles are the lipgloss styles the kiosk renders with.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Clock    lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Dim      lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Box      lipgloss.Style
	Banner   lipgloss.Style
}

func (p Palette) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginBottom(1),
		Clock: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		Normal: lipgloss.NewStyle().
			Foreground(p.Text),
		Dim: lipgloss.NewStyle().
			Foreground(p.Muted),
		Success: lipgloss.NewStyle().
			Foreground(p.Success),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),
		Error: lipgloss.NewStyle().
			Foreground(p.Error),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Warning).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Warning).
			Padding(0, 2),
	}
}
