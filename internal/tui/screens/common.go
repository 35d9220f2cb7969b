package screens

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/punchclock/internal/notify"
	"github.com/emilianohg/punchclock/internal/theme"
)

// NavigateMsg is sent when navigation to another screen is requested
type NavigateMsg struct {
	Screen string
}

func Navigate(screen string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen}
	}
}

// RefreshMsg is sent when data should be refreshed
type RefreshMsg struct {
	Domain notify.Domain
}

func Refresh(domain notify.Domain) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{Domain: domain}
	}
}

// BellMsg asks the kiosk to show a ringing bell.
type BellMsg struct {
	Event notify.Event
}

// ClockMsg is the once-a-second kiosk clock tick.
type ClockMsg time.Time

// ShiftMsg asks the kiosk to re-select the active shift.
type ShiftMsg struct{}

// Styles, restyled by ApplyPalette when the scheduled theme changes.
var (
	TitleStyle    = theme.Lookup(theme.Default).Styles().Title
	SubtitleStyle = theme.Lookup(theme.Default).Styles().Subtitle
	ClockStyle    = theme.Lookup(theme.Default).Styles().Clock
	HelpStyle     = theme.Lookup(theme.Default).Styles().Help
	SelectedStyle = theme.Lookup(theme.Default).Styles().Selected
	NormalStyle   = theme.Lookup(theme.Default).Styles().Normal
	DimStyle      = theme.Lookup(theme.Default).Styles().Dim
	SuccessStyle  = theme.Lookup(theme.Default).Styles().Success
	WarningStyle  = theme.Lookup(theme.Default).Styles().Warning
	ErrorStyle    = theme.Lookup(theme.Default).Styles().Error
	BoxStyle      = theme.Lookup(theme.Default).Styles().Box
	BannerStyle   = theme.Lookup(theme.Default).Styles().Banner
)

// ApplyPalette restyles every screen.
func ApplyPalette(p theme.Palette) {
	s := p.Styles()
	TitleStyle = s.Title
	SubtitleStyle = s.Subtitle
	ClockStyle = s.Clock
	HelpStyle = s.Help
	SelectedStyle = s.Selected
	NormalStyle = s.Normal
	DimStyle = s.Dim
	SuccessStyle = s.Success
	WarningStyle = s.Warning
	ErrorStyle = s.Error
	BoxStyle = s.Box
	BannerStyle = s.Banner
}
