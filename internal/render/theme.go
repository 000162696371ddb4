package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/bujo/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

// theme holds the styles of one Renderer. A colorless theme renders every
// string unchanged.
type theme struct {
	header    lipgloss.Style
	muted     lipgloss.Style
	open      lipgloss.Style
	done      lipgloss.Style
	migrated  lipgloss.Style
	cancelled lipgloss.Style
	event     lipgloss.Style
	note      lipgloss.Style
	external  lipgloss.Style
	calendar  lipgloss.Style
}

func newTheme(r *lipgloss.Renderer, color bool) theme {
	if !color {
		plain := r.NewStyle()
		return theme{
			header: plain, muted: plain,
			open: plain, done: plain, migrated: plain, cancelled: plain,
			event: plain, note: plain,
			external: plain, calendar: plain,
		}
	}
	bold := r.NewStyle().Bold(true)
	return theme{
		header:    bold.Foreground(ColorWhite).Background(ColorBlue).Padding(0, 1),
		muted:     r.NewStyle().Foreground(ColorGray),
		open:      bold.Foreground(ColorBlue),
		done:      bold.Foreground(ColorGreen),
		migrated:  r.NewStyle().Foreground(ColorGray),
		cancelled: r.NewStyle().Foreground(ColorRed).Strikethrough(true),
		event:     bold.Foreground(ColorYellow),
		note:      r.NewStyle().Foreground(ColorGray),
		external:  bold.Foreground(ColorMagenta),
		calendar:  bold.Foreground(ColorYellow),
	}
}

// status returns the style for a row in status s of type t. Open events
// and notes keep their bullet colour.
func (th theme) status(t model.EntryType, s model.Status) lipgloss.Style {
	switch s {
	case model.StatusDone:
		return th.done
	case model.StatusMigrated:
		return th.migrated
	case model.StatusCancelled:
		return th.cancelled
	}
	switch t {
	case model.EntryTypeEvent:
		return th.event
	case model.EntryTypeNote:
		return th.note
	default:
		return th.open
	}
}

// source returns the style for a provenance label.
func (th theme) source(s model.Source) lipgloss.Style {
	switch s {
	case model.SourceExternalIntegration:
		return th.external
	case model.SourceCalendarSync:
		return th.calendar
	default:
		return th.muted
	}
}
