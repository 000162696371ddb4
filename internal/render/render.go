// Package render formats journal entries, collections and meeting notes
// for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/rapidlog"
)

// shortIDLen is how much of an id listings show.
const shortIDLen = 8

var tableStyles = map[string]table.Style{
	"default": table.StyleDefault,
	"light":   table.StyleLight,
	"double":  table.StyleDouble,
	"rounded": table.StyleRounded,
	"bold":    table.StyleBold,
}

// TableStyle resolves a display.table_style name. Unknown names fall back
// to the light style.
func TableStyle(name string) table.Style {
	if s, ok := tableStyles[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}
	return table.StyleLight
}

// Renderer writes formatted output to one writer.
type Renderer struct {
	w     io.Writer
	color bool
	style table.Style
	theme theme
}

// New returns a Renderer for w configured by the display settings.
func New(w io.Writer, cfg model.DisplayConfig) *Renderer {
	return &Renderer{
		w:     w,
		color: cfg.Color,
		style: TableStyle(cfg.TableStyle),
		theme: newTheme(lipgloss.NewRenderer(w), cfg.Color),
	}
}

// ShortID trims an id for display.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// Header prints a section title.
func (r *Renderer) Header(format string, args ...any) {
	fmt.Fprintln(r.w, r.theme.header.Render(fmt.Sprintf(format, args...)))
}

// Muted prints a dimmed line, used for empty states and hints.
func (r *Renderer) Muted(format string, args ...any) {
	fmt.Fprintln(r.w, r.theme.muted.Render(fmt.Sprintf(format, args...)))
}

// EntryLine formats one entry as a rapid-log line: status symbol, content
// and tags not already written into the content. A migrated row whose chain
// was resolved elsewhere shows that outcome.
func (r *Renderer) EntryLine(e *model.Entry, resolved model.Status) string {
	style := r.theme.status(e.Type, e.Status)
	line := rapidlog.StatusSymbol(e.Type, e.Status) + " " + e.Content
	if extra := extraTags(e); len(extra) > 0 {
		line += " #" + strings.Join(extra, " #")
	}
	line = style.Render(line)
	if e.Migrated() && resolved.Resolved() {
		line += " " + r.theme.muted.Render("("+string(resolved)+" later)")
	}
	return line
}

// Entry prints a single entry with its short id.
func (r *Renderer) Entry(e *model.Entry) {
	fmt.Fprintf(r.w, "%s  %s\n", r.EntryLine(e, ""), r.theme.muted.Render(ShortID(e.ID)))
}

// Entries prints entries as a table. resolutions maps chain ids to their
// final status and may be nil.
func (r *Renderer) Entries(entries []model.Entry, resolutions map[string]model.Status) {
	if len(entries) == 0 {
		r.Muted("No entries.")
		return
	}

	t := r.newTable()
	t.AppendHeader(r.headerRow("ID", "Entry", "Date", "Log", "Source"))
	for i := range entries {
		e := &entries[i]
		source := ""
		if e.Source != model.SourceUser {
			source = r.theme.source(e.Source).Render(string(e.Source))
		}
		t.AppendRow(table.Row{
			ShortID(e.ID),
			r.EntryLine(e, resolutions[e.ChainID]),
			e.Date.String(),
			string(e.LogType),
			source,
		})
	}
	t.Render()
}

// Days prints the days an anchor has been planned onto.
func (r *Renderer) Days(days []model.Date) {
	if len(days) == 0 {
		r.Muted("Not planned onto any day.")
		return
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.String()
	}
	fmt.Fprintln(r.w, "Planned: "+strings.Join(parts, ", "))
}

// Collections prints collections as a table.
func (r *Renderer) Collections(cs []model.Collection) {
	if len(cs) == 0 {
		r.Muted("No collections.")
		return
	}

	t := r.newTable()
	t.AppendHeader(r.headerRow("ID", "Name", "Type", "Created"))
	for _, c := range cs {
		t.AppendRow(table.Row{
			ShortID(c.ID),
			strings.TrimSpace(c.Icon + " " + c.Name),
			string(c.Type),
			c.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	t.Render()
}

// MeetingNotes prints meeting notes as a table.
func (r *Renderer) MeetingNotes(notes []model.MeetingNote) {
	if len(notes) == 0 {
		r.Muted("No meeting notes.")
		return
	}

	t := r.newTable()
	t.AppendHeader(r.headerRow("ID", "Date", "Title", "Attendees"))
	for _, n := range notes {
		t.AppendRow(table.Row{
			ShortID(n.ID),
			n.Date.String(),
			n.Title,
			strings.Join(n.Attendees, ", "),
		})
	}
	t.Render()
}

// MeetingNote prints one meeting note in full.
func (r *Renderer) MeetingNote(n *model.MeetingNote) {
	r.Header("%s  %s", n.Date, n.Title)
	if len(n.Attendees) > 0 {
		fmt.Fprintln(r.w, "Attendees: "+strings.Join(n.Attendees, ", "))
	}
	if n.Agenda != "" {
		fmt.Fprintln(r.w, "\nAgenda:\n"+n.Agenda)
	}
	if n.Notes != "" {
		fmt.Fprintln(r.w, "\nNotes:\n"+n.Notes)
	}
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(r.style)
	t.Style().Options.SeparateRows = false
	return t
}

func (r *Renderer) headerRow(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		if r.color {
			row[i] = text.FgGreen.Sprintf("%s", n)
		} else {
			row[i] = n
		}
	}
	return row
}

// extraTags returns the tags of e whose #hashtag is not in its content,
// such as the meeting tag of an action item.
func extraTags(e *model.Entry) []string {
	var extra []string
	for _, tag := range e.Tags {
		if !strings.Contains(e.Content, "#"+tag) {
			extra = append(extra, tag)
		}
	}
	return extra
}
