// Package rapidlog reads and renders bullet-journal rapid-log notation.
package rapidlog

import (
	"regexp"
	"strings"

	"github.com/nhle/bujo/internal/model"
)

// tagPattern matches hashtags such as #home, #work/q3 or #meeting:42.
var tagPattern = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_][\p{L}\p{N}_:/-]*)`)

// Item is one parsed rapid-log line.
type Item struct {
	Type    model.EntryType
	Content string
	Tags    []string
}

// Parse reads a rapid-log line. A leading "- " marks a note and "* " an
// event; anything else is a task. Hashtags stay in the content and are
// also returned as tags.
func Parse(line string) Item {
	trimmed := strings.TrimSpace(line)

	item := Item{Type: model.EntryTypeTask, Content: trimmed}
	switch {
	case strings.HasPrefix(trimmed, "- "):
		item.Type = model.EntryTypeNote
		item.Content = strings.TrimSpace(trimmed[2:])
	case strings.HasPrefix(trimmed, "* "):
		item.Type = model.EntryTypeEvent
		item.Content = strings.TrimSpace(trimmed[2:])
	}

	item.Tags = ExtractTags(item.Content)
	return item
}

// ExtractTags returns the hashtags in text without the leading '#'.
// Returns a deduplicated list preserving the order of first occurrence.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		tag := m[1]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// BulletSymbol returns the bullet drawn for an entry type.
func BulletSymbol(t model.EntryType) string {
	switch t {
	case model.EntryTypeEvent:
		return "○"
	case model.EntryTypeNote:
		return "–"
	default:
		return "●"
	}
}

// StatusSymbol returns the mark drawn for an entry. Open entries show
// their bullet.
func StatusSymbol(t model.EntryType, s model.Status) string {
	switch s {
	case model.StatusDone:
		return "×"
	case model.StatusMigrated:
		return ">"
	case model.StatusCancelled:
		return "~"
	default:
		return BulletSymbol(t)
	}
}
