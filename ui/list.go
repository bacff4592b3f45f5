package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Row is one renderable line of the selection tree.
type Row struct {
	Depth    int
	IsFolder bool
	Expanded bool
	Name     string
	Selected bool
	// Badge annotates status ("new", "modified", ...) or installed state.
	Badge     string
	BadgeKind BadgeKind
	Docs      string
}

// BadgeKind picks the badge style.
type BadgeKind int

const (
	BadgeNone BadgeKind = iota
	BadgeNew
	BadgeModified
	BadgeUnchanged
	BadgeManaged
	BadgeInstalled
)

// RenderRows renders the visible tree rows into a fixed-height window that
// keeps the cursor in view. Width overflow is truncated with an ellipsis.
func (s *Styles) RenderRows(rows []Row, cursor, width, height int) string {
	if height < 1 {
		height = 1
	}

	// Scroll window around the cursor.
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(s.renderRow(rows[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *Styles) renderRow(row Row, underCursor bool, width int) string {
	indent := strings.Repeat("  ", row.Depth)

	marker := "[ ] "
	if row.IsFolder {
		if row.Expanded {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	} else if row.Selected {
		marker = "[x] "
	}

	plain := indent + marker + row.Name
	suffix := ""
	if row.Badge != "" {
		suffix += "  " + row.Badge
	}
	if row.Docs != "" {
		suffix += "  " + row.Docs
	}
	plain = truncate(plain+suffix, width)

	// The cursor row is rendered flat so its background spans the badge
	// text instead of being reset by a nested style.
	if underCursor {
		return s.Cursor.Render(plain)
	}

	body := truncate(indent+marker+row.Name, width)
	var line string
	switch {
	case row.IsFolder:
		line = s.Folder.Render(body)
	case row.Selected:
		line = s.Selected.Render(body)
	default:
		line = s.Leaf.Render(body)
	}
	if row.Badge != "" && runewidth.StringWidth(plain) < width {
		line += "  " + s.badgeStyle(row.BadgeKind).Render(row.Badge)
	}
	if row.Docs != "" && runewidth.StringWidth(plain) < width {
		line += "  " + s.Help.Render(row.Docs)
	}
	return line
}

func (s *Styles) badgeStyle(kind BadgeKind) lipgloss.Style {
	switch kind {
	case BadgeNew:
		return s.StatusNew
	case BadgeModified:
		return s.StatusModified
	case BadgeUnchanged:
		return s.StatusUnchanged
	case BadgeManaged:
		return s.StatusManaged
	case BadgeInstalled:
		return s.Installed
	default:
		return s.Help
	}
}

func truncate(line string, width int) string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}
