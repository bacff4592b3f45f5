package ui

import (
	"strings"

	"github.com/kastheco/dotsmith/installer"
)

// RenderDiff styles diff lines for display inside a viewport.
func (s *Styles) RenderDiff(lines []installer.DiffLine, width int) string {
	var b strings.Builder
	for i, line := range lines {
		var rendered string
		switch line.Kind {
		case installer.DiffAdd:
			rendered = s.DiffAdd.Render(truncate(line.Text, width))
		case installer.DiffDelete:
			rendered = s.DiffDelete.Render(truncate(line.Text, width))
		case installer.DiffHeader:
			rendered = s.DiffHunk.Render(truncate(line.Text, width))
		default:
			rendered = s.DiffContext.Render(truncate(line.Text, width))
		}
		b.WriteString(rendered)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
