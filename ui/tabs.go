package ui

import "strings"

// RenderTabs draws the category tab bar with the active tab highlighted.
func (s *Styles) RenderTabs(titles []string, active int, width int) string {
	var parts []string
	for i, title := range titles {
		if i == active {
			parts = append(parts, s.TabActive.Render(title))
		} else {
			parts = append(parts, s.TabInactive.Render(title))
		}
	}
	return truncate(strings.Join(parts, " "), width)
}
