package ui

import (
	"fmt"
	"strings"
)

// LogLine is one row of the processing log.
type LogLine struct {
	Kind LogKind
	Text string
}

// LogKind picks the log line style.
type LogKind int

const (
	LogInfo LogKind = iota
	LogOK
	LogErr
	LogWarn
)

// RenderProcessing draws the processing pane: spinner/title, progress
// counter, and the tail of the operation log.
func (s *Styles) RenderProcessing(spinner string, done, total int, lines []LogLine, width, height int) string {
	header := fmt.Sprintf("%s Processing %d/%d", spinner, done, total)
	if done >= total && total > 0 {
		header = fmt.Sprintf("Done %d/%d — press enter to continue", done, total)
	}

	logHeight := height - 2
	if logHeight < 1 {
		logHeight = 1
	}
	start := 0
	if len(lines) > logHeight {
		start = len(lines) - logHeight
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(truncate(header, width)))
	b.WriteString("\n\n")
	for i := start; i < len(lines); i++ {
		line := lines[i]
		var rendered string
		switch line.Kind {
		case LogOK:
			rendered = s.LogOK.Render(truncate(line.Text, width))
		case LogErr:
			rendered = s.LogErr.Render(truncate(line.Text, width))
		case LogWarn:
			rendered = s.LogWarn.Render(truncate(line.Text, width))
		default:
			rendered = s.LogInfo.Render(truncate(line.Text, width))
		}
		b.WriteString(rendered)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
