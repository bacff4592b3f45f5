package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kastheco/dotsmith/installer"
)

func TestRenderProcessing(t *testing.T) {
	s := NewStyles(Dark())

	lines := []LogLine{
		{Kind: LogInfo, Text: "... install one.md"},
		{Kind: LogOK, Text: "[OK] install one.md"},
	}

	out := s.RenderProcessing("*", 1, 2, lines, 80, 20)
	assert.Contains(t, out, "Processing 1/2")
	assert.Contains(t, out, "[OK] install one.md")

	t.Run("completed header invites dismissal", func(t *testing.T) {
		out := s.RenderProcessing("", 2, 2, lines, 80, 20)
		assert.Contains(t, out, "Done 2/2")
		assert.Contains(t, out, "press enter to continue")
	})

	t.Run("log shows only the tail when space runs out", func(t *testing.T) {
		var many []LogLine
		for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
			many = append(many, LogLine{Kind: LogOK, Text: "[OK] " + n})
		}
		out := s.RenderProcessing("*", 6, 10, many, 80, 5)
		assert.NotContains(t, out, "[OK] a")
		assert.Contains(t, out, "[OK] f")
	})
}

func TestRenderDiff(t *testing.T) {
	s := NewStyles(Dark())

	lines := []installer.DiffLine{
		{Kind: installer.DiffHeader, Text: "--- installed\n+++ review.md"},
		{Kind: installer.DiffContext, Text: " shared"},
		{Kind: installer.DiffDelete, Text: "-before"},
		{Kind: installer.DiffAdd, Text: "+after"},
	}

	out := s.RenderDiff(lines, 80)
	assert.Contains(t, out, "+++ review.md")
	assert.Contains(t, out, "-before")
	assert.Contains(t, out, "+after")
	assert.GreaterOrEqual(t, len(strings.Split(out, "\n")), 4)
}
