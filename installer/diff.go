package installer

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const binaryProbeBytes = 512

// DiffLine is one rendered diff row.
type DiffLine struct {
	Kind DiffKind
	Text string
}

// DiffKind classifies a diff row for styling.
type DiffKind int

const (
	DiffContext DiffKind = iota
	DiffAdd
	DiffDelete
	DiffHeader
)

// Diff compares a component's source against its destination and returns
// renderable lines. A missing destination renders as a new file (all
// additions); binary content short-circuits to a notice.
func Diff(srcPath, destPath, name string) ([]DiffLine, error) {
	srcData, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", srcPath, err)
	}

	if IsBinary(srcData) {
		return []DiffLine{
			{Kind: DiffHeader, Text: "+++ " + name},
			{Kind: DiffContext, Text: "(binary file, no diff shown)"},
		}, nil
	}

	destData, err := os.ReadFile(destPath)
	if os.IsNotExist(err) {
		lines := []DiffLine{{Kind: DiffHeader, Text: "+++ " + name + " @@ new file @@"}}
		for _, line := range splitLines(string(srcData)) {
			lines = append(lines, DiffLine{Kind: DiffAdd, Text: "+" + line})
		}
		return lines, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", destPath, err)
	}

	if IsBinary(destData) {
		return []DiffLine{
			{Kind: DiffHeader, Text: "+++ " + name},
			{Kind: DiffContext, Text: "(binary file, no diff shown)"},
		}, nil
	}

	if string(srcData) == string(destData) {
		return []DiffLine{{Kind: DiffContext, Text: "(files are identical)"}}, nil
	}

	return lineDiff(string(destData), string(srcData), name), nil
}

// lineDiff produces a line-granular diff: installed content on the left,
// catalog content on the right.
func lineDiff(oldText, newText, name string) []DiffLine {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineArray)

	lines := []DiffLine{{Kind: DiffHeader, Text: "--- installed\n+++ " + name}}
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				lines = append(lines, DiffLine{Kind: DiffAdd, Text: "+" + line})
			case diffmatchpatch.DiffDelete:
				lines = append(lines, DiffLine{Kind: DiffDelete, Text: "-" + line})
			default:
				lines = append(lines, DiffLine{Kind: DiffContext, Text: " " + line})
			}
		}
	}
	return lines
}

// IsBinary probes the first 512 bytes: a NUL byte, or more than a quarter of
// the probe being non-printable, marks the content binary.
func IsBinary(data []byte) bool {
	probe := data
	if len(probe) > binaryProbeBytes {
		probe = probe[:binaryProbeBytes]
	}
	if len(probe) == 0 {
		return false
	}

	nonPrintable := 0
	for _, b := range probe {
		if b == 0 {
			return true
		}
		r := rune(b)
		if b < 0x80 && !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
	}
	return nonPrintable > len(probe)/4
}

// splitLines splits on newlines, dropping a single trailing empty element so
// "a\nb\n" renders as two rows, not three.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
