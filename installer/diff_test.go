package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeText(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing destination renders as new file", func(t *testing.T) {
		src := filepath.Join(dir, "new.md")
		writeText(t, src, "line one\nline two\n")

		lines, err := Diff(src, filepath.Join(dir, "absent.md"), "new.md")
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Equal(t, DiffHeader, lines[0].Kind)
		assert.Contains(t, lines[0].Text, "new file")
		assert.Equal(t, DiffLine{Kind: DiffAdd, Text: "+line one"}, lines[1])
		assert.Equal(t, DiffLine{Kind: DiffAdd, Text: "+line two"}, lines[2])
	})

	t.Run("identical files report identity", func(t *testing.T) {
		src := filepath.Join(dir, "same-src.md")
		dest := filepath.Join(dir, "same-dest.md")
		writeText(t, src, "same\n")
		writeText(t, dest, "same\n")

		lines, err := Diff(src, dest, "same.md")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "(files are identical)", lines[0].Text)
	})

	t.Run("changed lines show add and delete rows", func(t *testing.T) {
		src := filepath.Join(dir, "chg-src.md")
		dest := filepath.Join(dir, "chg-dest.md")
		writeText(t, src, "shared\nafter\n")
		writeText(t, dest, "shared\nbefore\n")

		lines, err := Diff(src, dest, "chg.md")
		require.NoError(t, err)
		require.NotEmpty(t, lines)
		assert.Equal(t, DiffHeader, lines[0].Kind)

		var kinds []DiffKind
		for _, l := range lines[1:] {
			kinds = append(kinds, l.Kind)
		}
		assert.Contains(t, kinds, DiffContext)
		assert.Contains(t, kinds, DiffAdd)
		assert.Contains(t, kinds, DiffDelete)
	})

	t.Run("binary source short-circuits", func(t *testing.T) {
		src := filepath.Join(dir, "bin")
		require.NoError(t, os.WriteFile(src, []byte{0x00, 0x01, 0x02}, 0644))

		lines, err := Diff(src, filepath.Join(dir, "whatever"), "bin")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1].Text, "binary")
	})

	t.Run("missing source is an error", func(t *testing.T) {
		_, err := Diff(filepath.Join(dir, "nope"), filepath.Join(dir, "also-nope"), "x")
		assert.Error(t, err)
	})
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte("plain text\nwith lines\n")))
	assert.True(t, IsBinary([]byte{'a', 0x00, 'b'}))
	assert.True(t, IsBinary([]byte{0x01, 0x02, 0x03, 0x04}))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb"))
	assert.Empty(t, splitLines(""))
}
