package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *SQLiteLogger {
	t.Helper()
	l, err := NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestEmitAndQuery(t *testing.T) {
	l := newTestLogger(t)

	l.Emit(NewEvent(EventInstallOK, "claude", "review.md", "file", "ok"))
	l.Emit(NewEvent(EventInstallFailed, "claude", "github", "mcp", "boom",
		WithDetail("exit status 1"), WithLevel("error")))
	l.Emit(NewEvent(EventRemoveOK, "codex", "testing.md", "file", "ok"))

	t.Run("all events newest first", func(t *testing.T) {
		events, err := l.Query(QueryFilter{})
		require.NoError(t, err)
		require.Len(t, events, 3)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].Timestamp.After(events[i-1].Timestamp))
		}
	})

	t.Run("filter by cli", func(t *testing.T) {
		events, err := l.Query(QueryFilter{Cli: "codex"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, EventRemoveOK, events[0].Kind)
	})

	t.Run("filter by item", func(t *testing.T) {
		events, err := l.Query(QueryFilter{Item: "github"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "exit status 1", events[0].Detail)
		assert.Equal(t, "error", events[0].Level)
	})

	t.Run("filter by kinds", func(t *testing.T) {
		events, err := l.Query(QueryFilter{Kinds: []EventKind{EventInstallOK, EventRemoveOK}})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("limit", func(t *testing.T) {
		events, err := l.Query(QueryFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestEmitFillsTimestamp(t *testing.T) {
	l := newTestLogger(t)

	before := time.Now().Add(-time.Second)
	l.Emit(Event{Kind: EventScanCompleted})

	events, err := l.Query(QueryFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.After(before))
}

func TestTimeWindowFilters(t *testing.T) {
	l := newTestLogger(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		e := NewEvent(EventInstallOK, "claude", "x", "file", "ok")
		e.Timestamp = base.Add(time.Duration(i) * time.Minute)
		l.Emit(e)
	}

	events, err := l.Query(QueryFilter{After: base.Add(30 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = l.Query(QueryFilter{Before: base.Add(90 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestClear(t *testing.T) {
	l := newTestLogger(t)

	l.Emit(NewEvent(EventInstallOK, "claude", "x", "file", "ok"))
	require.NoError(t, l.Clear())

	events, err := l.Query(QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Emit(NewEvent(EventInstallOK, "claude", "x", "file", "ok"))

	events, err := l.Query(QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, l.Close())
}

func TestNewEventOptions(t *testing.T) {
	e := NewEvent(EventInstallFailed, "claude", "github", "mcp", "failed",
		WithScope("local"), WithDetail("exit 1"), WithLevel("error"))

	assert.Equal(t, "local", e.Scope)
	assert.Equal(t, "exit 1", e.Detail)
	assert.Equal(t, "error", e.Level)
	assert.Equal(t, "github", e.Item)
}
