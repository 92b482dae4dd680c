package eventstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history", "builds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, "build-1", "TestEvent", []byte(`{"test":"data"}`), map[string]string{"key": "value"}))

	events, err := store.GetByBuildID(ctx, "build-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "build-1", events[0].BuildID())
	require.Equal(t, "TestEvent", events[0].Type())
	require.JSONEq(t, `{"test":"data"}`, string(events[0].Payload()))
	require.Equal(t, "value", events[0].Metadata()["key"])
	require.WithinDuration(t, time.Now(), events[0].Timestamp(), time.Minute)
}

func TestEventStoreGetRange(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	now := time.Now()

	for range 3 {
		require.NoError(t, store.Append(ctx, "build-1", "Event", []byte("{}"), nil))
	}

	events, err := store.GetRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 3)

	events, err = store.GetRange(ctx, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestEventStoreMultipleBuilds(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, "build-1", "Event1", nil, nil))
	require.NoError(t, store.Append(ctx, "build-2", "Event2", nil, nil))
	require.NoError(t, store.Append(ctx, "build-1", "Event3", nil, nil))

	events, err := store.GetByBuildID(ctx, "build-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "Event1", events[0].Type())
	require.Equal(t, "Event3", events[1].Type())
}

func TestEventStoreInMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Append(t.Context(), "b", "E", nil, nil))
	events, err := store.GetByBuildID(t.Context(), "b")
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestEventStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builds.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), "b", "E", nil, nil))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	events, err := store.GetByBuildID(t.Context(), "b")
	require.NoError(t, err)
	require.Len(t, events, 1)
}
