package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKeyValueContract checks the behavior every backend must share.
func runKeyValueContract(t *testing.T, ctx context.Context, kv KeyValue) {
	t.Helper()

	t.Run("Read of an absent key", func(t *testing.T) {
		// When: reading a key that was never written
		_, err := kv.Read(ctx, "absent")

		// Then: ErrNotFound is returned
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Write then Read", func(t *testing.T) {
		// Given: a written entry
		require.NoError(t, kv.Write(ctx, "squares", `[null,null,null,null,"X",null,null,null,null]`))

		// When: reading it back
		value, err := kv.Read(ctx, "squares")

		// Then: the stored text is returned unchanged
		require.NoError(t, err)
		assert.Equal(t, `[null,null,null,null,"X",null,null,null,null]`, value)
	})

	t.Run("Last write wins", func(t *testing.T) {
		require.NoError(t, kv.Write(ctx, "username", `"a"`))
		require.NoError(t, kv.Write(ctx, "username", `"b"`))

		value, err := kv.Read(ctx, "username")

		require.NoError(t, err)
		assert.Equal(t, `"b"`, value)
	})

	t.Run("Delete removes the entry", func(t *testing.T) {
		// Given: a written entry
		require.NoError(t, kv.Write(ctx, "name", `"kody"`))

		// When: deleting it
		require.NoError(t, kv.Delete(ctx, "name"))

		// Then: it reads as absent
		_, err := kv.Read(ctx, "name")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete of an absent key is not an error", func(t *testing.T) {
		assert.NoError(t, kv.Delete(ctx, "never-written"))
	})
}

func TestMemoryStorage(t *testing.T) {
	runKeyValueContract(t, context.Background(), NewMemoryStorage())
}

func TestMemoryStorage_CanceledContext(t *testing.T) {
	// Given: a canceled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// When: writing with it
	err := NewMemoryStorage().Write(ctx, "k", "v")

	// Then: the context error is returned
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()

	st, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "timeline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	runKeyValueContract(t, ctx, st)
}

func TestBoltStorage(t *testing.T) {
	st, err := NewBoltStorage(filepath.Join(t.TempDir(), "timeline.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	runKeyValueContract(t, context.Background(), st)
}

func TestBoltStorage_EmptyPath(t *testing.T) {
	_, err := NewBoltStorage("  ")

	assert.Error(t, err)
}

func TestBoltStorage_SurvivesReopen(t *testing.T) {
	// Given: an entry written before closing the file
	path := filepath.Join(t.TempDir(), "timeline.bolt")
	st, err := NewBoltStorage(path)
	require.NoError(t, err)
	require.NoError(t, st.Write(context.Background(), "squares", "[]"))
	require.NoError(t, st.Close())

	// When: reopening the file
	st, err = NewBoltStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	// Then: the entry is still there
	value, err := st.Read(context.Background(), "squares")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}
