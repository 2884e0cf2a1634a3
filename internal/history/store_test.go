package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDBAppendRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	h, err := Open(path)
	require.NoError(t, err)

	for _, line := range []string{"ls", "  ", "cd src", "help"} {
		require.NoError(t, h.Append(ctx, SourceTUI, line))
	}
	got, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"cd src", "help"}, got)
	require.NoError(t, h.Close())

	// reopening runs migrations again without error and keeps rows
	h, err = Open(path)
	require.NoError(t, err)
	defer h.Close()
	got, err = h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"ls", "cd src", "help"}, got)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	var s Store = NewMemory()
	require.NoError(t, s.Append(ctx, SourceREPL, "a"))
	require.NoError(t, s.Append(ctx, SourceREPL, ""))
	require.NoError(t, s.Append(ctx, SourceREPL, "b"))
	got, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, got)
	got, err = s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}
