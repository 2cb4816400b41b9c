package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/sessions/filestore"
	"github.com/jrsteele09/go-agri-dashboard/sessions/storetest"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) sessions.Store {
		return filestore.New(filepath.Join(t.TempDir(), "nested", "session.json"))
	})
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, filestore.New(path).Set(ctx, sessions.KeyRefreshToken, "r1"))

	v, ok, err := filestore.New(path).Get(ctx, sessions.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "r1", v)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, _, err := filestore.New(path).Get(context.Background(), sessions.KeyAccessToken)
	require.ErrorContains(t, err, "decode")
}
