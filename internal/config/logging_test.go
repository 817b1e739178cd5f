package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanupOldLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"aichat-2025-01-01T00-00-00.log",
		"aichat-2025-01-02T00-00-00.log",
		"aichat-2025-01-03T00-00-00.log",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	files, err := filepath.Glob(filepath.Join(dir, "aichat-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.NoFileExists(t, filepath.Join(dir, names[0]))
}

func TestSetupLogFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := SetupLogFile(dir, 5)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	require.DirExists(t, dir)
	require.FileExists(t, f.Name())
}
