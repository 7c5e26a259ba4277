package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogDir(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, ValidateLogDir(""), ErrEmptyLogDirectory)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		require.NoError(t, ValidateLogDir(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		assert.ErrorIs(t, ValidateLogDir(path), ErrLogDirNotDirectory)
	})
}

func TestRunLogFilename(t *testing.T) {
	runID := GenerateRunID()
	path := RunLogFilename("/var/log/privsweep", runID)

	assert.True(t, strings.HasPrefix(path, "/var/log/privsweep/"))
	assert.True(t, strings.HasSuffix(path, "_"+runID+".json"))
}

func TestOpenRunLogFile(t *testing.T) {
	dir := t.TempDir()
	runID := GenerateRunID()

	file, err := OpenRunLogFile(dir, runID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	info, err := file.Stat()
	require.NoError(t, err)
	assert.Equal(t, logFilePerm, info.Mode().Perm())
}

func TestGenerateRunIDUnique(t *testing.T) {
	first := GenerateRunID()
	second := GenerateRunID()

	assert.Len(t, first, 26, "ULIDs are 26 characters")
	assert.NotEqual(t, first, second)
}
