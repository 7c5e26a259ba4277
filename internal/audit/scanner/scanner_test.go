package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, mode fs.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	// The privilege bits must be applied with an explicit chmod; WriteFile
	// masks them through the umask.
	require.NoError(t, os.Chmod(path, mode))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScanCompleteness(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "bin", "setuid-tool"), 0o755|fs.ModeSetuid)
	writeFile(t, filepath.Join(root, "bin", "setgid-tool"), 0o755|fs.ModeSetgid)
	writeFile(t, filepath.Join(root, "bin", "both-tool"), 0o750|fs.ModeSetuid|fs.ModeSetgid)
	writeFile(t, filepath.Join(root, "bin", "plain-tool"), 0o755)
	writeFile(t, filepath.Join(root, "share", "doc.txt"), 0o644)

	inventory, err := New(testLogger()).Scan(context.Background(), root)
	require.NoError(t, err)

	paths := make(map[string]PrivilegedFile, len(inventory))
	for _, rec := range inventory {
		paths[rec.Path] = rec
	}

	require.Len(t, inventory, 3)
	assert.Contains(t, paths, filepath.Join(root, "bin", "setuid-tool"))
	assert.Contains(t, paths, filepath.Join(root, "bin", "setgid-tool"))
	assert.Contains(t, paths, filepath.Join(root, "bin", "both-tool"))

	setuid := paths[filepath.Join(root, "bin", "setuid-tool")]
	assert.NotZero(t, setuid.Mode&fs.ModeSetuid)
	assert.Equal(t, "4755", setuid.OctalMode())

	both := paths[filepath.Join(root, "bin", "both-tool")]
	assert.Equal(t, "6750", both.OctalMode())
}

func TestScanResilienceToUnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible", "tool"), 0o755|fs.ModeSetuid)

	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden-tool"), 0o755|fs.ModeSetuid)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	inventory, err := New(testLogger()).Scan(context.Background(), root)
	require.NoError(t, err, "an unreadable subtree must not abort the scan")

	require.Len(t, inventory, 1)
	assert.Equal(t, filepath.Join(root, "visible", "tool"), inventory[0].Path)
}

func TestScanDoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	writeFile(t, filepath.Join(outside, "target"), 0o755|fs.ModeSetuid)
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link-dir")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "target"), filepath.Join(root, "link-file")))

	inventory, err := New(testLogger()).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Empty(t, inventory, "symlinks and their targets must not be inspected")
}

func TestScanEmptyTree(t *testing.T) {
	inventory, err := New(testLogger()).Scan(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, inventory)
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tool"), 0o755|fs.ModeSetuid)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testLogger()).Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
