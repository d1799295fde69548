package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohtmlrewrite/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.html")
	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("<p>x</p>"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.html")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.False(t, written, "identical content must not rewrite the file")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	content, info, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))
	assert.Equal(t, int64(len(content)), info.Size)

	_, _, err = fsutil.ReadFile(ctx, filepath.Join(dir, "missing.html"))
	assert.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(ctx, dir)
	assert.ErrorIs(t, err, fsutil.ErrIsDirectory)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	_, info, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)

	modified, err := fsutil.CheckModified(ctx, info)
	require.NoError(t, err)
	assert.False(t, modified)

	require.NoError(t, os.WriteFile(path, []byte("v2 longer"), 0o644))
	modified, err = fsutil.CheckModified(ctx, info)
	require.NoError(t, err)
	assert.True(t, modified)
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	backup := fsutil.BackupPath(path, fsutil.BackupModeSidecar)
	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	// Idempotent: the existing backup is never overwritten.
	require.NoError(t, os.WriteFile(path, []byte("rewritten"), 0o644))
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	got, err = os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestRestoreBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
	_, err := fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mangled"), 0o644))

	restored, err := fsutil.RestoreBackup(ctx, path, fsutil.BackupModeSidecar)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestBackupDisabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	created, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, created)

	created, err = fsutil.CreateBackup(ctx, path,
		fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone})
	require.NoError(t, err)
	assert.False(t, created)
}
