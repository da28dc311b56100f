package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todokeep/internal/kv"
	"todokeep/internal/todo"
)

func seedDataDir(t *testing.T, texts ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	fs, err := kv.NewFileStore(dir)
	require.NoError(t, err)

	store := todo.NewStore(todo.Options{Adapter: todo.NewAdapter(fs, "")})
	store.Load()
	for _, text := range texts {
		_, _, err := store.Add(text)
		require.NoError(t, err)
	}
	return dir
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	src := seedDataDir(t, "Buy milk", "Walk dog")
	require.NoError(t, os.WriteFile(filepath.Join(src, "store.json.lock"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "store.json.123.tmp"), []byte("{"), 0o644))

	archive := filepath.Join(t.TempDir(), "backups", "todokeep.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))

	restored := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, RestoreDataDir(archive, restored))

	got := readTree(t, restored)
	assert.Contains(t, got, "store.json")
	assert.NotContains(t, got, "store.json.lock")
	assert.NotContains(t, got, "store.json.123.tmp")

	want := readTree(t, src)
	assert.Equal(t, want["store.json"], got["store.json"])

	n, err := CountTasks(kv.DriverFile, restored, todo.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBackup_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	err := BackupDataDir(path, filepath.Join(t.TempDir(), "out.tar.gz"))
	assert.ErrorIs(t, err, ErrNotDataDir)
}

func TestCountTasks_CorruptState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "store.json"), []byte(`{"todo_store_v1":"[oops"}`), 0o644))

	_, err := CountTasks(kv.DriverFile, dir, todo.DefaultKey)
	assert.ErrorIs(t, err, todo.ErrCorruptState)
}

func TestCountTasks_MissingDir(t *testing.T) {
	_, err := CountTasks(kv.DriverFile, filepath.Join(t.TempDir(), "nope"), todo.DefaultKey)
	assert.Error(t, err)
}

func TestRestore_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}))
	_, err = tw.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	assert.Error(t, RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")))
}

func TestBackupRestore_SQLiteDriver(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	backing, err := kv.NewSQLiteStore(src)
	require.NoError(t, err)
	store := todo.NewStore(todo.Options{Adapter: todo.NewAdapter(backing, "")})
	store.Load()
	_, _, err = store.Add("kept in sqlite")
	require.NoError(t, err)
	require.NoError(t, backing.Close())

	archive := filepath.Join(t.TempDir(), "todokeep.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))
	restored := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, RestoreDataDir(archive, restored))

	n, err := CountTasks(kv.DriverSQLite, restored, todo.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
