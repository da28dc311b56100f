// Package ops holds backup and restore of the todokeep data directory.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"todokeep/internal/kv"
	"todokeep/internal/todo"
)

var ErrNotDataDir = errors.New("not a data directory")

// skipEntry reports files that only make sense to a live process: the flock
// sidecar and half-written temp files.
func skipEntry(rel string) bool {
	base := filepath.Base(rel)
	return strings.HasSuffix(base, ".lock") || strings.HasSuffix(base, ".tmp")
}

// BackupDataDir writes srcDir into a gzipped tarball at archivePath.
func BackupDataDir(srcDir, archivePath string) error {
	if strings.TrimSpace(srcDir) == "" || strings.TrimSpace(archivePath) == "" {
		return fmt.Errorf("data dir and archive path are required")
	}
	srcDir = filepath.Clean(strings.TrimSpace(srcDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	info, err := os.Stat(srcDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDataDir, srcDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == srcDir || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if !d.IsDir() && skipEntry(rel) {
			return nil
		}
		return addEntry(tw, path, filepath.ToSlash(rel), d)
	})

	// close in order so the archive is complete before the file is
	for _, c := range []io.Closer{tw, gz, f} {
		if err := c.Close(); err != nil && walkErr == nil {
			walkErr = err
		}
	}
	return walkErr
}

func addEntry(tw *tar.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

// RestoreDataDir unpacks archivePath into targetDir. Entries that would land
// outside targetDir are rejected.
func RestoreDataDir(archivePath, targetDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := safeRelPath(hdr.Name)
		if err != nil {
			return err
		}
		out := filepath.Join(targetDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(out, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		}
	}
}

func writeFile(path string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func safeRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	switch {
	case name == "." || name == "":
		return "", fmt.Errorf("empty archive entry")
	case filepath.IsAbs(name):
		return "", fmt.Errorf("absolute archive entry: %s", name)
	case name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)):
		return "", fmt.Errorf("archive entry escapes target: %s", name)
	}
	return name, nil
}

// CountTasks opens dataDir with driver the way the server does and returns
// how many tasks are stored under key. Unreadable state is an error here,
// unlike at startup where it is discarded.
func CountTasks(driver, dataDir, key string) (int, error) {
	if _, err := os.Stat(dataDir); err != nil {
		return 0, err
	}
	store, err := kv.Open(driver, dataDir)
	if err != nil {
		return 0, err
	}
	defer func() { _ = kv.Close(store) }()

	tasks, err := todo.NewAdapter(store, key).Restore()
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}
