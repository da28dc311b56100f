package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const fileName = "store.json"

// FileStore keeps every key in one JSON object on disk. Each read-modify-write
// holds an exclusive lock on a sidecar file, so writes to different keys from
// two processes never drop each other. A value is replaced whole: two
// processes writing the same key is last writer wins, so one process should
// own a key at a time.
type FileStore struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dataDir, fileName)
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path is the JSON file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	values, err := s.readLocked()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	values, err := s.readLocked()
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		// Unreadable file: keep it for inspection and start over.
		if rerr := os.Rename(s.path, s.path+".corrupt"); rerr != nil {
			return rerr
		}
		values = map[string]string{}
	default:
		return err
	}

	values[key] = value
	return s.writeLocked(values)
}

func (s *FileStore) readLocked() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (s *FileStore) writeLocked(values map[string]string) error {
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}
