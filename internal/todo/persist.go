package todo

import (
	"encoding/json"
	"errors"
	"fmt"

	"todokeep/internal/kv"
)

// DefaultKey is the storage key holding the serialized task list.
const DefaultKey = "todo_store_v1"

var ErrCorruptState = errors.New("stored task list is not readable")

// Adapter reads and writes the whole task list under one key.
type Adapter struct {
	kv  kv.Store
	key string
}

func NewAdapter(store kv.Store, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: store, key: key}
}

func (a *Adapter) Key() string {
	return a.key
}

// Save overwrites the stored list with tasks.
func (a *Adapter) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	if err := a.kv.Set(a.key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", a.key, err)
	}
	return nil
}

// Restore always returns a usable (possibly empty) list. A non-nil error
// explains why stored state was discarded; callers log it and carry on.
func (a *Adapter) Restore() ([]Task, error) {
	raw, ok, err := a.kv.Get(a.key)
	if err != nil {
		return []Task{}, fmt.Errorf("restore %s: %w", a.key, err)
	}
	if !ok {
		return []Task{}, nil
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return []Task{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	seen := make(map[string]bool, len(tasks))
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

// Check reads the key without decoding or writing it. It fails only when
// the backing store cannot be read.
func (a *Adapter) Check() error {
	if _, _, err := a.kv.Get(a.key); err != nil {
		return fmt.Errorf("check %s: %w", a.key, err)
	}
	return nil
}
