package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// ErrQuotaExceeded is returned when a write would exceed the backend's capacity
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DefaultQuota mirrors the usual per-origin limit of browser storage
const DefaultQuota = 5 * 1024 * 1024

// MemoryBackend is an in-memory Backend with a byte quota over keys and values
type MemoryBackend struct {
	mu    sync.Mutex
	items map[string]string
	quota int
}

// NewMemoryBackend creates an empty backend; quota <= 0 means DefaultQuota
func NewMemoryBackend(quota int) *MemoryBackend {
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &MemoryBackend{items: make(map[string]string), quota: quota}
}

func (m *MemoryBackend) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryBackend) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := 0
	for k, v := range m.items {
		if k != key {
			used += len(k) + len(v)
		}
	}
	if used+len(key)+len(value) > m.quota {
		return fmt.Errorf("%w: %d bytes over %d", ErrQuotaExceeded, used+len(key)+len(value)-m.quota, m.quota)
	}
	m.items[key] = value
	return nil
}

func (m *MemoryBackend) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

const (
	lockTimeout   = 3 * time.Second
	lockRetryWait = 50 * time.Millisecond
)

// FileBackend stores all items as one JSON object in a file. Every operation
// takes an exclusive flock on "<path>.lock" so two running browsers sharing a
// profile never interleave writes.
type FileBackend struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewFileBackend creates a backend at path; the directory is created on first write
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the JSON file location
func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) GetItem(key string) (string, bool, error) {
	var value string
	var ok bool
	err := f.withLock(func() error {
		items, err := f.readAll()
		if err != nil {
			return err
		}
		value, ok = items[key]
		return nil
	})
	return value, ok, err
}

func (f *FileBackend) SetItem(key, value string) error {
	return f.withLock(func() error {
		items, err := f.readAll()
		if err != nil {
			return err
		}
		items[key] = value
		return f.writeAll(items)
	})
}

func (f *FileBackend) RemoveItem(key string) error {
	return f.withLock(func() error {
		items, err := f.readAll()
		if err != nil {
			return err
		}
		if _, ok := items[key]; !ok {
			return nil
		}
		delete(items, key)
		return f.writeAll(items)
	})
}

func (f *FileBackend) withLock(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create preferences directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := f.lock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire file lock")
	}
	defer f.lock.Unlock()

	return fn()
}

func (f *FileBackend) readAll() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return items, nil
}

// writeAll replaces the file atomically via a temp file and rename
func (f *FileBackend) writeAll(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
