package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps every key in one JSON object on disk. Writes go to a
// temporary file that is renamed over the original.
type FileKV struct {
	path string

	mu   sync.RWMutex
	data map[string]string
}

// NewFileKV opens the store at path, creating its directory if needed.
// A missing or malformed file starts an empty store.
func NewFileKV(path string) (*FileKV, error) {
	if path == "" {
		return nil, fmt.Errorf("file storage requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	kv := &FileKV{path: path, data: make(map[string]string)}
	if err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[key] = value
	return f.save()
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.save()
}

func (f *FileKV) Close() error { return nil }

// load reads the file into memory. A file that does not decode is moved
// aside to path+".corrupt" and the store starts empty.
func (f *FileKV) load() error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open storage file: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Error("storage file is malformed, starting empty", "path", f.path, "error", err)
		if err := os.Rename(f.path, f.path+".corrupt"); err != nil {
			slog.Error("failed to move malformed storage file aside", "path", f.path, "error", err)
		}
		return nil
	}
	if data != nil {
		f.data = data
	}
	return nil
}

// save must be called with f.mu held.
func (f *FileKV) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(f.data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
