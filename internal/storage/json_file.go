package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// JSONFile persists a single value of type T as an indented JSON document.
// Reads and writes are serialized; writes go through a temp file and a
// rename so a crash never leaves a half-written document behind.
type JSONFile[T any] struct {
	mu   sync.RWMutex
	path string
}

// NewJSONFile prepares a document named filename inside dataDir, creating
// the directory if needed.
func NewJSONFile[T any](dataDir, filename string) (*JSONFile[T], error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONFile[T]{path: filepath.Join(dataDir, filename)}, nil
}

// Path is where the document lives on disk.
func (f *JSONFile[T]) Path() string {
	return f.path
}

// Load decodes the document. ok is false when nothing has been saved yet.
func (f *JSONFile[T]) Load() (value T, ok bool, err error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return value, false, nil
		}
		return value, false, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&value); err != nil {
		return value, false, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return value, true, nil
}

// Save replaces the document with value.
func (f *JSONFile[T]) Save(value T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, f.path)
}

// Exists reports whether the document has been saved.
func (f *JSONFile[T]) Exists() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, err := os.Stat(f.path)
	return err == nil
}
