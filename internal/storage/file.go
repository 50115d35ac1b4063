package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File implements StateStore and SubscriberStore on top of two JSON files.
// A missing file reads as an empty record; a malformed one is an error,
// since silently discarding the record would re-notify every feed entry.
type File struct {
	statePath       string
	subscribersPath string
}

// NewFile creates a File store reading and writing the given paths.
func NewFile(statePath, subscribersPath string) *File {
	return &File{statePath: statePath, subscribersPath: subscribersPath}
}

// LoadState reads the processed-item record from disk.
func (f *File) LoadState() (*State, error) {
	s := &State{}
	if err := readJSON(f.statePath, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveState writes the processed-item record to disk.
func (f *File) SaveState(s *State) error {
	return writeJSON(f.statePath, s)
}

// LoadSubscribers reads the subscriber set from disk.
func (f *File) LoadSubscribers() (*Subscribers, error) {
	s := &Subscribers{}
	if err := readJSON(f.subscribersPath, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSubscribers writes the subscriber set to disk.
func (f *File) SaveSubscribers(s *Subscribers) error {
	return writeJSON(f.subscribersPath, s)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes via a temp file and rename, so a killed run never
// leaves a half-written record behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
