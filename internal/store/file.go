package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// File is a KV backed by a msgpack-encoded map on disk. Writes go to a
// temporary file that is renamed over the target, so readers never see a
// partial write.
type File struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// NewFile creates a file store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// UserPath returns the msgpack save file for user under dir. Anything but letters,
// digits, '-' and '_' is replaced so a username can never escape dir.
func UserPath(dir, user string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, user)
	if name == "" {
		name = "_"
	}
	return filepath.Join(dir, name+".msgpack")
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key. A missing or undecodable file
// reads as empty.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// SetAll merges values into the file contents and writes them atomically.
func (f *File) SetAll(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	current, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}

	data, err := msgpack.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Close rejects further writes.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// read loads the map from disk. Caller holds f.mu.
func (f *File) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}

	if err := msgpack.Unmarshal(data, &values); err != nil {
		// A corrupt save is treated like a missing one.
		return make(map[string]string), nil
	}
	return values, nil
}
