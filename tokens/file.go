package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileKV keeps values in a single JSON document on disk. Every write
// rewrites the whole file through a temp file + rename.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV returns a KV persisted at path. The file is created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("token file unreadable")
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (f *FileKV) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		// a corrupt file is replaced rather than left blocking every write
		log.Warn().Err(err).Str("path", f.path).Msg("token file unreadable, rewriting")
		values = map[string]string{}
	}
	values[key] = value
	if err := f.save(values); err != nil {
		log.Error().Err(err).Str("path", f.path).Msg("failed to write token file")
	}
}

func (f *FileKV) Delete(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		values = map[string]string{}
	}
	for _, k := range keys {
		delete(values, k)
	}
	if err := f.save(values); err != nil {
		log.Error().Err(err).Str("path", f.path).Msg("failed to write token file")
	}
}

func (f *FileKV) load() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[FileKV load] read: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("[FileKV load] decode: %w", err)
	}
	return values, nil
}

func (f *FileKV) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("[FileKV save] mkdir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("[FileKV save] encode: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("[FileKV save] write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("[FileKV save] rename: %w", err)
	}
	return nil
}
