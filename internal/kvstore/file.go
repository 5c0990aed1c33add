package kvstore

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File persists each key as a file under dir. Write failures are logged
// and swallowed so a read-only or missing volume never breaks callers.
type File struct {
	mu     sync.Mutex
	dir    string
	logger *log.Logger
}

func NewFile(dir string, logger *log.Logger) *File {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Printf("kvstore: create dir %s: %v", dir, err)
	}
	return &File{dir: dir, logger: logger}
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Printf("kvstore: read %s: %v", key, err)
		}
		return "", false
	}
	return string(data), true
}

func (f *File) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		f.logger.Printf("kvstore: write %s: %v", key, err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		f.logger.Printf("kvstore: rename %s: %v", key, err)
	}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, sanitize(key)+".json")
}

// sanitize keeps keys filesystem-safe.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
