package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Sink receives generated files. Put must not be called after Close;
// Close is idempotent.
type Sink interface {
	Put(path string, content []byte) error
	Close() error
}

// FileSink writes generated files under a root directory, creating
// intermediate directories as needed.
type FileSink struct {
	root   string
	closed bool
}

func NewFileSink(root string) *FileSink {
	return &FileSink{root: root}
}

func (s *FileSink) Put(path string, content []byte) error {
	if s.closed {
		return fmt.Errorf("write %s: sink is closed", path)
	}
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create output directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *FileSink) Close() error {
	s.closed = true
	return nil
}

// BufferSink keeps generated files in memory. It backs tests and the
// dry-run mode of the CLI.
type BufferSink struct {
	files  map[string][]byte
	closed bool
}

func NewBufferSink() *BufferSink {
	return &BufferSink{files: make(map[string][]byte)}
}

func (s *BufferSink) Put(path string, content []byte) error {
	if s.closed {
		return fmt.Errorf("write %s: sink is closed", path)
	}
	s.files[path] = append([]byte(nil), content...)
	return nil
}

func (s *BufferSink) Close() error {
	s.closed = true
	return nil
}

// Files returns the stored content by path.
func (s *BufferSink) Files() map[string][]byte { return s.files }

// Paths returns the stored paths, sorted.
func (s *BufferSink) Paths() []string {
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
