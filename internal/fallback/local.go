package fallback

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("key not found")

// keys are used as file names
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// Local is a key-value store keeping one file per key under basePath.
type Local struct {
	maxFileSize int // Maximum number of bytes for a value
	basePath    string
}

// maxBytesWriter is a writer that errors when more than N bytes are written
type maxBytesWriter struct {
	w io.Writer // underlying writer
	n int       // max bytes remaining
}

func (l *maxBytesWriter) Write(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, errValueTooLarge
	}
	if len(p) > l.n {
		n, err := l.w.Write(p[:l.n])
		l.n -= n
		if err != nil {
			return n, err
		}
		return n, errValueTooLarge
	}
	n, err := l.w.Write(p)
	l.n -= n
	return n, err
}

var errValueTooLarge = errors.New("value exceeds maximum size")

// NewLocal creates a new Local store with the given base path
// basePath is the directory the values are saved to
// maxSize is the max number of bytes that a value can be
func NewLocal(basePath string, maxSize int) (*Local, error) {
	p, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create directory: %w", err)
	}

	return &Local{basePath: p, maxFileSize: maxSize}, nil
}

// Save replaces the value stored under key. The value is written to a
// temporary file first so readers never see a partial write.
func (l *Local) Save(key string, contents io.Reader) error {
	fp, err := l.fullPath(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(fp)

	// Create a temporary file in the same directory
	tempFile, err := os.CreateTemp(dir, "temp-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	// Ensure the temporary file is deleted if the function returns early
	defer os.Remove(tempPath)

	writer := &maxBytesWriter{w: tempFile, n: l.maxFileSize}
	if _, err := io.Copy(writer, contents); err != nil {
		tempFile.Close()
		if errors.Is(err, errValueTooLarge) {
			return fmt.Errorf("value size exceeds maximum allowed size of %d bytes", l.maxFileSize)
		}
		return fmt.Errorf("unable to write to file: %w", err)
	}

	if err = tempFile.Close(); err != nil {
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	// Move the temporary file to the final location
	if err := os.Rename(tempPath, fp); err != nil {
		return fmt.Errorf("unable to move temporary file to final location: %w", err)
	}

	return nil
}

// Get returns the value stored under key.
func (l *Local) Get(key string) ([]byte, error) {
	fp, err := l.fullPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fp)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read the file: %w", err)
	}
	return data, nil
}

// returns the absolute full path for a key
func (l *Local) fullPath(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.basePath, key+".json"), nil
}
