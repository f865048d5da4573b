package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StorageError wraps storage errors with operation and document context.
type StorageError struct {
	Op   string // "read", "write", "update"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// readDocument returns the file content, or (nil, false, nil) when the file does not exist.
func readDocument(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StorageError{Op: "read", Path: path, Err: err}
	}
	return data, true, nil
}

// writeAtomic replaces path with data using a temp file and rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "write", Path: path, Err: fmt.Errorf("create directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, ".focus-*.tmp")
	if err != nil {
		return &StorageError{Op: "write", Path: path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: path, Err: fmt.Errorf("sync: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: path, Err: fmt.Errorf("close: %w", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: path, Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}

// quarantine moves a damaged document out of the way before it is replaced.
func quarantine(path string) (string, error) {
	dest := path + ".corrupt"
	if err := os.Rename(path, dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", &StorageError{Op: "update", Path: path, Err: err}
	}
	return dest, nil
}
