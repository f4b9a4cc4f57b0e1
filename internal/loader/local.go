package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// openFile opens a definition on disk. Directories are rejected so the error
// names the path instead of surfacing a read syscall failure.
func openFile(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("formdef loader: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("formdef loader: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("formdef loader: %w", err)
	}
	return regular(file, path)
}

// openFS opens name from files using slash-separated fs.FS paths.
func openFS(files fs.FS, name string) (io.ReadCloser, error) {
	switch {
	case name == "":
		return nil, errors.New("formdef loader: fs path is required")
	case files == nil:
		return nil, errors.New("formdef loader: fs is nil")
	case !fs.ValidPath(name):
		return nil, fmt.Errorf("formdef loader: invalid fs path %q", name)
	}
	file, err := files.Open(name)
	if err != nil {
		return nil, fmt.Errorf("formdef loader: %w", err)
	}
	return regular(file, name)
}

// regular hands back file as a reader unless it is a directory.
func regular(file fs.File, name string) (io.ReadCloser, error) {
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("formdef loader: stat %s: %w", name, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("formdef loader: %s is a directory", name)
	}
	return file, nil
}
