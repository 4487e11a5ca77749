// Package northstar manages NORTHSTAR.md, a project-local goals document
// that drives long-horizon improvement runs.
package northstar

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the goals document at the project root.
const FileName = "NORTHSTAR.md"

var (
	ErrExists   = errors.New(FileName + " already exists")
	ErrNotFound = errors.New(FileName + " not found")
	ErrEmpty    = errors.New(FileName + " is empty")
)

// Path returns the goals document path for a project directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Init writes the default template to the project directory and returns its path.
func Init(dir string) (string, error) {
	path := Path(dir)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return path, fmt.Errorf("%w at %s", ErrExists, path)
		}
		return path, fmt.Errorf("failed to create %s: %w", FileName, err)
	}
	if _, err := f.WriteString(Template); err != nil {
		f.Close()
		return path, fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return path, nil
}

// Prompt reads the goals document and returns the assistant prompt built from it.
func Prompt(dir string) (string, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
		}
		return "", fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", ErrEmpty
	}
	return fmt.Sprintf(promptFormat, content), nil
}
