// Package audit drives a reasoning model over a file or directory and hands
// the remediation instructions it returns to a coding assistant.
package audit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extensions are the source file types collected from a directory, in the
// order their contents are emitted.
var Extensions = []string{".py", ".js", ".ts", ".tsx", ".jsx", ".java", ".go", ".rs", ".c", ".cpp", ".h"}

// Sentinels returned in place of content.
const (
	NoReadableFiles = "[No readable files found]"
	TargetNotFound  = "[Target not found]"
)

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// ReadTarget returns the text to audit. A file is returned as is. A directory
// yields every source file below it as "=== <relative path> ===" sections,
// grouped by extension.
func ReadTarget(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return TargetNotFound
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("[Error reading %s: %v]", path, err)
		}
		return string(data)
	}

	byExt := make(map[string][]string, len(Extensions))
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && p != path {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != path && skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(p)
		byExt[ext] = append(byExt[ext], p)
		return nil
	})

	var sections []string
	for _, ext := range Extensions {
		for _, p := range byExt[ext] {
			data, err := os.ReadFile(p)
			if err != nil {
				continue
			}
			rel, err := filepath.Rel(path, p)
			if err != nil {
				rel = p
			}
			sections = append(sections, fmt.Sprintf("=== %s ===\n%s\n", filepath.ToSlash(rel), data))
		}
	}
	if len(sections) == 0 {
		return NoReadableFiles
	}
	return strings.Join(sections, "\n")
}
