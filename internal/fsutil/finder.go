// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StudyExtensions are the file extensions recognized as study documents.
var StudyExtensions = []string{".hcl", ".json", ".yaml", ".yml"}

// FindStudyFiles resolves a study path to the ordered list of document files
// it covers. A file path returns itself; a directory is searched recursively
// for files with a recognized extension, sorted for deterministic processing
// order.
func FindStudyFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasStudyExtension(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func hasStudyExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range StudyExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
