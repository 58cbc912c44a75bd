package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner scans a directory for report files
type Scanner struct {
	pattern  string
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner matching base names against pattern and
// skipping the given directory names
func NewScanner(pattern string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{pattern: pattern, skipDirs: skipMap}
}

// Scan finds all report files under root, sorted by path
func (s *Scanner) Scan(root string) ([]string, error) {
	var reports []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("report path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("report path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		matched, err := filepath.Match(s.pattern, d.Name())
		if err != nil {
			return fmt.Errorf("report pattern %q: %w", s.pattern, err)
		}
		if matched {
			reports = append(reports, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(reports)
	return reports, nil
}
