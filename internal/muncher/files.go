package muncher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExpandInput resolves one configured input to files: a plain file, a
// directory walked recursively for files ending in ext, or a glob pattern
// supporting ** for recursive matching. A plain path that does not exist is
// returned as is so the caller can report it.
func ExpandInput(input, ext string) ([]string, error) {
	if containsGlobChars(input) {
		return expandGlob(input, ext)
	}

	info, err := os.Stat(input)
	if err != nil {
		return []string{input}, nil
	}
	if info.IsDir() {
		return walkDir(input, ext)
	}
	return []string{input}, nil
}

func expandGlob(pattern, ext string) ([]string, error) {
	var results []string

	// Check if pattern contains **
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(filepath.ToSlash(pattern), "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		startDir := "."
		if prefix != "" {
			startDir = filepath.FromSlash(prefix)
		}

		err := filepath.WalkDir(startDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil // Skip errors
			}

			if suffix == "" {
				if hasExt(path, ext) {
					results = append(results, path)
				}
				return nil
			}

			// Match the filename or the path below the ** point
			matched, _ := filepath.Match(suffix, d.Name())
			if !matched {
				rel, _ := filepath.Rel(startDir, path)
				matched, _ = filepath.Match(suffix, filepath.ToSlash(rel))
			}
			if matched {
				results = append(results, path)
			}
			return nil
		})
		return results, err
	}

	// Standard glob without **
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if info.IsDir() {
			files, err := walkDir(match, ext)
			if err != nil {
				return nil, err
			}
			results = append(results, files...)
		} else {
			results = append(results, match)
		}
	}

	return results, nil
}

// walkDir lists files below dir ending in ext, in lexical order
func walkDir(dir, ext string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !d.IsDir() && hasExt(path, ext) {
			results = append(results, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return results, nil
}

func hasExt(path, ext string) bool {
	return ext == "" || strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext))
}

// containsGlobChars checks if a pattern contains glob special characters
func containsGlobChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// IsExcluded checks if a path matches any of the exclude patterns
func IsExcluded(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a pattern (supports * and **)
func matchPattern(path, pattern string) bool {
	// Normalize path separators
	path = filepath.ToSlash(filepath.Clean(path))
	pattern = filepath.ToSlash(pattern)

	// Handle ** recursive matching
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		if prefix != "" && !strings.HasPrefix(path, prefix+"/") {
			return false
		}
		if suffix == "" {
			return true
		}

		// Match against filename, then against the path tail
		if matched, _ := filepath.Match(suffix, filepath.Base(path)); matched {
			return true
		}
		return strings.HasSuffix(path, "/"+suffix)
	}

	// Standard glob matching
	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}

	// A bare directory name excludes everything below it
	if !containsGlobChars(pattern) {
		dir := strings.Trim(pattern, "/")
		if dir != "" && (strings.HasPrefix(path, dir+"/") || strings.Contains(path, "/"+dir+"/")) {
			return true
		}
	}

	// Also try matching against just the filename
	matched, _ := filepath.Match(pattern, filepath.Base(path))
	return matched
}

// ExpandInputs expands every input of a group and returns unique file paths
// in input order, skipping excluded files.
func ExpandInputs(inputs []string, ext string, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var results []string

	for _, input := range inputs {
		expanded, err := ExpandInput(input, ext)
		if err != nil {
			return nil, err
		}

		for _, path := range expanded {
			// Skip if excluded
			if IsExcluded(path, excludes) {
				continue
			}

			// Skip if already seen
			if seen[path] {
				continue
			}

			seen[path] = true
			results = append(results, path)
		}
	}

	return results, nil
}

// dropOutputs removes files that are outputs of other inputs in the list,
// so a directory walk never munches a previous run's results.
func dropOutputs(paths []string, suffix string) []string {
	if suffix == "" {
		return paths
	}

	inputs := make(map[string]bool, len(paths))
	for _, p := range paths {
		inputs[p] = true
	}

	var results []string
	for _, p := range paths {
		if strings.HasSuffix(p, suffix) && inputs[strings.TrimSuffix(p, suffix)] {
			continue
		}
		results = append(results, p)
	}
	return results
}
