package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// ErrRootNotDirectory is returned when the scan root exists but is not a directory.
var ErrRootNotDirectory = errors.New("root is not a directory")

// CollectOptions tunes a single collection run.
type CollectOptions struct {
	Exclusions ExclusionConfig
	SkipPaths  []string // Absolute paths never collected, e.g. the output document
	Gitignore  bool     // Also drop files matched by the root .gitignore
	Log        *ConsoleLogger
}

// collectFiles walks root and returns every file passing the inclusion filter,
// sorted segment by segment on the relative path.
func collectFiles(root string, opts CollectOptions) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrRootNotDirectory)
	}

	// WalkDir does not descend into a symlinked root, so resolve it first.
	root, err = resolvePath(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving root %s: %w", root, err)
	}

	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		if resolved, err := resolvePath(p); err == nil {
			skip[resolved] = struct{}{}
		}
	}

	var ignoreMatcher gitignore.IgnoreMatcher
	if opts.Gitignore {
		matcher, err := loadGitignore(root)
		if err != nil {
			opts.Log.Warnf("Could not parse .gitignore, ignoring it: %v", err)
		}
		ignoreMatcher = matcher
	}

	var files []FileEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		slashRel := filepath.ToSlash(relPath)

		if d.IsDir() {
			if opts.Exclusions.isExcludedDir(d.Name()) {
				return fs.SkipDir
			}
			if ignoreMatcher != nil && ignoreMatcher.Match(path, true) {
				return fs.SkipDir
			}
			return nil
		}

		if !opts.Exclusions.includes(slashRel) {
			return nil
		}
		if _, ok := skip[path]; ok {
			return nil
		}
		if ignoreMatcher != nil && ignoreMatcher.Match(path, false) {
			return nil
		}

		info, ok, err := regularFileInfo(path, d)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		files = append(files, FileEntry{
			Path:    path,
			RelPath: slashRel,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}

	slices.SortFunc(files, func(a, b FileEntry) int {
		return comparePaths(a.RelPath, b.RelPath)
	})
	return files, nil
}

// regularFileInfo resolves d to a regular file. Symlinks are followed one
// level with os.Stat; anything that does not end at a regular file is skipped.
func regularFileInfo(path string, d fs.DirEntry) (fs.FileInfo, bool, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			// Dangling link
			return nil, false, nil
		}
		return info, info.Mode().IsRegular(), nil
	}
	if !d.Type().IsRegular() {
		return nil, false, nil
	}
	info, err := d.Info()
	if err != nil {
		return nil, false, fmt.Errorf("could not get info for %s: %w", path, err)
	}
	return info, true, nil
}

// resolvePath makes path absolute and resolves symlinks in its directory part.
// The final element may not exist yet.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return abs, nil
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}

// loadGitignore reads root/.gitignore if present. A missing file yields a nil
// matcher and no error.
func loadGitignore(root string) (gitignore.IgnoreMatcher, error) {
	gitIgnorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); err != nil {
		return nil, nil
	}
	matcher, err := gitignore.NewGitIgnore(gitIgnorePath, root)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", gitIgnorePath, err)
	}
	return matcher, nil
}

// splitSegments splits a slash-separated relative path into its components.
func splitSegments(relPath string) []string {
	relPath = strings.Trim(relPath, "/")
	if relPath == "" || relPath == "." {
		return nil
	}
	return strings.Split(relPath, "/")
}

// comparePaths orders slash-separated paths component by component, so
// "a/b" sorts before "a-b" even though '-' < '/' bytewise.
func comparePaths(a, b string) int {
	return slices.Compare(splitSegments(a), splitSegments(b))
}
