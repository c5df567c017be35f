package main

// ExclusionConfig is the frozen filter set applied by the collector.
// Matching is exact and case-sensitive everywhere.
type ExclusionConfig struct {
	ExcludeDirs       map[string]struct{}
	ExcludeFiles      map[string]struct{}
	AllowedExtensions map[string]struct{}
}

var (
	defaultExcludeDirs = []string{"node_modules", "dist", "assets", ".git", ".vscode", "__pycache__"}

	defaultExcludeFiles = []string{"package-lock.json"}

	defaultAllowedExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".css", ".json", ".html", ".md", ".py"}
)

// defaultExclusions builds the compiled-in exclusion config.
func defaultExclusions() ExclusionConfig {
	return ExclusionConfig{
		ExcludeDirs:       toSet(defaultExcludeDirs),
		ExcludeFiles:      toSet(defaultExcludeFiles),
		AllowedExtensions: toSet(defaultAllowedExtensions),
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// isExcludedDir reports whether a single path segment names an excluded directory.
func (c ExclusionConfig) isExcludedDir(name string) bool {
	_, ok := c.ExcludeDirs[name]
	return ok
}

// isExcludedFile reports whether a base name is on the excluded file list.
func (c ExclusionConfig) isExcludedFile(name string) bool {
	_, ok := c.ExcludeFiles[name]
	return ok
}

// isAllowedExtension checks the suffix of name against the allow list.
func (c ExclusionConfig) isAllowedExtension(name string) bool {
	suffix := fileSuffix(name)
	if suffix == "" {
		return false
	}
	_, ok := c.AllowedExtensions[suffix]
	return ok
}

// hasExcludedSegment checks every segment of a slash-separated relative path.
func (c ExclusionConfig) hasExcludedSegment(relPath string) bool {
	for _, part := range splitSegments(relPath) {
		if c.isExcludedDir(part) {
			return true
		}
	}
	return false
}

// includes is the full inclusion predicate for a regular file, given its
// slash-separated path relative to the root.
func (c ExclusionConfig) includes(relPath string) bool {
	segments := splitSegments(relPath)
	if len(segments) == 0 {
		return false
	}
	name := segments[len(segments)-1]
	return c.isAllowedExtension(name) &&
		!c.hasExcludedSegment(relPath) &&
		!c.isExcludedFile(name)
}
