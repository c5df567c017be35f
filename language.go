package main

import (
	"path/filepath"
	"strings"
)

// fileSuffix returns the final dot-suffix of a file name, including the dot.
// A leading dot does not start a suffix (".gitignore" has none), and neither
// does a trailing one ("notes." has none).
func fileSuffix(name string) string {
	name = filepath.Base(name)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// languageTag derives the fence tag for a path: its suffix without the dot.
func languageTag(path string) string {
	return strings.TrimPrefix(fileSuffix(path), ".")
}
