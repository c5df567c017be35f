package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	documentTitle     = "# 📦 Full Codebase Dump\n"
	defaultOutputName = "full_codebase_dump.md"
	readErrorPrefix   = "Error reading file: "
	sectionRule       = "\n---\n"
	outputPermissions = 0644
	tempOutputPattern = ".codedump-*.tmp"
)

// readText reads a whole file as UTF-8 text with universal newlines.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid UTF-8 in %s at byte %d", path, firstInvalidByte(data))
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

func firstInvalidByte(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}

// formatSection renders one file. A read failure never fails the section:
// the diagnostic replaces the content and is recorded in Section.Err.
func formatSection(entry FileEntry, root string) Section {
	label := entry.RelPath
	if label == "" {
		if rel, err := filepath.Rel(root, entry.Path); err == nil {
			label = filepath.ToSlash(rel)
		} else {
			label = filepath.ToSlash(entry.Path)
		}
	}

	section := Section{
		Entry:    entry,
		Language: languageTag(entry.Path),
	}

	content, err := readText(entry.Path)
	if err != nil {
		section.Err = err
		content = readErrorPrefix + err.Error()
	}
	section.Content = content

	var builder strings.Builder
	builder.WriteString(sectionRule)
	builder.WriteString("### `")
	builder.WriteString(label)
	builder.WriteString("`\n```")
	builder.WriteString(section.Language)
	builder.WriteString("\n")
	builder.WriteString(content)
	builder.WriteString("\n```\n")
	section.Text = builder.String()

	return section
}

// writeDocument formats every entry into the document at outputPath. The
// document is streamed into a temp file beside the target and renamed over it
// once the last section is written, so a failed run leaves any prior document
// untouched. visit, if non-nil, sees each section after it is written.
func writeDocument(outputPath, root string, entries []FileEntry, visit func(*Section)) (Summary, error) {
	summary := Summary{Output: outputPath}

	// Write through a symlinked document and keep an existing file's mode.
	target := outputPath
	if resolved, err := filepath.EvalSymlinks(outputPath); err == nil {
		target = resolved
	}
	mode := os.FileMode(outputPermissions)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(target)
	tempFile, err := os.CreateTemp(dir, tempOutputPattern)
	if err != nil {
		return summary, fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tempPath := tempFile.Name()

	// Ensure temp file is cleaned up on error
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	w := bufio.NewWriter(tempFile)
	if _, err := w.WriteString(documentTitle); err != nil {
		return summary, fmt.Errorf("failed to write document title: %w", err)
	}

	for _, entry := range entries {
		section := formatSection(entry, root)
		if _, err := w.WriteString(section.Text); err != nil {
			return summary, fmt.Errorf("failed to write section for %s: %w", entry.RelPath, err)
		}

		summary.TotalFiles++
		summary.TotalSize += entry.Size
		if section.Err != nil {
			summary.ReadErrors++
		}
		if visit != nil {
			visit(&section)
			summary.TotalTokens += section.TokenCount
		}
	}

	if err := w.Flush(); err != nil {
		return summary, fmt.Errorf("failed to flush %s: %w", tempPath, err)
	}
	if err := tempFile.Sync(); err != nil {
		return summary, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return summary, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		return summary, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, target); err != nil {
		return summary, fmt.Errorf("failed to rename temp file to %s: %w", target, err)
	}

	// Renamed; nothing left to clean up
	tempFile = nil
	return summary, nil
}
