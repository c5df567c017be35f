package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional YAML companion to a dump, listing what went into it.
type Manifest struct {
	Root        string          `yaml:"root"`
	Output      string          `yaml:"output"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Summary     ManifestSummary `yaml:"summary"`
	Files       []ManifestFile  `yaml:"files"`
}

type ManifestSummary struct {
	Files      int   `yaml:"files"`
	Bytes      int64 `yaml:"bytes"`
	Tokens     int   `yaml:"tokens,omitempty"`
	ReadErrors int   `yaml:"read_errors"`
}

type ManifestFile struct {
	Path     string `yaml:"path"`
	Language string `yaml:"language"`
	Size     int64  `yaml:"size"`
	Tokens   int    `yaml:"tokens,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// recorder returns a visit func appending each section to m.Files.
func (m *Manifest) recorder() func(*Section) {
	return func(s *Section) {
		file := ManifestFile{
			Path:     s.Entry.RelPath,
			Language: s.Language,
			Size:     s.Entry.Size,
			Tokens:   s.TokenCount,
		}
		if s.Err != nil {
			file.Error = s.Err.Error()
		}
		m.Files = append(m.Files, file)
	}
}

// finish copies the final summary into the manifest.
func (m *Manifest) finish(summary Summary) {
	m.Output = summary.Output
	m.Summary = ManifestSummary{
		Files:      summary.TotalFiles,
		Bytes:      summary.TotalSize,
		Tokens:     summary.TotalTokens,
		ReadErrors: summary.ReadErrors,
	}
}

// writeManifest marshals m as YAML to path.
func writeManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, outputPermissions); err != nil {
		return fmt.Errorf("error writing manifest %s: %w", path, err)
	}
	return nil
}
