package main

// FileEntry is a file under the root that passed every collection filter.
type FileEntry struct {
	Path    string // Absolute path on disk
	RelPath string // Slash-separated path relative to the root, used as the section label
	Size    int64
}

// Section is the rendered block for one FileEntry.
type Section struct {
	Entry      FileEntry
	Language   string
	Content    string // File text, or the "Error reading file" diagnostic
	Text       string // Full rendered section as written to the document
	TokenCount int    // Populated if token counting is enabled
	Err        error  // Read error substituted into Content, if any
}

// Summary holds aggregated information about a finished dump.
type Summary struct {
	TotalFiles  int
	TotalSize   int64
	TotalTokens int
	ReadErrors  int
	Output      string
}
