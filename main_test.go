package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func scenarioRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/app.py":          "print(1)",
		"node_modules/lib.js": "anything",
		"notes.md":            "hello",
		"package-lock.json":   "{}",
	})
	return root
}

func testOptions(root string) Options {
	return Options{
		Root:   root,
		Output: filepath.Join(root, defaultOutputName),
	}
}

func TestRun_Idempotent(t *testing.T) {
	root := scenarioRoot(t)
	opts := testOptions(root)
	var logs bytes.Buffer
	log := NewConsoleLogger(&logs, "info")

	_, err := run(opts, log, &bytes.Buffer{})
	require.NoError(t, err)
	first, err := os.ReadFile(opts.Output)
	require.NoError(t, err)

	_, err = run(opts, log, &bytes.Buffer{})
	require.NoError(t, err)
	second, err := os.ReadFile(opts.Output)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.NotContains(t, string(second), defaultOutputName)
	assert.Contains(t, logs.String(), "Found 2 files.")
	assert.Contains(t, logs.String(), "Full markdown dump complete!")
	assert.NotContains(t, logs.String(), "Warning: ")
}

func TestRun_RootMissing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	_, err := run(testOptions(root), NewConsoleLogger(nil, "info"), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_TreeAndManifest(t *testing.T) {
	root := scenarioRoot(t)
	opts := testOptions(root)
	opts.Tree = true
	opts.Manifest = filepath.Join(root, "dump.manifest.json")

	var stdout bytes.Buffer
	summary, err := run(opts, NewConsoleLogger(nil, "info"), &stdout)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalFiles)

	base := filepath.Base(root)
	assert.Equal(t, base+"\n├── notes.md\n└── src\n    └── app.py\n", stdout.String())

	data, err := os.ReadFile(opts.Manifest)
	require.NoError(t, err)

	var manifest Manifest
	require.NoError(t, yaml.Unmarshal(data, &manifest))
	assert.Equal(t, root, manifest.Root)
	assert.Equal(t, opts.Output, manifest.Output)
	assert.Equal(t, 2, manifest.Summary.Files)
	require.Len(t, manifest.Files, 2)
	assert.Equal(t, "notes.md", manifest.Files[0].Path)
	assert.Equal(t, "md", manifest.Files[0].Language)
	assert.Equal(t, int64(5), manifest.Files[0].Size)
	assert.Equal(t, "src/app.py", manifest.Files[1].Path)
	assert.Empty(t, manifest.Files[1].Error)

	// The manifest has an allowed extension but must not feed the next dump.
	_, err = run(opts, NewConsoleLogger(nil, "info"), &bytes.Buffer{})
	require.NoError(t, err)
	doc, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "dump.manifest.json")
}

func TestRootCmd_Flags(t *testing.T) {
	root := scenarioRoot(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--root", root, "--output", "custom.md", "--tree"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(root, "custom.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), documentTitle))
	assert.Contains(t, string(data), "### `src/app.py`")
	assert.Contains(t, out.String(), "└── src")

	_, err = os.Stat(filepath.Join(root, defaultOutputName))
	assert.True(t, os.IsNotExist(err))
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"some/path"})
	assert.Error(t, cmd.Execute())
}

func TestRootCmd_ConfigFileAndEnv(t *testing.T) {
	root := scenarioRoot(t)
	cfgPath := filepath.Join(t.TempDir(), "codedump.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("root: "+root+"\noutput: from_config.md\n"), 0644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath})
	require.NoError(t, cmd.Execute())
	_, err := os.Stat(filepath.Join(root, "from_config.md"))
	require.NoError(t, err)

	t.Setenv("CODEDUMP_OUTPUT", "from_env.md")
	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath})
	require.NoError(t, cmd.Execute())
	_, err = os.Stat(filepath.Join(root, "from_env.md"))
	require.NoError(t, err)
}

func TestRun_ReporterFailuresOnlyWarn(t *testing.T) {
	root := scenarioRoot(t)
	opts := testOptions(root)
	opts.Tokens = true
	opts.Tokenizer = TokenizerOptions{Type: "bogus"}
	opts.Manifest = filepath.Join(root, "no", "dir", "manifest.yaml")

	var logs bytes.Buffer
	summary, err := run(opts, NewConsoleLogger(&logs, "info"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Zero(t, summary.TotalTokens)

	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "### `notes.md`\n```md\nhello\n```\n")
	assert.Contains(t, string(data), "### `src/app.py`\n```py\nprint(1)\n```\n")

	assert.Contains(t, logs.String(), "Error initializing tokenizer: unsupported tokenizer type: bogus")
	assert.Contains(t, logs.String(), "Token counting disabled due to error.")
	assert.Contains(t, logs.String(), "Error writing manifest:")
	assert.Contains(t, logs.String(), "Full markdown dump complete!")
	assert.NotContains(t, logs.String(), "Warning: ")

	_, err = os.Stat(opts.Manifest)
	assert.True(t, os.IsNotExist(err))
}
