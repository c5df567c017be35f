package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions_Defaults(t *testing.T) {
	root := t.TempDir()
	v := viper.New()
	setDefaults(v)
	v.Set("root", root)

	opts, err := loadOptions(v)
	require.NoError(t, err)
	assert.Equal(t, root, opts.Root)
	assert.Equal(t, filepath.Join(root, defaultOutputName), opts.Output)
	assert.Equal(t, "tiktoken", opts.Tokenizer.Type)
	assert.Equal(t, "info", opts.LogLevel)
	assert.False(t, opts.Tokens)
	assert.False(t, opts.Gitignore)
	assert.Empty(t, opts.Manifest)
}

func TestLoadOptions_PathResolution(t *testing.T) {
	root := t.TempDir()
	elsewhere := filepath.Join(t.TempDir(), "out.md")

	v := viper.New()
	setDefaults(v)
	v.Set("root", root)
	v.Set("output", elsewhere)
	v.Set("manifest", "dump.yaml")

	opts, err := loadOptions(v)
	require.NoError(t, err)
	assert.Equal(t, elsewhere, opts.Output)
	assert.Equal(t, filepath.Join(root, "dump.yaml"), opts.Manifest)
}

func TestLoadOptions_RootFromExecutable(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	opts, err := loadOptions(v)
	require.NoError(t, err)

	want, err := defaultRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(want), opts.Root)
}

func TestDefaultRoot(t *testing.T) {
	root, err := defaultRoot()
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	assert.Equal(t, filepath.Dir(filepath.Dir(exe)), root)
}

func TestInitConfig_MissingFileIsNotAnError(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, initConfig(v, ""))
	assert.Empty(t, v.ConfigFileUsed())
}

func TestInitConfig_BadFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "codedump.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("root: [unterminated\n"), 0644))

	v := viper.New()
	err := initConfig(v, cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
