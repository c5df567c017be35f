package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "CODEDUMP"

// Options is the resolved configuration for one run.
// Precedence: flag > CODEDUMP_* env > config file > default.
type Options struct {
	Root       string
	Output     string
	Gitignore  bool
	Tokens     bool
	Tokenizer  TokenizerOptions
	Manifest   string
	Tree       bool
	Clipboard  bool
	LogLevel   string
	ConfigFile string // Config file actually read, empty if none
}

// setDefaults registers the viper defaults. Root has no static default; it is
// derived from the executable location in loadOptions.
func setDefaults(v *viper.Viper) {
	v.SetDefault("root", "")
	v.SetDefault("output", "")
	v.SetDefault("gitignore", false)
	v.SetDefault("tokens", false)
	v.SetDefault("tokenizer", "tiktoken")
	v.SetDefault("model", "")
	v.SetDefault("tokenizer_file", "")
	v.SetDefault("manifest", "")
	v.SetDefault("tree", false)
	v.SetDefault("clipboard", false)
	v.SetDefault("log_level", "info")
}

// initConfig reads in a config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "codedump"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("codedump")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// loadOptions resolves Options from v.
func loadOptions(v *viper.Viper) (Options, error) {
	opts := Options{
		Root:      v.GetString("root"),
		Output:    v.GetString("output"),
		Gitignore: v.GetBool("gitignore"),
		Tokens:    v.GetBool("tokens"),
		Tokenizer: TokenizerOptions{
			Type:  v.GetString("tokenizer"),
			Model: v.GetString("model"),
			File:  v.GetString("tokenizer_file"),
		},
		Manifest:   v.GetString("manifest"),
		Tree:       v.GetBool("tree"),
		Clipboard:  v.GetBool("clipboard"),
		LogLevel:   v.GetString("log_level"),
		ConfigFile: v.ConfigFileUsed(),
	}

	if opts.Root == "" {
		root, err := defaultRoot()
		if err != nil {
			return opts, err
		}
		opts.Root = root
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return opts, fmt.Errorf("error resolving root %s: %w", opts.Root, err)
	}
	opts.Root = filepath.Clean(root)

	switch {
	case opts.Output == "":
		opts.Output = filepath.Join(opts.Root, defaultOutputName)
	case !filepath.IsAbs(opts.Output):
		opts.Output = filepath.Join(opts.Root, opts.Output)
	}

	if opts.Manifest != "" && !filepath.IsAbs(opts.Manifest) {
		opts.Manifest = filepath.Join(opts.Root, opts.Manifest)
	}

	return opts, nil
}

// defaultRoot is the parent of the directory holding the running executable.
func defaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("error locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}
