package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags.
var version string = "dev"

// newRootCmd builds the codedump command with its own viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "codedump",
		Short: "Dump a project's source files into a single Markdown document.",
		Long: `codedump walks a project root, keeps source files with an allowed extension
outside excluded directories, and writes them all into one Markdown document with a
fenced, language-tagged section per file.

The root defaults to the parent of the directory containing the executable.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}

			log := NewConsoleLogger(cmd.OutOrStdout(), opts.LogLevel)
			if opts.ConfigFile != "" {
				log.Debugf("Using config file: %s", opts.ConfigFile)
			}

			_, err = run(opts, log, cmd.OutOrStdout())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is ./codedump.yaml or $HOME/.config/codedump/codedump.yaml)")

	flags.StringP("root", "r", "", "Project root to scan (default: parent of the executable's directory)")
	v.BindPFlag("root", flags.Lookup("root"))
	flags.StringP("output", "o", "", "Output document, relative paths resolve against the root (default: <root>/"+defaultOutputName+")")
	v.BindPFlag("output", flags.Lookup("output"))
	flags.Bool("gitignore", false, "Also skip files matched by the root .gitignore")
	v.BindPFlag("gitignore", flags.Lookup("gitignore"))

	// Token Counting
	flags.Bool("tokens", false, "Report a token count for the dumped content")
	v.BindPFlag("tokens", flags.Lookup("tokens"))
	flags.String("tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	v.BindPFlag("tokenizer", flags.Lookup("tokenizer"))
	flags.String("model", "", "Model name for tokenizer (e.g., gpt-4o, gpt2)")
	v.BindPFlag("model", flags.Lookup("model"))
	flags.String("tokenizer-file", "", "Path to local tokenizer file")
	v.BindPFlag("tokenizer_file", flags.Lookup("tokenizer-file"))

	// Side outputs
	flags.String("manifest", "", "Also write a YAML manifest of the dumped files to this path")
	v.BindPFlag("manifest", flags.Lookup("manifest"))
	flags.Bool("tree", false, "Print a tree of the dumped files")
	v.BindPFlag("tree", flags.Lookup("tree"))
	flags.BoolP("clipboard", "c", false, "Copy the finished document to the clipboard")
	v.BindPFlag("clipboard", flags.Lookup("clipboard"))

	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	v.BindPFlag("log_level", flags.Lookup("log-level"))

	setDefaults(v)
	return cmd
}

// run performs one dump: collect, format and write, then the optional reports.
func run(opts Options, log *ConsoleLogger, stdout io.Writer) (Summary, error) {
	skip := []string{opts.Output}
	if opts.Manifest != "" {
		skip = append(skip, opts.Manifest)
	}

	log.Infof("🔍 Scanning project files...")
	entries, err := collectFiles(opts.Root, CollectOptions{
		Exclusions: defaultExclusions(),
		SkipPaths:  skip,
		Gitignore:  opts.Gitignore,
		Log:        log,
	})
	if err != nil {
		return Summary{}, err
	}
	log.Infof("📄 Found %d files.", len(entries))

	var visits []func(*Section)
	if opts.Tokens {
		tk, err := getTokenizer(opts.Tokenizer, log)
		if err != nil {
			log.Warnf("Error initializing tokenizer: %v", err)
			log.Warnf("Token counting disabled due to error.")
		} else {
			defer tk.Close()
			visits = append(visits, countSectionTokens(tk))
		}
	}

	var manifest *Manifest
	if opts.Manifest != "" {
		manifest = &Manifest{Root: opts.Root, GeneratedAt: time.Now().UTC()}
		visits = append(visits, manifest.recorder())
	}

	visits = append(visits, func(s *Section) {
		if s.Err != nil {
			log.Warnf("Could not read %s: %v", s.Entry.RelPath, s.Err)
		}
	})

	log.Infof("✍️ Writing to %s...", filepath.Base(opts.Output))
	summary, err := writeDocument(opts.Output, opts.Root, entries, chainVisits(visits))
	if err != nil {
		return summary, err
	}
	log.Successf("✅ Full markdown dump complete!")

	if opts.Tokens && summary.TotalTokens > 0 {
		log.Infof("Total tokens: %d", summary.TotalTokens)
	}
	if summary.ReadErrors > 0 {
		log.Warnf("Files that could not be read: %d", summary.ReadErrors)
	}

	if manifest != nil {
		manifest.finish(summary)
		if err := writeManifest(opts.Manifest, manifest); err != nil {
			log.Warnf("Error writing manifest: %v", err)
		} else {
			log.Infof("Manifest saved to %s", opts.Manifest)
		}
	}

	if opts.Tree {
		fmt.Fprint(stdout, printTree(buildTree(entries, filepath.Base(opts.Root))))
	}

	if opts.Clipboard {
		if err := copyToClipboard(opts.Output); err != nil {
			log.Warnf("Error writing to clipboard: %v", err)
		} else {
			log.Infof("Output copied to clipboard.")
		}
	}

	return summary, nil
}

// chainVisits runs each visit in order on the same section.
func chainVisits(visits []func(*Section)) func(*Section) {
	return func(s *Section) {
		for _, visit := range visits {
			visit(s)
		}
	}
}

func copyToClipboard(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return clipboard.WriteAll(string(data))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
