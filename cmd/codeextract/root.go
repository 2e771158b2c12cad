package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Config holds the command-line options for a single codeextract invocation.
type Config struct {
	Paths []string `json:"paths"`

	JSON   bool `json:"json"`
	Pretty bool `json:"pretty"`
	Color  bool `json:"color"`

	IncludeAnonymous bool `json:"include_anonymous"`
	NoDocumentation  bool `json:"no_documentation"`

	MaxFileSizeMB int `json:"max_file_size_mb"`
	TimeoutMs     int `json:"timeout_ms"`

	CacheDir string `json:"cache_dir"`
	NoCache  bool   `json:"no_cache"`
}

var config Config

var rootCmd = &cobra.Command{
	Use:   "codeextract [OPTIONS] FILE...",
	Short: "Extract entities, imports, exports, and calls from source files",
	Long: `codeextract parses one or more source files with tree-sitter and prints their
declarations, imports, exports, and call sites as structured records.

EXAMPLES:
    codeextract main.go
    codeextract --json --pretty src/app.ts src/util.ts
    codeextract --no-cache --include-anonymous handler.py`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("missing required argument: FILE")
		}
		config.Paths = args
		return nil
	},
	RunE: runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolVar(&config.JSON, "json", false, "Output results as JSON instead of text")
	rootCmd.Flags().BoolVar(&config.Pretty, "pretty", false, "Indent JSON output")
	rootCmd.Flags().BoolVar(&config.Color, "color", false, "Colorize text output")

	rootCmd.Flags().BoolVar(&config.IncludeAnonymous, "include-anonymous", false, "Include unnamed entities")
	rootCmd.Flags().BoolVar(&config.NoDocumentation, "no-documentation", false, "Skip doc-comment extraction")

	rootCmd.Flags().IntVar(&config.MaxFileSizeMB, "max-file-size-mb", 10, "Reject files larger than this many megabytes")
	rootCmd.Flags().IntVar(&config.TimeoutMs, "timeout-ms", 30000, "Per-file parse time budget in milliseconds")

	rootCmd.Flags().StringVar(&config.CacheDir, "cache-dir", "", "Badger cache directory (empty = in-memory cache)")
	rootCmd.Flags().BoolVar(&config.NoCache, "no-cache", false, "Disable the result cache")

	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	viper.SetConfigName(".codeextract")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")

	viper.SetEnvPrefix("CODEEXTRACT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
