package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/73ai/code-context/internal/cache"
	"github.com/73ai/code-context/internal/output"
	"github.com/73ai/code-context/internal/parser"
)

func runExtract(cmd *cobra.Command, args []string) error {
	opts := parser.DefaultOptions()
	opts.MaxFileSizeBytes = int64(config.MaxFileSizeMB) << 20
	opts.ParseTimeout = time.Duration(config.TimeoutMs) * time.Millisecond
	opts.IncludeAnonymous = config.IncludeAnonymous
	opts.ExtractDocumentation = !config.NoDocumentation

	registry := parser.NewLanguageRegistry()

	var resultCache *cache.Cache
	if !config.NoCache {
		c, err := cache.Open(cache.DefaultOptions(config.CacheDir))
		if err != nil {
			return fmt.Errorf("failed to open result cache: %w", err)
		}
		defer c.Close()
		resultCache = c
	}

	format := output.FormatText
	if config.JSON {
		format = output.FormatJSON
	}
	formatter := output.NewFormatter(os.Stdout, output.FormatterConfig{
		Format:     format,
		Pretty:     config.Pretty,
		ShowColors: config.Color,
	})

	var failed bool
	for _, path := range config.Paths {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "codeextract: %s: %v\n", path, err)
			failed = true
			continue
		}

		result, err := extractOne(cmd.Context(), registry, resultCache, content, path, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "codeextract: %s: %v\n", path, err)
			failed = true
			continue
		}

		if err := formatter.Format(result); err != nil {
			return fmt.Errorf("failed to write output for %s: %w", path, err)
		}
	}

	if err := formatter.Flush(); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("one or more files failed to extract")
	}
	return nil
}

// extractOne routes a single file through the cache when enabled, falling
// back to a direct parser.ParseFile call otherwise.
func extractOne(ctx context.Context, registry *parser.LanguageRegistry, c *cache.Cache, content []byte, path string, opts parser.Options) (*parser.ParseResult, error) {
	if c != nil {
		return c.ParseFile(ctx, registry, content, path, opts)
	}
	return parser.ParseFile(ctx, registry, content, path, opts)
}
