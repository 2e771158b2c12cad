package parser

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// ParseFile is the extraction core's sole public operation (§4.4, §6). It
// validates the input, enforces the size cap and time budget, borrows a
// parser handle, walks the tree, dispatches to the matching per-language
// extractor, and returns an aggregated ParseResult.
//
// The returned error is always an *ExtractionError for the three
// contractual failure modes (LanguageNotSupported, FileTooLarge,
// ParseTimeout); a nil tree or a caught per-node extraction failure is
// instead recorded inside the returned ParseResult's Errors slice per §7.
func ParseFile(ctx context.Context, registry *LanguageRegistry, content []byte, path string, opts Options) (*ParseResult, error) {
	start := time.Now()

	size := int64(len(content))
	if size > opts.MaxFileSizeBytes {
		return nil, NewFileTooLargeError(path, size, opts.MaxFileSizeBytes)
	}

	ext := filepath.Ext(path)
	lang, ok := registry.LanguageOf(ext)
	if !ok {
		return nil, NewLanguageNotSupportedError(path, ext)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.ParseTimeout)
	defer cancel()

	type outcome struct {
		result *ParseResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := extractOne(registry, lang, content, path, opts, start)
		done <- outcome{res, err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-timeoutCtx.Done():
		log.Printf("parse_file timeout path=%s language=%s timeout_ms=%d", path, lang, opts.ParseTimeout.Milliseconds())
		return nil, NewParseTimeoutError(path, opts.ParseTimeout.Milliseconds())
	}
}

// extractOne performs the actual borrow-parse-walk-extract sequence for one
// file. It always releases its parser handle before returning, on every
// exit path (§3.4, §5).
func extractOne(registry *LanguageRegistry, lang Language, content []byte, path string, opts Options, start time.Time) (*ParseResult, error) {
	handle, err := registry.AcquireParser(lang)
	if err != nil {
		return nil, &ExtractionError{Code: CodeParseFailed, Path: path, Message: err.Error(), Cause: ErrParseFailed}
	}
	defer handle.Release()

	result := emptyResult(path, lang)

	tree := parseTree(handle, content)
	if tree == nil {
		result.Errors = append(result.Errors, ParseError{
			Message:     "Failed to parse file: parser returned null",
			Recoverable: false,
		})
		result.Success = false
		result.stamp(start)
		logSummary(result)
		return result, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	result.Errors = append(result.Errors, collectSyntaxErrors(root)...)

	extractor := extractorFor(lang)
	if extractor == nil {
		result.Errors = append(result.Errors, ParseError{
			Message:     "no extractor registered for language",
			Recoverable: false,
		})
		result.Success = false
		result.stamp(start)
		logSummary(result)
		return result, nil
	}

	ectx := &extractCtx{root: root, content: content, path: path, opts: opts}

	result.Entities = safeEntities(extractor, ectx, result)
	result.Imports = safeImports(extractor, ectx, result)
	result.Exports = safeExports(extractor, ectx, result)
	result.Calls = safeCalls(extractor, ectx, result)

	result.Success = true
	result.stamp(start)
	logSummary(result)
	return result, nil
}

// safeEntities, safeImports, safeExports and safeCalls recover a panicking
// extractor stage per §7 ("an extractor raised on a single node... captured
// as a recoverable ParseError, never aborts the file") and record a
// recoverable ParseError instead of failing the whole call.
func safeEntities(e Extractor, ctx *extractCtx, result *ParseResult) (out []CodeEntity) {
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, extractionFailure("entities", r))
		}
	}()
	return e.Entities(ctx)
}

func safeImports(e Extractor, ctx *extractCtx, result *ParseResult) (out []ImportInfo) {
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, extractionFailure("imports", r))
		}
	}()
	return e.Imports(ctx)
}

func safeExports(e Extractor, ctx *extractCtx, result *ParseResult) (out []ExportInfo) {
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, extractionFailure("exports", r))
		}
	}()
	return e.Exports(ctx)
}

func safeCalls(e Extractor, ctx *extractCtx, result *ParseResult) (out []CallInfo) {
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, extractionFailure("calls", r))
		}
	}()
	return e.Calls(ctx)
}

func extractionFailure(stage string, r any) ParseError {
	log.Printf("Warning: %s extraction failed: %v", stage, r)
	return ParseError{
		Message:     "extraction failed: " + stage,
		Recoverable: true,
	}
}

// logSummary emits the single structured observability record required by
// §6 for every parse_file call.
func logSummary(r *ParseResult) {
	log.Printf(
		"parse_file path=%s language=%s entities=%d imports=%d exports=%d calls=%d errors=%d duration_ms=%.3f success=%t",
		r.Path, r.Language, len(r.Entities), len(r.Imports), len(r.Exports), len(r.Calls), len(r.Errors), r.ParseTimeMs, r.Success,
	)
}

// WarmUp preloads every registered grammar concurrently. It is not part of
// the spec's contract but lets a caller pay grammar-load latency once at
// startup instead of on a request's critical path; grounded on the
// teacher's errgroup-based concurrency idiom (internal/index/builder.go).
func (r *LanguageRegistry) WarmUp(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for lang := range r.grammars {
		lang := lang
		g.Go(func() error {
			_, err := r.grammar(lang)
			return err
		})
	}
	return g.Wait()
}
