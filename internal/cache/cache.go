// Package cache provides a content-addressed store for ParseResult values,
// keyed on the hash of a file's path, bytes, and the Options used to parse
// it. It lets a caller skip re-parsing unchanged input, which is safe
// because ParseFile is pure: the same (path, content, opts) always produces
// the same entities/imports/exports/calls (spec.md §8's idempotence
// property).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"golang.org/x/sync/errgroup"

	"github.com/73ai/code-context/internal/parser"
)

// keyPrefix namespaces cache entries the way internal/index/storage.go
// namespaces its own key families (PrefixSymbol, PrefixFile, ...).
const keyPrefix = "parse:"

// Options configures the cache's on-disk location and entry lifetime.
type Options struct {
	// Dir is the Badger data directory. Empty means an in-memory store,
	// useful for short-lived processes and tests.
	Dir string

	// TTL bounds how long a cached ParseResult stays valid. Zero disables
	// expiry.
	TTL time.Duration
}

// DefaultOptions returns Options for dir with a 24-hour entry TTL. It sets
// no other Badger tuning.
func DefaultOptions(dir string) Options {
	return Options{Dir: dir, TTL: 24 * time.Hour}
}

// Cache is a Badger-backed, content-addressed ParseResult store.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	cancel context.CancelFunc
	gc     *errgroup.Group
}

// Open opens (creating if necessary) the cache at the configured directory
// and starts a background value-log GC loop so expired (TTL'd) entries are
// reclaimed without the caller managing a goroutine of its own.
func Open(opts Options) (*Cache, error) {
	badgerOpts := badger.DefaultOptions(opts.Dir).
		WithLogger(nil).
		WithDetectConflicts(false)
	if opts.Dir == "" {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("cache: open badger store: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	gc, gcCtx := errgroup.WithContext(ctx)
	gc.Go(func() error {
		runValueLogGC(gcCtx, db, 10*time.Minute)
		return nil
	})

	return &Cache{db: db, ttl: opts.TTL, cancel: cancel, gc: gc}, nil
}

// runValueLogGC periodically reclaims space from expired entries. Badger
// returns ErrNoRewrite when a pass finds nothing to collect, which is the
// common case and not itself an error worth surfacing.
func runValueLogGC(ctx context.Context, db *badger.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}

// Close stops the background GC loop and releases the underlying Badger
// handles.
func (c *Cache) Close() error {
	c.cancel()
	c.gc.Wait()
	return c.db.Close()
}

// Key derives the content-addressed cache key for a (path, content, opts)
// triple. Two calls with identical bytes and identical options produce the
// same key regardless of process or machine, per spec.md §8's "identical
// input -> byte-identical output" guarantee extended to the cache layer.
func Key(path string, content []byte, opts parser.Options) string {
	h := xxhash.New()
	h.WriteString(path)
	h.Write([]byte{0})
	h.Write(content)
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d:%d:%t:%t", opts.MaxFileSizeBytes, opts.ParseTimeout, opts.IncludeAnonymous, opts.ExtractDocumentation)
	return keyPrefix + fmt.Sprintf("%016x", h.Sum64())
}

// Get looks up a previously stored ParseResult by key. The second return
// value is false on a miss or an expired entry; callers should treat both
// identically (re-parse and call Put).
func (c *Cache) Get(ctx context.Context, key string) (*parser.ParseResult, bool) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte{}, val...)
			return nil
		})
	})
	if err != nil {
		return nil, false
	}

	var result parser.ParseResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Put stores result under key, subject to the cache's configured TTL.
func (c *Cache) Put(ctx context.Context, key string, result *parser.ParseResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache: marshal parse result: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), raw)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// ParseFile wraps parser.ParseFile with a cache lookup: a hit returns the
// stored result without touching the registry or the tree-sitter grammars;
// a miss parses, stores, and returns the fresh result. Parse errors are
// never cached, since a transient timeout or a registry hiccup shouldn't
// poison the cache for a file that would otherwise parse cleanly.
func (c *Cache) ParseFile(ctx context.Context, registry *parser.LanguageRegistry, content []byte, path string, opts parser.Options) (*parser.ParseResult, error) {
	key := Key(path, content, opts)
	if cached, ok := c.Get(ctx, key); ok {
		return cached, nil
	}

	result, err := parser.ParseFile(ctx, registry, content, path, opts)
	if err != nil {
		return nil, err
	}

	if putErr := c.Put(ctx, key, result); putErr != nil {
		return result, nil
	}
	return result, nil
}
