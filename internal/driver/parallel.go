package driver

import (
	"bytes"
	"context"
	"crypto/sha256"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/snapshot"
)

// FileResult is the outcome of compiling one file in parallel mode.
type FileResult struct {
	Path     string
	Compiler *compiler.Compiler
	Output   string
	Ok       bool
	// Cached is true when an up-to-date snapshot satisfied the file without
	// running the passes.
	Cached bool
}

// RunParallel compiles each file with its own compiler on its own goroutine.
// Compilers share nothing, so no coordination is needed; outputs come back
// in input order. A non-nil cache short-circuits files whose source digest
// already has a clean snapshot.
func RunParallel(ctx context.Context, paths []string, print bool, cache *snapshot.Cache) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			contents, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			digest := sha256.Sum256(contents)
			if cache != nil {
				if payload, hit, err := cache.Load(digest); err == nil && hit && !payload.Broken {
					results[i] = FileResult{Path: path, Ok: true, Cached: true}
					return nil
				}
			}

			c := compiler.New()
			var out bytes.Buffer
			res := Run(c, path, contents, Options{Print: print, Out: &out})

			if cache != nil {
				// cache write failures only cost future cache hits
				_ = cache.Store(digest, snapshot.Capture(c, res.Tokens, path, contents))
			}

			results[i] = FileResult{Path: path, Compiler: c, Output: out.String(), Ok: res.Ok}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
