/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package graph

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"depbundle.dev/depbundle/fsys"
	"depbundle.dev/depbundle/importscan"
	"depbundle.dev/depbundle/resolve"
)

// Traverser holds the state shared by every concurrent exploration of one
// traversal: the concurrent visited set, the file counter, the health
// monitor, and the compiled exclusion pattern set. Construct one per call
// to Traverse; do not reuse across traversals.
type Traverser struct {
	fs       fsys.FileSystem
	logger   Logger
	resolver *resolve.Resolver
	opts     Options
	graph    *DependencyGraph

	visited   sync.Map // path -> struct{}
	fileCount atomic.Int64
	health    *health
	ignore    *ignore.GitIgnore
	parsePool *parsePool
}

// Traverse explores the locally-reachable subgraph from entryPath and
// returns the resulting DependencyGraph. A non-nil error is always one of
// the fatal classes from spec.md §7 (entry errors, limit errors); every
// other failure encountered during exploration is logged and degrades the
// affected node to a leaf rather than aborting the whole traversal.
func Traverse(ctx context.Context, fs fsys.FileSystem, logger Logger, resolver *resolve.Resolver, opts Options, entryPath string) (*DependencyGraph, error) {
	canonicalEntry, err := fs.Canonicalize(entryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEntryUnresolvable, entryPath, err)
	}
	if !importscan.CanParse(canonicalEntry) {
		return nil, fmt.Errorf("%w: %s", ErrEntryUnsupported, canonicalEntry)
	}

	gi, err := compileExclusions(opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("graph: compiling exclusion patterns: %w", err)
	}

	t := &Traverser{
		fs:        fs,
		logger:    logger,
		resolver:  resolver,
		opts:      opts,
		graph:     newGraph(canonicalEntry),
		health:    newHealth(),
		ignore:    gi,
		parsePool: newParsePool(opts.ParseWorkers),
	}
	defer t.parsePool.stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.ConcurrencyLimit)

	eg.Go(func() error {
		return t.explore(egCtx, eg, canonicalEntry, 0, nil)
	})

	if err := eg.Wait(); err != nil {
		return t.graph, err
	}
	return t.graph, nil
}

// ancestors is the set of canonical paths on the chain from the entry down
// to (but not including) path, threaded per call rather than shared, so a
// cycle can be recognized by the goroutine that discovers the closing edge
// without racing against when an unrelated sibling finishes exploring.
func (t *Traverser) explore(ctx context.Context, eg *errgroup.Group, path string, depth int, ancestors map[string]struct{}) error {
	if ctx.Err() != nil {
		return nil
	}

	// Step 1: dedup against the shared visited set. A node reached twice
	// through non-overlapping branches (a diamond) is not a cycle; only a
	// target that is its own ancestor (checked below, per edge) is.
	if _, loaded := t.visited.LoadOrStore(path, struct{}{}); loaded {
		return nil
	}

	t.graph.ensureNode(path)

	// Step 2: guards, in the fixed order spec.md §4.5 prescribes.
	if depth >= t.opts.MaxDepth {
		return nil
	}

	n := t.fileCount.Add(1)
	if n > int64(t.opts.MaxFiles) {
		return fmt.Errorf("%w: exceeded %d files", ErrMaxFilesExceeded, t.opts.MaxFiles)
	}
	if t.opts.HealthCheckEvery > 0 && n%int64(t.opts.HealthCheckEvery) == 0 {
		if t.health.stuckSince(t.opts.StuckAfter) {
			return fmt.Errorf("%w: no progress for %s", ErrStuck, t.opts.StuckAfter)
		}
	}

	if looksSuspicious(path, depth) {
		t.logger.Debug("graph: path heuristic excluded %s", path)
		return nil
	}
	if t.ignore != nil && t.ignore.MatchesPath(path) {
		t.logger.Debug("graph: exclusion pattern matched %s", path)
		return nil
	}

	// Step 4: unsupported extension, leaf node.
	if !importscan.CanParse(path) {
		return nil
	}

	// Step 5: read.
	content, err := t.fs.ReadFile(path)
	if err != nil {
		t.logger.Warning("graph: reading %s: %v", path, err)
		return t.noteError()
	}

	// Step 6: extract, off the CPU-bound parse pool rather than inline.
	imports, err := t.parsePool.extract(ctx, path, content)
	if err != nil {
		t.logger.Warning("graph: parsing %s: %v", path, err)
		return t.noteError()
	}
	t.health.recordSuccess()

	// Step 7: resolve each import in source order and schedule children.
	for _, imp := range imports {
		resolved, err := t.resolver.Resolve(imp.Specifier, path)
		if err != nil {
			t.logger.Warning("graph: resolving %q from %s: %v", imp.Specifier, path, err)
			continue
		}
		if resolved == nil {
			continue
		}

		canonical := resolved.Path
		t.graph.addEdge(path, canonical, imp)

		if resolved.IsAsset {
			t.graph.addAsset(canonical)
			continue
		}

		if _, isAncestor := ancestors[canonical]; isAncestor {
			t.graph.markCircular(canonical)
			continue
		}

		childAncestors := make(map[string]struct{}, len(ancestors)+1)
		for a := range ancestors {
			childAncestors[a] = struct{}{}
		}
		childAncestors[path] = struct{}{}

		child := canonical
		childDepth := depth + 1
		eg.Go(func() error {
			return t.explore(ctx, eg, child, childDepth, childAncestors)
		})
	}

	return nil
}

// noteError records a recoverable per-file error against the circuit
// breaker and returns a fatal error only once a threshold is crossed.
func (t *Traverser) noteError() error {
	consecutive, total := t.health.recordError()
	if consecutive > t.opts.MaxConsecutiveErr || total > t.opts.MaxTotalErr {
		return fmt.Errorf("%w: %d consecutive, %d total", ErrCircuitBreaker, consecutive, total)
	}
	return nil
}
