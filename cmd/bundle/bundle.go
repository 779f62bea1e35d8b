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

// Package bundle provides the bundle command for depbundle: trace an entry
// file's local dependency graph and emit it as JSON.
package bundle

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depbundle.dev/depbundle/fsys"
	"depbundle.dev/depbundle/graph"
	"depbundle.dev/depbundle/internal/output"
	"depbundle.dev/depbundle/resolve"
	"depbundle.dev/depbundle/tsconfig"
)

// Cmd is the bundle cobra command.
var Cmd = &cobra.Command{
	Use:   "bundle [entry-file...]",
	Short: "Trace a local dependency graph from one or more entry files",
	Long: `Trace the transitive closure of first-party source and asset files an
entry file depends on, and emit the resulting dependency graph as JSON.

Entries may be named positionally, expanded from a --glob pattern, or
both; when more than one entry is traced the output is a JSON array of
per-entry graphs in the order the entries were resolved.`,
	Example: `  # Trace from an entry point
  depbundle bundle src/app.ts

  # Trace every route module
  depbundle bundle --glob 'src/routes/**/*.tsx'

  # Include asset edges, raise the concurrency limit, write to a file
  depbundle bundle src/app.ts --include-assets --concurrency 64 -o graph.json`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Int("max-depth", graph.DefaultOptions().MaxDepth, "Maximum recursion depth from the entry")
	Cmd.Flags().Int("max-files", graph.DefaultOptions().MaxFiles, "Maximum total files explored")
	Cmd.Flags().Int("concurrency", graph.DefaultOptions().ConcurrencyLimit, "Maximum concurrently-exploring goroutines")
	Cmd.Flags().Bool("include-assets", graph.DefaultOptions().IncludeAssets, "Retain asset edges in the rendered graph")
	Cmd.Flags().StringSlice("exclude", nil, "Additional gitignore-style exclusion patterns")
	Cmd.Flags().BoolP("verbose", "v", false, "Promote log level from warn to info")
	Cmd.Flags().Duration("stuck-after", graph.DefaultOptions().StuckAfter, "Liveness threshold before the traversal is considered stuck")
	Cmd.Flags().String("glob", "", "doublestar glob pattern (e.g. 'src/routes/**/*.tsx') expanding to additional entry files")

	_ = viper.BindPFlag("bundle.max-depth", Cmd.Flags().Lookup("max-depth"))
	_ = viper.BindPFlag("bundle.max-files", Cmd.Flags().Lookup("max-files"))
	_ = viper.BindPFlag("bundle.concurrency", Cmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("bundle.include-assets", Cmd.Flags().Lookup("include-assets"))
	_ = viper.BindPFlag("bundle.exclude", Cmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("bundle.verbose", Cmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("bundle.stuck-after", Cmd.Flags().Lookup("stuck-after"))
	_ = viper.BindPFlag("bundle.glob", Cmd.Flags().Lookup("glob"))
}

func run(cmd *cobra.Command, args []string) error {
	entries, err := resolveEntries(args)
	if err != nil {
		return fmt.Errorf("bundle: %w", err)
	}

	opts := graph.Options{
		MaxDepth:          viper.GetInt("bundle.max-depth"),
		MaxFiles:          viper.GetInt("bundle.max-files"),
		ConcurrencyLimit:  viper.GetInt("bundle.concurrency"),
		IncludeAssets:     viper.GetBool("bundle.include-assets"),
		Exclude:           viper.GetStringSlice("bundle.exclude"),
		Verbose:           viper.GetBool("bundle.verbose"),
		StuckAfter:        viper.GetDuration("bundle.stuck-after"),
		HealthCheckEvery:  graph.DefaultOptions().HealthCheckEvery,
		MaxConsecutiveErr: graph.DefaultOptions().MaxConsecutiveErr,
		MaxTotalErr:       graph.DefaultOptions().MaxTotalErr,
	}
	if opts.StuckAfter <= 0 {
		opts.StuckAfter = 30 * time.Second
	}

	logger := graph.StderrLogger{Verbose: opts.Verbose}
	osfs := fsys.NewCaching(fsys.NewOS(), fsys.DefaultCacheCapacity)
	// Shared across every entry so a project-config discovered while
	// tracing one entry doesn't get re-parsed for the next.
	resolver := resolve.New(osfs, logger, tsconfig.NewCache())

	graphs := make([]*graph.DependencyGraph, 0, len(entries))
	for _, entry := range entries {
		g, err := graph.Traverse(context.Background(), osfs, logger, resolver, opts, entry)
		if err != nil {
			return fmt.Errorf("bundle: %s: %w", entry, err)
		}
		graphs = append(graphs, g)
	}

	if len(graphs) == 1 {
		return output.Graph(graphs[0], opts.IncludeAssets)
	}
	return output.Graphs(graphs, opts.IncludeAssets)
}

// resolveEntries merges positional entry arguments with the --glob
// pattern's expansion, de-duplicating and absolutizing both.
func resolveEntries(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var entries []string

	add := func(raw string) error {
		abs, err := filepath.Abs(raw)
		if err != nil {
			return fmt.Errorf("invalid entry path %q: %w", raw, err)
		}
		if !seen[abs] {
			seen[abs] = true
			entries = append(entries, abs)
		}
		return nil
	}

	for _, a := range args {
		if err := add(a); err != nil {
			return nil, err
		}
	}

	if pattern := viper.GetString("bundle.glob"); pattern != "" {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no entry files given: pass a path or --glob pattern")
	}
	return entries, nil
}
