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

// Package graph builds a dependency graph of locally reachable source and
// asset files by concurrently exploring import edges from an entry file.
package graph

import (
	"sort"
	"sync"

	"depbundle.dev/depbundle/importscan"
)

// Edge is one outgoing import from a source file.
type Edge struct {
	Target string
	Import importscan.Import
}

// DependencyGraph is the traversal's output: an entry point, an adjacency
// mapping from canonical source path to its ordered outgoing edges, a set
// of paths that closed a cycle, and a set of asset leaves. Safe for
// concurrent mutation during traversal via the embedded mutex; read-only
// accessors may be called freely once traversal has finished.
type DependencyGraph struct {
	Entry string

	mu        sync.Mutex
	adjacency map[string][]Edge
	circular  map[string]bool
	assets    map[string]bool
}

func newGraph(entry string) *DependencyGraph {
	return &DependencyGraph{
		Entry:     entry,
		adjacency: make(map[string][]Edge),
		circular:  make(map[string]bool),
		assets:    make(map[string]bool),
	}
}

// ensureNode records path as a node with no edges yet, so leaves and
// guard-stopped nodes still appear in the graph.
func (g *DependencyGraph) ensureNode(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.adjacency[path]; !ok {
		g.adjacency[path] = nil
	}
}

func (g *DependencyGraph) addEdge(from, to string, imp importscan.Import) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.adjacency[from] = append(g.adjacency[from], Edge{Target: to, Import: imp})
}

func (g *DependencyGraph) addAsset(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.assets[path] = true
	if _, ok := g.adjacency[path]; !ok {
		g.adjacency[path] = nil
	}
}

func (g *DependencyGraph) markCircular(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.circular[path] = true
}

// Edges returns the adjacency mapping. When includeAssets is false, edges
// whose target is an asset are filtered out of each node's edge list —
// the asset set itself (see Assets) is unaffected either way.
func (g *DependencyGraph) Edges(includeAssets bool) map[string][]Edge {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string][]Edge, len(g.adjacency))
	for from, edges := range g.adjacency {
		if includeAssets {
			cp := make([]Edge, len(edges))
			copy(cp, edges)
			out[from] = cp
			continue
		}
		var filtered []Edge
		for _, e := range edges {
			if !g.assets[e.Target] {
				filtered = append(filtered, e)
			}
		}
		out[from] = filtered
	}
	return out
}

// SortedNodes returns the adjacency map's keys in sorted order, for
// deterministic output — the map itself carries no ordering guarantee.
func (g *DependencyGraph) SortedNodes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	nodes := make([]string, 0, len(g.adjacency))
	for k := range g.adjacency {
		nodes = append(nodes, k)
	}
	sort.Strings(nodes)
	return nodes
}

// Circular returns the sorted set of paths detected as participating in a
// cycle.
func (g *DependencyGraph) Circular() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.circular))
	for k := range g.circular {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Assets returns the sorted set of asset leaf paths.
func (g *DependencyGraph) Assets() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.assets))
	for k := range g.assets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
