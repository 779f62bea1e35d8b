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

// Package output provides shared output utilities for depbundle CLI
// commands: rendering a traversed graph as deterministic JSON.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"depbundle.dev/depbundle/graph"
)

// edge is the JSON-serializable view of one graph.Edge.
type edge struct {
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Specifier string `json:"specifier"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

// document is the JSON-serializable view of a graph.DependencyGraph: node
// order and edge order are both made deterministic, per spec.md §4.5's
// tie-break note that an unordered adjacency mapping needs sorting for any
// consumer that requires deterministic output.
type document struct {
	Entry    string           `json:"entry"`
	Nodes    []string         `json:"nodes"`
	Edges    map[string][]edge `json:"edges"`
	Circular []string         `json:"circular"`
	Assets   []string         `json:"assets"`
}

func toDocument(g *graph.DependencyGraph, includeAssets bool) document {
	doc := document{
		Entry:    g.Entry,
		Nodes:    g.SortedNodes(),
		Edges:    make(map[string][]edge),
		Circular: g.Circular(),
		Assets:   g.Assets(),
	}

	adjacency := g.Edges(includeAssets)
	for from, edges := range adjacency {
		rendered := make([]edge, 0, len(edges))
		for _, e := range edges {
			rendered = append(rendered, edge{
				Target:    e.Target,
				Kind:      string(e.Import.Kind),
				Specifier: e.Import.Specifier,
				Line:      e.Import.Line,
				Column:    e.Import.Column,
			})
		}
		doc.Edges[from] = rendered
	}
	return doc
}

func write(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	if outputPath := viper.GetString("output"); outputPath != "" {
		return os.WriteFile(outputPath, append(out, '\n'), 0644)
	}
	fmt.Println(string(out))
	return nil
}

// Graph renders g as JSON to stdout, or to viper's "output" path if set.
func Graph(g *graph.DependencyGraph, includeAssets bool) error {
	return write(toDocument(g, includeAssets))
}

// Graphs renders a batch of entry-point traversals (e.g. from a --glob
// expansion) as a single JSON array of documents, in the order given.
func Graphs(gs []*graph.DependencyGraph, includeAssets bool) error {
	docs := make([]document, 0, len(gs))
	for _, g := range gs {
		docs = append(docs, toDocument(g, includeAssets))
	}
	return write(docs)
}
