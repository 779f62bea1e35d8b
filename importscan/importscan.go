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

// Package importscan extracts ordered import sites from a file's text
// using tree-sitter-typescript. CPU-bound parsing is the caller's concern
// to isolate onto a worker; this package is a plain synchronous function.
package importscan

import (
	"fmt"
	"path/filepath"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Kind identifies how an import site was written in the source.
type Kind string

const (
	KindESModule Kind = "es-module"
	KindCommonJS Kind = "commonjs"
	KindDynamic  Kind = "dynamic"
	KindTypeOnly Kind = "type-only"
)

// Import is a single import site discovered in a file: immutable once
// produced. Line and Column are 1-based.
type Import struct {
	Specifier string
	Kind      Kind
	Line      int
	Column    int
	Snippet   string
}

// CanParse reports whether path's extension is one ExtractImports handles.
// `.vue` and `.svelte` are accepted but parsed under the plain TypeScript
// grammar, which does not understand their surrounding SFC blocks — a
// deliberate simplification, not a crash.
func CanParse(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs", ".ts", ".tsx", ".jsx", ".vue", ".svelte":
		return true
	}
	return strings.HasSuffix(strings.ToLower(path), ".d.ts")
}

func grammarForPath(path string) grammar {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tsx"), strings.HasSuffix(lower, ".jsx"):
		return grammarTSX
	default:
		return grammarTypeScript
	}
}

// ExtractImports parses content (the text of the file at path) and returns
// its import sites in source order.
func ExtractImports(path string, content []byte) ([]Import, error) {
	qm, err := getQueryManager()
	if err != nil {
		return nil, err
	}

	g := grammarForPath(path)
	parser := getParser(g)
	defer putParser(g, parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("importscan: failed to parse %s", path)
	}
	defer tree.Close()

	query, err := qm.get(g)
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	captureNames := query.CaptureNames()
	matches := cursor.Matches(query, tree.RootNode(), content)

	var imports []Import
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		if rec := fromMatch(match, captureNames, content); rec != nil {
			imports = append(imports, *rec)
		}
	}

	return imports, nil
}

func fromMatch(match *ts.QueryMatch, names []string, content []byte) *Import {
	var stmtNode, specNode, fnNode *ts.Node
	var stmtKind string

	for _, capture := range match.Captures {
		node := capture.Node
		switch names[capture.Index] {
		case "import.stmt", "reexport.stmt", "call.stmt", "dynamic.stmt":
			stmtNode = &node
			stmtKind = names[capture.Index]
		case "import.spec", "reexport.spec", "call.spec", "dynamic.spec":
			specNode = &node
		case "call.fn":
			fnNode = &node
		}
	}

	if stmtNode == nil || specNode == nil {
		return nil
	}

	var kind Kind
	switch stmtKind {
	case "import.stmt":
		kind = KindESModule
	case "reexport.stmt":
		kind = KindESModule
	case "dynamic.stmt":
		kind = KindDynamic
	case "call.stmt":
		if fnNode == nil || fnNode.Utf8Text(content) != "require" {
			return nil
		}
		kind = KindCommonJS
	default:
		return nil
	}

	snippet := stmtNode.Utf8Text(content)
	if kind == KindESModule && stmtKind == "import.stmt" {
		trimmed := strings.TrimLeft(snippet, " \t")
		if strings.HasPrefix(trimmed, "import type ") || strings.HasPrefix(trimmed, "import type{") {
			kind = KindTypeOnly
		}
	}

	pos := stmtNode.StartPosition()
	return &Import{
		Specifier: specNode.Utf8Text(content),
		Kind:      kind,
		Line:      int(pos.Row) + 1,
		Column:    int(pos.Column) + 1,
		Snippet:   snippet,
	}
}
