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

package importscan

import (
	"embed"
	"fmt"
	"path"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/*/*.scm
var queryFiles embed.FS

// grammar identifies which of the two tree-sitter-typescript grammars a
// file should be parsed under.
type grammar string

const (
	grammarTypeScript grammar = "typescript"
	grammarTSX        grammar = "tsx"
)

var languages = struct {
	typescript *ts.Language
	tsx        *ts.Language
}{
	ts.NewLanguage(tsTypescript.LanguageTypescript()),
	ts.NewLanguage(tsTypescript.LanguageTSX()),
}

var parserPools = map[grammar]*sync.Pool{
	grammarTypeScript: {New: func() any { return newParser(languages.typescript) }},
	grammarTSX:        {New: func() any { return newParser(languages.tsx) }},
}

func newParser(lang *ts.Language) *ts.Parser {
	parser := ts.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		panic("importscan: failed to set language: " + err.Error())
	}
	return parser
}

func getParser(g grammar) *ts.Parser {
	return parserPools[g].Get().(*ts.Parser)
}

func putParser(g grammar, p *ts.Parser) {
	p.Reset()
	parserPools[g].Put(p)
}

// queryManager caches the compiled import-extraction query per grammar.
type queryManager struct {
	mu      sync.Mutex
	queries map[grammar]*ts.Query
}

func newQueryManager() (*queryManager, error) {
	qm := &queryManager{queries: make(map[grammar]*ts.Query)}
	for _, g := range [...]grammar{grammarTypeScript, grammarTSX} {
		if err := qm.load(g); err != nil {
			return nil, err
		}
	}
	return qm, nil
}

func (qm *queryManager) load(g grammar) error {
	queryPath := path.Join("queries", string(g), "imports.scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("importscan: failed to read query %s: %w", queryPath, err)
	}

	var lang *ts.Language
	switch g {
	case grammarTypeScript:
		lang = languages.typescript
	case grammarTSX:
		lang = languages.tsx
	}

	query, err := ts.NewQuery(lang, string(data))
	if err != nil {
		return fmt.Errorf("importscan: failed to compile query for %s: %w", g, err)
	}

	qm.mu.Lock()
	qm.queries[g] = query
	qm.mu.Unlock()
	return nil
}

func (qm *queryManager) get(g grammar) (*ts.Query, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	q, ok := qm.queries[g]
	if !ok {
		return nil, fmt.Errorf("importscan: no query loaded for grammar %s", g)
	}
	return q, nil
}

var (
	globalQM     *queryManager
	globalQMOnce sync.Once
	globalQMErr  error
)

func getQueryManager() (*queryManager, error) {
	globalQMOnce.Do(func() {
		globalQM, globalQMErr = newQueryManager()
	})
	return globalQM, globalQMErr
}
