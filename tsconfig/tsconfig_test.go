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

package tsconfig

import (
	"encoding/json"
	"testing"

	"depbundle.dev/depbundle/internal/memfs"
)

type testLogger struct {
	warnings []string
}

func (l *testLogger) Warning(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}
func (l *testLogger) Debug(format string, args ...any) {}

func TestStripJSONCHandlesCommentsStringsAndEscapes(t *testing.T) {
	input := `{
  // a line comment
  "a": "value with // not a comment and \"quote\"",
  /* block
     comment */
  "b": 1,
}`
	stripped := stripJSONC([]byte(input))

	var out map[string]any
	if err := json.Unmarshal(stripped, &out); err != nil {
		t.Fatalf("stripJSONC output did not parse as JSON: %v\ngot:\n%s", err, stripped)
	}
	if out["a"] != `value with // not a comment and "quote"` {
		t.Errorf("string content corrupted: %v", out["a"])
	}
	if out["b"] != float64(1) {
		t.Errorf("expected b=1, got %v", out["b"])
	}
}

func TestStripJSONCIsIdentityOnCommentFreeInput(t *testing.T) {
	input := `{"a":1,"b":[1,2,3]}`
	got := string(stripJSONC([]byte(input)))
	if got != input {
		t.Errorf("expected identity, got %q", got)
	}
}

func TestDiscoverWalksUpToNearestConfig(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/tsconfig.json", `{}`)
	fs.AddDir("/repo/src/components")

	path, ok := Discover(fs, "/repo/src/components")
	if !ok {
		t.Fatal("expected to discover a config")
	}
	if path != "/repo/tsconfig.json" {
		t.Errorf("got %q, want /repo/tsconfig.json", path)
	}
}

func TestDiscoverReturnsFalseWhenNoneFound(t *testing.T) {
	fs := memfs.New()
	fs.AddDir("/repo/src")
	if _, ok := Discover(fs, "/repo/src"); ok {
		t.Fatal("expected no config to be discovered")
	}
}

func TestAliasResolutionWithBaseURLAndWildcard(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/tsconfig.json", `{
  "compilerOptions": {
    "baseUrl": "./src",
    "paths": { "@/*": ["*"] }
  }
}`)
	fs.AddFile("/repo/src/components/Button.tsx", "")

	cache := NewCache()
	cfg, found, err := Load(fs, &testLogger{}, cache, "/repo/src")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}

	candidates := ResolveAlias(cfg, "@/components/Button")
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %v", candidates)
	}
	if candidates[0] != "/repo/src/components/Button" {
		t.Errorf("got %q", candidates[0])
	}
}

func TestExtendsChainMergeChildOverridesParent(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/tsconfig.base.json", `{
  "compilerOptions": {
    "baseUrl": "./src",
    "paths": { "@/*": ["legacy/*"], "@shared/*": ["shared/*"] }
  }
}`)
	fs.AddFile("/repo/tsconfig.json", `{
  "extends": "./tsconfig.base.json",
  "compilerOptions": {
    "paths": { "@/*": ["*"] }
  }
}`)

	cache := NewCache()
	cfg, found, err := Load(fs, &testLogger{}, cache, "/repo")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}

	if !cfg.HasBaseDir || cfg.BaseDir != "/repo/src" {
		t.Errorf("expected baseUrl inherited from parent, got %+v", cfg)
	}

	var atPattern, sharedPattern *PathEntry
	for i := range cfg.Paths {
		switch cfg.Paths[i].Pattern {
		case "@/*":
			atPattern = &cfg.Paths[i]
		case "@shared/*":
			sharedPattern = &cfg.Paths[i]
		}
	}
	if atPattern == nil || atPattern.Targets[0] != "*" {
		t.Errorf("expected child's @/* override to win, got %+v", atPattern)
	}
	if sharedPattern == nil {
		t.Errorf("expected @shared/* inherited from parent")
	}
}

func TestExtendsCycleIsDetectedAndLogged(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/a.json", `{"extends": "./b.json"}`)
	fs.AddFile("/repo/b.json", `{"extends": "./a.json"}`)
	fs.AddFile("/repo/tsconfig.json", `{"extends": "./a.json"}`)

	logger := &testLogger{}
	cache := NewCache()
	_, found, err := Load(fs, logger, cache, "/repo")
	if err != nil {
		t.Fatalf("expected cycle to be handled gracefully, got error: %v", err)
	}
	if !found {
		t.Fatal("expected a (partial) config despite the cycle")
	}
	if len(logger.warnings) == 0 {
		t.Error("expected a warning to be logged for the extends cycle")
	}
}

func TestMalformedConfigIsTreatedAsNoConfig(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/tsconfig.json", `{ not valid json `)

	logger := &testLogger{}
	cache := NewCache()
	cfg, found, err := Load(fs, logger, cache, "/repo")
	if err != nil {
		t.Fatalf("expected no hard error, got %v", err)
	}
	if found || cfg != nil {
		t.Errorf("expected found=false, cfg=nil for malformed config, got found=%v cfg=%+v", found, cfg)
	}
	if len(logger.warnings) == 0 {
		t.Error("expected a warning to be logged")
	}
}

func TestExactAndWildcardPatternMatching(t *testing.T) {
	cfg := &Config{
		Dir: "/repo",
		Paths: []PathEntry{
			{Pattern: "exact", Targets: []string{"exact/target"}},
			{Pattern: "@/*", Targets: []string{"src/*"}},
		},
	}

	if got := ResolveAlias(cfg, "exact"); len(got) != 1 || got[0] != "/repo/exact/target" {
		t.Errorf("exact match failed: %v", got)
	}
	if got := ResolveAlias(cfg, "@/utils/format"); len(got) != 1 || got[0] != "/repo/src/utils/format" {
		t.Errorf("wildcard match failed: %v", got)
	}
	if got := ResolveAlias(cfg, "unrelated"); got != nil {
		t.Errorf("expected no match, got %v", got)
	}
}
