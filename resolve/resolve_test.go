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

package resolve

import (
	"testing"

	"depbundle.dev/depbundle/internal/memfs"
	"depbundle.dev/depbundle/tsconfig"
)

type testLogger struct{}

func (testLogger) Warning(format string, args ...any) {}
func (testLogger) Debug(format string, args ...any)   {}

func TestResolveExternalPackageIsSkipped(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/src/a.ts", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("react", "/repo/src/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected external specifier to resolve to nil, got %+v", got)
	}
}

func TestResolveBareUnknownDefaultsExternal(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/src/a.ts", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("some-unlisted-package", "/repo/src/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected unlisted bare specifier to be external, got %+v", got)
	}
}

func TestResolveRelativeFileBeatsDirectory(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/src/a.ts", "")
	fs.AddFile("/repo/src/x.ts", "")
	fs.AddFile("/repo/src/x/index.ts", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("./x", "/repo/src/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Path != "/repo/src/x.ts" {
		t.Errorf("expected file to beat directory, got %+v", got)
	}
}

func TestResolveExtensionOrderPrefersTSXOverTS(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/src/a.ts", "")
	fs.AddFile("/repo/src/x.tsx", "")
	fs.AddFile("/repo/src/x.ts", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("./x", "/repo/src/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Path != "/repo/src/x.tsx" {
		t.Errorf("expected .tsx to win by extension order, got %+v", got)
	}
}

func TestResolveAssetClassification(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/src/a.tsx", "")
	fs.AddFile("/repo/src/logo.svg", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("./logo.svg", "/repo/src/a.tsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || !got.IsAsset || got.Path != "/repo/src/logo.svg" {
		t.Errorf("expected asset resolution, got %+v", got)
	}
}

func TestResolveAssetNotFoundLogsAndReturnsNil(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/src/a.tsx", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("./missing.png", "/repo/src/a.tsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing asset, got %+v", got)
	}
}

func TestResolveAliasViaTSConfig(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/tsconfig.json", `{
  "compilerOptions": {
    "baseUrl": "./src",
    "paths": { "@/*": ["*"] }
  }
}`)
	fs.AddFile("/repo/src/app.ts", "")
	fs.AddFile("/repo/src/components/Button.tsx", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("@/components/Button", "/repo/src/app.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Path != "/repo/src/components/Button.tsx" {
		t.Errorf("expected alias to resolve to Button.tsx, got %+v", got)
	}
}

func TestResolveQuerySuffixStrippedBeforeClassification(t *testing.T) {
	fs := memfs.New()
	fs.AddFile("/repo/src/a.ts", "")
	fs.AddFile("/repo/src/styles.css", "")

	r := New(fs, testLogger{}, tsconfig.NewCache())
	got, err := r.Resolve("./styles.css?raw", "/repo/src/a.ts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || !got.IsAsset || got.Path != "/repo/src/styles.css" {
		t.Errorf("expected query-suffixed asset to resolve, got %+v", got)
	}
}
