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

// Package resolve classifies and resolves JS/TS import specifiers against
// project-configuration aliases, a fixed extension search order, and
// directory-index fallback.
package resolve

import (
	"path/filepath"
	"strings"

	"depbundle.dev/depbundle/fsys"
	"depbundle.dev/depbundle/tsconfig"
)

// Resolved is the outcome of resolving one (specifier, from-file) pair.
type Resolved struct {
	Path    string // absolute, canonical
	IsLocal bool
	IsAsset bool
}

// Logger is the minimal logging capability the resolver needs.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// ExtensionOrder is the fixed extension search order applied to every
// candidate path that doesn't already name an existing file.
var ExtensionOrder = []string{"tsx", "ts", "jsx", "js", "mjs", "cjs", "json"}

// ExternalPrefixes documents the well-known ecosystem packages a bare
// specifier is expected to name. Kept centralized and configurable per the
// pragmatic, not-a-full-node-resolver design note: any bare specifier with
// no matching project-config alias is external regardless of whether it
// appears here, so this list only serves to make the common case explicit
// and is open to extension by embedders.
var ExternalPrefixes = []string{
	"react", "react-dom", "@mui/", "next/", "typescript", "vite",
	"vue", "@vue/", "@angular/", "lodash", "rxjs", "svelte", "solid-js", "preact",
}

// AssetExtensions is the fixed set of non-code extensions. Enumerated
// explicitly by category: stylesheets, images, fonts, media, documents,
// data files, markdown, plain text.
var AssetExtensions = map[string]bool{
	".css": true, ".scss": true, ".sass": true, ".less": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".webp": true, ".ico": true, ".bmp": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".mp4": true, ".mp3": true, ".wav": true, ".webm": true, ".ogg": true,
	".pdf": true,
	".csv": true, ".xml": true, ".yaml": true, ".yml": true, ".toml": true,
	".md": true, ".mdx": true, ".txt": true,
}

// Resolver resolves import specifiers discovered by the extractor.
type Resolver struct {
	fs          fsys.FileSystem
	logger      Logger
	configCache *tsconfig.Cache
}

// New creates a Resolver. configCache may be shared across many Resolvers
// (e.g. one per traversal goroutine) to amortize project-config parsing.
func New(fs fsys.FileSystem, logger Logger, configCache *tsconfig.Cache) *Resolver {
	return &Resolver{fs: fs, logger: logger, configCache: configCache}
}

// Resolve classifies specifier as seen from fromFile and, if local, maps it
// to an absolute canonical path. Returns (nil, nil) for external imports
// and for any unresolved-but-recoverable case (logged at debug/warn);
// returns a non-nil error only when project-config loading reports one
// (never for a missing target file).
func (r *Resolver) Resolve(specifier, fromFile string) (*Resolved, error) {
	fromDir := filepath.Dir(fromFile)

	cfg, hasConfig, err := tsconfig.Load(r.fs, r.logger, r.configCache, fromDir)
	if err != nil {
		return nil, err
	}

	var aliasCandidates []string
	if hasConfig {
		aliasCandidates = tsconfig.ResolveAlias(cfg, specifier)
	}

	isPathlike := strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/")

	// Layer 1: external package check.
	if !isPathlike && len(aliasCandidates) == 0 {
		return nil, nil
	}

	// Layer 2: asset classification.
	if isAssetSpecifier(specifier) {
		return r.resolveAsset(specifier, fromDir)
	}

	// Layer 3: alias resolution (only reached for specifiers a pattern
	// actually matched; pathlike specifiers usually have none).
	if len(aliasCandidates) > 0 {
		hadExt := filepath.Ext(stripQuery(specifier)) != ""
		for _, candidate := range aliasCandidates {
			if path, ok := resolveWithExtensions(r.fs, candidate, hadExt); ok {
				return r.finish(path)
			}
		}
		r.logger.Debug("resolve: alias matched but no file found for %q from %s", specifier, fromFile)
		return nil, nil
	}

	// Layer 4: relative resolution.
	joined := filepath.Join(fromDir, stripQuery(specifier))
	hadExt := filepath.Ext(stripQuery(specifier)) != ""
	if path, ok := resolveWithExtensions(r.fs, joined, hadExt); ok {
		return r.finish(path)
	}
	r.logger.Debug("resolve: unresolved import %q from %s", specifier, fromFile)
	return nil, nil
}

func (r *Resolver) resolveAsset(specifier, fromDir string) (*Resolved, error) {
	joined := filepath.Join(fromDir, stripQuery(specifier))
	if !r.fs.Exists(joined) || r.fs.IsDir(joined) {
		r.logger.Debug("resolve: asset not found: %s", joined)
		return nil, nil
	}
	canonical, err := r.fs.Canonicalize(joined)
	if err != nil {
		r.logger.Warning("resolve: cannot canonicalize asset %s: %v", joined, err)
		return nil, nil
	}
	return &Resolved{Path: canonical, IsLocal: true, IsAsset: true}, nil
}

func (r *Resolver) finish(path string) (*Resolved, error) {
	canonical, err := r.fs.Canonicalize(path)
	if err != nil {
		r.logger.Warning("resolve: cannot canonicalize %s: %v", path, err)
		return nil, nil
	}
	return &Resolved{Path: canonical, IsLocal: true}, nil
}

func isAssetSpecifier(specifier string) bool {
	base := stripQuery(specifier)
	ext := strings.ToLower(filepath.Ext(base))
	if AssetExtensions[ext] {
		return true
	}
	return strings.Contains(base, ".module.")
}

// stripQuery drops a trailing `?query` or `#fragment` suffix before
// extension inspection and filesystem lookup — e.g. Vite-style
// `./shader.wgsl?raw`, supplemented from the original implementation.
func stripQuery(specifier string) string {
	if idx := strings.IndexAny(specifier, "?#"); idx != -1 {
		return specifier[:idx]
	}
	return specifier
}

// withExtension mimics "replace the trailing extension component", so that
// a specifier like "./foo" (no dot in the stem) becomes "./foo.ts", while
// preserving the directory.
func withExtension(p, ext string) string {
	dir, file := filepath.Split(p)
	if idx := strings.LastIndexByte(file, '.'); idx >= 0 {
		file = file[:idx]
	}
	return filepath.Join(dir, file+"."+ext)
}

// resolveWithExtensions implements the four-tier extension search: bare
// exists, extension replacement, directory-index fallback, and — only when
// the original specifier had no extension — bare string concatenation
// (covers a dotted stem like "foo.d" -> "foo.d.ts", which withExtension
// would otherwise mangle by eating the ".d").
func resolveWithExtensions(fs fsys.FileSystem, candidate string, hadExplicitExt bool) (string, bool) {
	if fs.Exists(candidate) && !fs.IsDir(candidate) {
		return candidate, true
	}

	for _, ext := range ExtensionOrder {
		p := withExtension(candidate, ext)
		if fs.Exists(p) && !fs.IsDir(p) {
			return p, true
		}
	}

	if fs.IsDir(candidate) {
		for _, ext := range ExtensionOrder {
			p := filepath.Join(candidate, "index."+ext)
			if fs.Exists(p) && !fs.IsDir(p) {
				return p, true
			}
		}
	}

	if !hadExplicitExt {
		for _, ext := range ExtensionOrder {
			p := candidate + "." + ext
			if fs.Exists(p) && !fs.IsDir(p) {
				return p, true
			}
		}
	}

	return "", false
}
