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

// Package tsconfig locates, parses, and caches tsconfig.json/jsconfig.json
// project configuration, including the extends chain and path aliases.
package tsconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"depbundle.dev/depbundle/fsys"
)

// Logger is the minimal logging capability the loader needs. Defined here
// (rather than shared from elsewhere) so callers can satisfy it with
// whatever logger they already have; duck typing, not inheritance.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// PathEntry is one `compilerOptions.paths` entry, preserving source order
// so alias resolution can apply "first matching pattern wins".
type PathEntry struct {
	Pattern string
	Targets []string
}

// Config is the compiled view of a project configuration file: the
// directory that holds it, an optional base directory for non-relative
// alias targets, and the ordered path-alias table. RootDirs holds
// compilerOptions.rootDirs as written in the file (not joined against
// Dir), inherited through extends when the child sets none; the resolver
// does not consult it.
type Config struct {
	Dir        string
	BaseDir    string
	HasBaseDir bool
	Paths      []PathEntry
	RootDirs   []string
}

type rawConfig struct {
	CompilerOptions struct {
		BaseURL  string          `json:"baseUrl"`
		Paths    json.RawMessage `json:"paths"`
		RootDirs []string        `json:"rootDirs"`
	} `json:"compilerOptions"`
	Extends string `json:"extends"`
}

// Cache memoizes parsed configurations by canonical config-file path.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	cfg  *Config
	err  error
	once sync.Once
}

// NewCache creates an empty config cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// GetOrLoad returns the cached config for key, loading it at most once even
// under concurrent access.
func (c *Cache) GetOrLoad(key string, loader func() (*Config, error)) (*Config, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		entry, ok = c.entries[key]
		if !ok {
			entry = &cacheEntry{}
			c.entries[key] = entry
		}
		c.mu.Unlock()
	}

	entry.once.Do(func() {
		entry.cfg, entry.err = loader()
	})
	return entry.cfg, entry.err
}

// Load discovers the nearest tsconfig.json/jsconfig.json starting at
// fromDir (walking toward the filesystem root), parses it and its full
// extends chain, and returns the merged Config. found is false if no
// config file exists above fromDir. A malformed config (after comment
// stripping), whether the discovered file or one reached through extends,
// or an extends target that cannot be found, is logged and treated as "no
// config": Load returns (nil, false, nil), never a hard error. An extends
// cycle is logged and stops the inheritance walk; the configuration merged
// up to that point is returned.
func Load(fs fsys.FileSystem, logger Logger, cache *Cache, fromDir string) (cfg *Config, found bool, err error) {
	configPath, ok := Discover(fs, fromDir)
	if !ok {
		return nil, false, nil
	}

	canonical, cErr := fs.Canonicalize(configPath)
	if cErr != nil {
		logger.Warning("tsconfig: cannot canonicalize %s: %v", configPath, cErr)
		return nil, false, nil
	}

	parsed, lErr := cache.GetOrLoad(canonical, func() (*Config, error) {
		return parseChain(fs, logger, canonical, make(map[string]bool))
	})
	if lErr != nil {
		logger.Warning("tsconfig: %v", lErr)
		return nil, false, nil
	}
	return parsed, true, nil
}

// Discover walks from dir toward the root, returning the first
// tsconfig.json or jsconfig.json found at each level.
func Discover(fs fsys.FileSystem, dir string) (string, bool) {
	if !fs.IsDir(dir) {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range [...]string{"tsconfig.json", "jsconfig.json"} {
			candidate := filepath.Join(dir, name)
			if fs.Exists(candidate) && !fs.IsDir(candidate) {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func parseChain(fs fsys.FileSystem, logger Logger, configPath string, seen map[string]bool) (*Config, error) {
	if seen[configPath] {
		logger.Warning("tsconfig: extends cycle detected at %s", configPath)
		return &Config{Dir: filepath.Dir(configPath)}, nil
	}
	seen[configPath] = true

	data, err := fs.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}

	var raw rawConfig
	if err := json.Unmarshal(stripJSONC(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}

	dir := filepath.Dir(configPath)
	cfg := &Config{Dir: dir, RootDirs: raw.CompilerOptions.RootDirs}

	if raw.CompilerOptions.BaseURL != "" {
		cfg.BaseDir = filepath.Join(dir, raw.CompilerOptions.BaseURL)
		cfg.HasBaseDir = true
	}

	paths, err := decodeOrderedPaths(raw.CompilerOptions.Paths)
	if err != nil {
		return nil, fmt.Errorf("parsing paths in %s: %w", configPath, err)
	}
	cfg.Paths = paths

	if raw.Extends != "" {
		parentPath, ok := resolveExtendsTarget(fs, dir, raw.Extends)
		if !ok {
			return nil, fmt.Errorf("extends target %q not found from %s", raw.Extends, configPath)
		}
		parentCfg, err := parseChain(fs, logger, parentPath, seen)
		if err != nil {
			return nil, err
		}
		cfg = mergeConfigs(cfg, parentCfg)
	}

	return cfg, nil
}

func resolveExtendsTarget(fs fsys.FileSystem, dir, target string) (string, bool) {
	var candidate string
	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
		candidate = filepath.Join(dir, target)
	} else {
		nodeModules, ok := findAncestorNodeModules(fs, dir)
		if !ok {
			return "", false
		}
		candidate = filepath.Join(nodeModules, target)
	}
	if filepath.Ext(candidate) == "" {
		candidate += ".json"
	}
	if fs.Exists(candidate) && !fs.IsDir(candidate) {
		return candidate, true
	}
	return "", false
}

// findAncestorNodeModules walks up from dir looking for a node_modules
// directory, the location bare extends targets resolve inside.
func findAncestorNodeModules(fs fsys.FileSystem, dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, "node_modules")
		if fs.IsDir(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// mergeConfigs applies child-overrides-parent merge policy: the child's
// paths entries win for a shared pattern key, a missing baseUrl in the
// child is filled from the parent, and rootDirs falls back wholesale.
func mergeConfigs(child, parent *Config) *Config {
	merged := &Config{
		Dir:        child.Dir,
		BaseDir:    child.BaseDir,
		HasBaseDir: child.HasBaseDir,
		RootDirs:   child.RootDirs,
	}

	if !merged.HasBaseDir && parent.HasBaseDir {
		merged.BaseDir = parent.BaseDir
		merged.HasBaseDir = true
	}
	if len(merged.RootDirs) == 0 {
		merged.RootDirs = parent.RootDirs
	}

	seen := make(map[string]bool, len(child.Paths))
	merged.Paths = append(merged.Paths, child.Paths...)
	for _, e := range child.Paths {
		seen[e.Pattern] = true
	}
	for _, e := range parent.Paths {
		if !seen[e.Pattern] {
			merged.Paths = append(merged.Paths, e)
		}
	}

	return merged
}

func decodeOrderedPaths(raw json.RawMessage) ([]PathEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object")
	}

	var entries []PathEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var targets []string
		if err := dec.Decode(&targets); err != nil {
			return nil, err
		}
		entries = append(entries, PathEntry{Pattern: key, Targets: targets})
	}
	return entries, nil
}

// ResolveAlias returns the ordered candidate absolute paths produced by the
// first matching pattern in cfg.Paths, or nil if none match. Exact patterns
// match on equality; patterns with a single `*` match a prefix/suffix pair
// and capture the substring between.
func ResolveAlias(cfg *Config, specifier string) []string {
	if cfg == nil {
		return nil
	}
	for _, entry := range cfg.Paths {
		capture, ok := matchPattern(entry.Pattern, specifier)
		if !ok {
			continue
		}
		base := cfg.Dir
		if cfg.HasBaseDir {
			base = cfg.BaseDir
		}
		candidates := make([]string, 0, len(entry.Targets))
		for _, target := range entry.Targets {
			candidates = append(candidates, filepath.Join(base, substituteWildcard(target, capture)))
		}
		return candidates
	}
	return nil
}

func matchPattern(pattern, specifier string) (capture string, matched bool) {
	idx := strings.IndexByte(pattern, '*')
	if idx == -1 {
		return "", pattern == specifier
	}
	prefix, suffix := pattern[:idx], pattern[idx+1:]
	if len(specifier) < len(prefix)+len(suffix) {
		return "", false
	}
	if !strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
		return "", false
	}
	return specifier[len(prefix) : len(specifier)-len(suffix)], true
}

func substituteWildcard(target, capture string) string {
	if !strings.Contains(target, "*") {
		return target
	}
	return strings.Replace(target, "*", capture, 1)
}
