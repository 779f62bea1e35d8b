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

// Package memfs provides an in-memory fsys.FileSystem for testing, so
// traversal and resolution tests never touch the real filesystem.
package memfs

import (
	"path"
	"strings"
	"sync"
)

// FS implements fsys.FileSystem over an in-memory file map. It never
// creates symlinks, so Canonicalize cleans and absolutizes, and fails for
// a path that does not exist.
type FS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// New creates an empty in-memory filesystem.
func New() *FS {
	return &FS{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
	}
}

// AddFile adds a file at path with the given content, creating any parent
// directories implicitly.
func (f *FS) AddFile(p string, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p = clean(p)
	f.files[p] = []byte(content)

	dir := path.Dir(p)
	for dir != "/" && dir != "." {
		f.dirs[dir] = true
		dir = path.Dir(dir)
	}
	f.dirs["/"] = true
}

// AddDir marks path as an existing directory, with no files in it.
func (f *FS) AddDir(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[clean(p)] = true
}

// ReadFile implements fsys.FileSystem.
func (f *FS) ReadFile(p string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	p = clean(p)
	content, ok := f.files[p]
	if !ok {
		return nil, &notFoundError{path: p}
	}
	return append([]byte(nil), content...), nil
}

// Exists implements fsys.FileSystem.
func (f *FS) Exists(p string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p = clean(p)
	_, isFile := f.files[p]
	return isFile || f.dirs[p]
}

// IsDir implements fsys.FileSystem.
func (f *FS) IsDir(p string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dirs[clean(p)]
}

// Canonicalize implements fsys.FileSystem. The in-memory filesystem has no
// symlinks, so this cleans and absolutizes the path, returning an error if
// no file or directory exists there.
func (f *FS) Canonicalize(p string) (string, error) {
	cleaned := clean(p)
	if !f.Exists(cleaned) {
		return "", &notFoundError{path: cleaned}
	}
	return cleaned, nil
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	cleaned := path.Clean(p)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	return cleaned
}

type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "memfs: no such file: " + e.path }
