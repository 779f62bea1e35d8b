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

// Package fsys provides the filesystem abstraction consumed by the
// resolver, the project-config loader, and the traverser.
package fsys

import (
	"os"
	"path/filepath"
)

// FileSystem is the capability depbundle's core depends on: read a file as
// text, test existence, test directory-ness, and canonicalize a path.
// Existence and directory-ness tests coerce errors to false; read and
// canonicalize surface errors to the caller.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
	IsDir(path string) bool
	Canonicalize(path string) (string, error)
}

// OS implements FileSystem over the real filesystem.
type OS struct{}

// NewOS creates a FileSystem backed by the os package.
func NewOS() *OS {
	return &OS{}
}

// ReadFile reads the entire contents of a file.
func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether path names an existing file or directory.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path names an existing directory.
func (OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Canonicalize resolves symlinks and `.`/`..` components, returning an
// absolute path stable for use as a cache key or set element.
func (OS) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
