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

package graph

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// defaultDenylist seeds the exclusion pattern set with build, test, and
// VCS directory names, before any user-supplied --exclude patterns are
// appended.
var defaultDenylist = []string{
	".git/", ".svn/", ".hg/",
	"node_modules/", "vendor/",
	"dist/", "build/", "out/", "coverage/",
	".cache/", ".next/", ".venv/", "__pycache__/",
	"test/", "tests/", "__tests__/",
}

func compileExclusions(extra []string) (*ignore.GitIgnore, error) {
	patterns := make([]string, 0, len(defaultDenylist)+len(extra))
	patterns = append(patterns, defaultDenylist...)
	patterns = append(patterns, extra...)
	return ignore.CompileIgnoreLines(patterns...)
}

// looksSuspicious applies the path heuristic from spec.md §4.5 step 2:
// flag a path whose directory part holds more than 3 `..` components,
// that passes through a node_modules component, whose total component
// count exceeds 20, or whose depth from the entry exceeds 15.
func looksSuspicious(path string, depthFromEntry int) bool {
	if depthFromEntry > 15 {
		return true
	}

	dir := filepath.Dir(path)
	components := strings.Split(filepath.ToSlash(dir), "/")
	parents := 0
	for _, c := range components {
		if c == "node_modules" {
			return true
		}
		if c == ".." {
			parents++
		}
	}
	if parents > 3 {
		return true
	}

	allComponents := strings.Split(filepath.ToSlash(path), "/")
	count := 0
	for _, c := range allComponents {
		if c != "" && c != "." {
			count++
		}
	}
	return count > 20
}
