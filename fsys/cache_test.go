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

package fsys

import (
	"fmt"
	"testing"
)

type countingFS struct {
	reads map[string]int
	data  map[string]string
}

func newCountingFS() *countingFS {
	return &countingFS{reads: make(map[string]int), data: make(map[string]string)}
}

func (f *countingFS) ReadFile(path string) ([]byte, error) {
	f.reads[path]++
	content, ok := f.data[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(content), nil
}

func (f *countingFS) Exists(path string) bool       { _, ok := f.data[path]; return ok }
func (f *countingFS) IsDir(path string) bool        { return false }
func (f *countingFS) Canonicalize(p string) (string, error) { return p, nil }

func TestCachingReturnsSameContentAndMemoizes(t *testing.T) {
	inner := newCountingFS()
	inner.data["/a.ts"] = "hello"

	c := NewCaching(inner, 512)

	for i := 0; i < 3; i++ {
		content, err := c.ReadFile("/a.ts")
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if string(content) != "hello" {
			t.Fatalf("got %q, want %q", content, "hello")
		}
	}

	if inner.reads["/a.ts"] != 1 {
		t.Errorf("expected inner.ReadFile to be called once, got %d", inner.reads["/a.ts"])
	}
}

func TestCachingEvictsLeastRecentlyUsed(t *testing.T) {
	inner := newCountingFS()
	inner.data["/a.ts"] = "a"
	inner.data["/b.ts"] = "b"
	inner.data["/c.ts"] = "c"

	c := NewCaching(inner, 2)

	if _, err := c.ReadFile("/a.ts"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReadFile("/b.ts"); err != nil {
		t.Fatal(err)
	}
	// touch "a" again so "b" becomes the least-recently-used entry.
	if _, err := c.ReadFile("/a.ts"); err != nil {
		t.Fatal(err)
	}
	// inserting "c" should evict "b", not "a".
	if _, err := c.ReadFile("/c.ts"); err != nil {
		t.Fatal(err)
	}

	if c.Size() != 2 {
		t.Fatalf("expected cache size 2, got %d", c.Size())
	}

	if _, err := c.ReadFile("/a.ts"); err != nil {
		t.Fatal(err)
	}
	if inner.reads["/a.ts"] != 1 {
		t.Errorf("expected 'a' to still be cached (1 inner read), got %d", inner.reads["/a.ts"])
	}

	if _, err := c.ReadFile("/b.ts"); err != nil {
		t.Fatal(err)
	}
	if inner.reads["/b.ts"] != 2 {
		t.Errorf("expected 'b' to have been evicted (2 inner reads), got %d", inner.reads["/b.ts"])
	}
}

func TestCachingPassesThroughNonReadOperations(t *testing.T) {
	inner := newCountingFS()
	inner.data["/dir"] = ""

	c := NewCaching(inner, 512)
	if !c.Exists("/dir") {
		t.Error("expected Exists to pass through to inner filesystem")
	}
	if got, _ := c.Canonicalize("/dir"); got != "/dir" {
		t.Errorf("expected Canonicalize to pass through, got %q", got)
	}
}
