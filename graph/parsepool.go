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
	"context"
	"runtime"

	"depbundle.dev/depbundle/importscan"
)

// parsePool off-loads CPU-bound tree-sitter parsing onto a fixed set of
// dedicated goroutines, fed by a jobs channel, so the (much larger)
// population of exploring goroutines spends its time on I/O and
// resolution rather than contending with parsing for the same workers.
type parsePool struct {
	jobs chan parseJob
}

type parseJob struct {
	path    string
	content []byte
	result  chan parseResult
}

type parseResult struct {
	imports []importscan.Import
	err     error
}

// newParsePool starts n worker goroutines. n <= 0 defaults to
// runtime.GOMAXPROCS(0), since parsing is CPU-bound and gains nothing
// from oversubscription.
func newParsePool(n int) *parsePool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &parsePool{jobs: make(chan parseJob)}
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *parsePool) work() {
	for job := range p.jobs {
		imports, err := importscan.ExtractImports(job.path, job.content)
		job.result <- parseResult{imports: imports, err: err}
	}
}

// extract submits a parse job and blocks until it completes or ctx is
// cancelled.
func (p *parsePool) extract(ctx context.Context, path string, content []byte) ([]importscan.Import, error) {
	result := make(chan parseResult, 1)
	select {
	case p.jobs <- parseJob{path: path, content: content, result: result}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-result:
		return r.imports, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// stop closes the jobs channel, letting every worker goroutine drain and
// exit. Call once, after the traversal that owns this pool has finished.
func (p *parsePool) stop() {
	close(p.jobs)
}
