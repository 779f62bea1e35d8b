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
	"fmt"
	"os"
	"time"
)

// Options configures a traversal. Apart from ParseWorkers, zero-value
// fields are NOT automatically defaulted — callers should start from
// DefaultOptions.
type Options struct {
	MaxDepth          int
	MaxFiles          int
	ConcurrencyLimit  int
	IncludeAssets     bool
	Exclude           []string
	Verbose           bool
	StuckAfter        time.Duration
	HealthCheckEvery  int
	MaxConsecutiveErr int
	MaxTotalErr       int

	// ParseWorkers sizes the dedicated CPU-bound parse pool (see
	// graph/parsepool.go). <= 0 defaults to runtime.GOMAXPROCS(0).
	ParseWorkers int
}

// DefaultOptions returns the option defaults named throughout spec.md §6
// and §4.5.
func DefaultOptions() Options {
	return Options{
		MaxDepth:          50,
		MaxFiles:          10000,
		ConcurrencyLimit:  32,
		IncludeAssets:     false,
		StuckAfter:        30 * time.Second,
		HealthCheckEvery:  100,
		MaxConsecutiveErr: 50,
		MaxTotalErr:       1000,
	}
}

// Logger is the minimal logging capability the traverser needs. Debug and
// Info are expected to be gated on a verbose flag by the implementation;
// Warning always surfaces.
type Logger interface {
	Warning(format string, args ...any)
	Info(format string, args ...any)
	Debug(format string, args ...any)
}

// StderrLogger writes to os.Stderr, gating Debug/Info on Verbose — the
// same shape as the teacher's logging, just with an Info level added for
// spec.md §6's "verbose promotes log level from warn to info".
type StderrLogger struct {
	Verbose bool
}

func (l StderrLogger) Warning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warn: "+format+"\n", args...)
}

func (l StderrLogger) Info(format string, args ...any) {
	if l.Verbose {
		fmt.Fprintf(os.Stderr, "info: "+format+"\n", args...)
	}
}

func (l StderrLogger) Debug(format string, args ...any) {
	if l.Verbose {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}
