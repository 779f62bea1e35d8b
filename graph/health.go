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
	"sync"
	"time"
)

// health tracks traversal liveness (stuck detection) and error volume
// (circuit breaker). A successful read-and-parse resets the consecutive
// error count; total errors never reset within one traversal.
type health struct {
	mu                sync.Mutex
	lastProgress      time.Time
	consecutiveErrors int
	totalErrors       int
}

func newHealth() *health {
	return &health{lastProgress: time.Now()}
}

func (h *health) recordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastProgress = time.Now()
	h.consecutiveErrors = 0
}

// recordError increments both error counters and returns their new values,
// so the caller can decide whether the circuit breaker has tripped.
func (h *health) recordError() (consecutive, total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutiveErrors++
	h.totalErrors++
	return h.consecutiveErrors, h.totalErrors
}

func (h *health) stuckSince(threshold time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Since(h.lastProgress) > threshold
}
