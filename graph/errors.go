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

import "errors"

// Fatal traversal errors, per spec.md §7's Entry and Limit error classes.
var (
	ErrEntryUnresolvable = errors.New("graph: entry path not canonicalizable")
	ErrEntryUnsupported  = errors.New("graph: entry file extension not supported")
	ErrMaxFilesExceeded  = errors.New("graph: max-files limit exceeded")
	ErrStuck             = errors.New("graph: no progress observed, traversal appears stuck")
	ErrCircuitBreaker    = errors.New("graph: circuit breaker tripped on accumulated errors")
)
