/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

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

package server

import "sync"

// documentCache holds the latest text per URI. Insert, remove, and get
// are individually atomic; there is no cross-key invariant, so no
// composite locking is required.
type documentCache struct {
	mu   sync.RWMutex
	text map[string]string
}

func newDocumentCache() *documentCache {
	return &documentCache{text: make(map[string]string)}
}

func (c *documentCache) set(uri, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text[uri] = text
}

func (c *documentCache) get(uri string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.text[uri]
	return text, ok
}

func (c *documentCache) remove(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.text, uri)
}
