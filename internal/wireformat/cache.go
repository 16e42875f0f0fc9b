package wireformat

import "sync"

// StringCache implements the broker-assigned short-string cache spec.md
// §6 describes: once cacheEnabled is negotiated, a destination name or
// other repeated string can be sent once and referenced afterwards by a
// small integer index instead of being repeated on the wire.
//
// gowire's codec never emits cache-entry references itself (every command
// in commands_*.go encodes its strings directly) and does not decode them
// either: no unmarshal path consults a StringCache, so a frame from a
// peer that uses cache references is not understood. Format builds a
// StringCache when cacheEnabled is negotiated; no codec path reads or
// fills it.
type StringCache struct {
	mu      sync.Mutex
	size    int
	entries []string
	next    int
}

// NewStringCache builds a cache with room for size entries. size == 0
// disables the cache (every lookup/store is a no-op).
func NewStringCache(size int) *StringCache {
	if size < 0 {
		size = 0
	}
	return &StringCache{size: size, entries: make([]string, size)}
}

// Store records s at the next cache slot, wrapping around per the
// broker's round-robin eviction policy, and returns the index it was
// assigned.
func (c *StringCache) Store(s string) int {
	if c.size == 0 {
		return -1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.next
	c.entries[idx] = s
	c.next = (c.next + 1) % c.size
	return idx
}

// Lookup returns the string previously Stored at idx.
func (c *StringCache) Lookup(idx int) (string, bool) {
	if c.size == 0 || idx < 0 || idx >= c.size {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[idx], c.entries[idx] != ""
}
