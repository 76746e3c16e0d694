package fusion

import (
	"sync"
	"time"
)

// deduper is a TTL set of recently emitted dedupe keys. The store's unique
// index is the durable guard; this avoids the round trip for the common case
// of a camera replaying the same window.
type deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]time.Time
}

func newDeduper(ttl time.Duration) *deduper {
	return &deduper{ttl: ttl, keys: make(map[string]time.Time)}
}

// seen records the key and reports whether it was already present.
func (d *deduper) seen(key string) bool {
	if key == "" {
		return false
	}
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	for k, at := range d.keys {
		if now.Sub(at) > d.ttl {
			delete(d.keys, k)
		}
	}
	if _, ok := d.keys[key]; ok {
		return true
	}
	d.keys[key] = now
	return false
}
