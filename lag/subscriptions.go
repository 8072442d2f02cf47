package lag

import (
	"time"

	"github.com/jellydator/ttlcache/v2"
)

// subscriptionCache remembers which consumer groups have committed offsets for a topic. Entries expire after a fixed
// TTL that is not extended by reads, so new subscribers are picked up at the latest after one TTL.
type subscriptionCache struct {
	cache *ttlcache.Cache
}

func newSubscriptionCache(ttl time.Duration) *subscriptionCache {
	cache := ttlcache.NewCache()
	_ = cache.SetTTL(ttl)
	cache.SkipTTLExtensionOnHit(true)

	return &subscriptionCache{cache: cache}
}

func (c *subscriptionCache) get(topic string) ([]string, bool) {
	val, err := c.cache.Get(topic)
	if err != nil {
		subscriptionCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	subscriptionCacheLookups.WithLabelValues("hit").Inc()

	return val.([]string), true
}

func (c *subscriptionCache) set(topic string, groups []string) {
	_ = c.cache.Set(topic, groups)
}

func (c *subscriptionCache) close() {
	_ = c.cache.Close()
}
