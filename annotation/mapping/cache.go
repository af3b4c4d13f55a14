package mapping

import (
	"fmt"
	"sync"

	"github.com/minio/highwayhash"
	"golang.org/x/sync/singleflight"

	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/errkind"
	"github.com/viant/anno/annotation/filter"
	"github.com/viant/anno/annotation/repeatable"
)

// hashKey mirrors the teacher's graph.Hash helper (HighwayHash-64 with a
// fixed key) to turn a cache identity into a compact map key (§5: cache
// entries keyed by (root_type, filter_identity, repeatable_containers_identity)).
var hashKey = []byte("anno-mapping-cache-0123456789AB!")

type cacheEntry struct {
	mappings *Mappings
	err      error
}

// Cache is the process-wide, lazily-populated AnnotationTypeMappings cache
// (§5, §9 "Global cache"). Concurrent misses may recompute; the first
// committed entry wins via singleflight, matching the "per-key computation
// guarded by a value-init idiom" with no synchronization on the hot read
// path (sync.Map).
type Cache struct {
	entries sync.Map // uint64 -> *cacheEntry
	group   singleflight.Group
}

// NewCache creates an empty, ready-to-use cache.
func NewCache() *Cache { return &Cache{} }

// Get returns the AnnotationTypeMappings for rootType under f and
// containers, computing and caching it on first use. A construction-time
// error (§7) is cached too, so a second request for the same misconfigured
// type returns the same error without re-introspecting.
func (c *Cache) Get(provider annotation.IntrospectionProvider, f filter.Filter, containers repeatable.Containers, rootType string) (*Mappings, error) {
	if rootType == "" {
		return nil, errkind.Newf(errkind.NullArgument, "", "rootType")
	}
	key := cacheKey(rootType, f, containers)
	if v, ok := c.entries.Load(key); ok {
		e := v.(*cacheEntry)
		return e.mappings, e.err
	}
	v, _, _ := c.group.Do(fmt.Sprint(key), func() (any, error) {
		if v, ok := c.entries.Load(key); ok {
			return v, nil
		}
		mappings, err := Build(provider, f, containers, rootType)
		entry := &cacheEntry{mappings: mappings, err: err}
		actual, _ := c.entries.LoadOrStore(key, entry)
		return actual, nil
	})
	e := v.(*cacheEntry)
	return e.mappings, e.err
}

// Clear empties the cache. Intended only for tests, per §5.
func (c *Cache) Clear() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}

func cacheKey(rootType string, f filter.Filter, containers repeatable.Containers) uint64 {
	hash, err := highwayhash.New64(hashKey)
	if err != nil {
		// hashKey is a fixed 32-byte constant; New64 only errors on key
		// length, so this is unreachable in practice.
		panic(err)
	}
	_, _ = hash.Write([]byte(rootType))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(f.String()))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(fmt.Sprintf("%v", containers)))
	return hash.Sum64()
}
