package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// BlobCache stores rendered byte payloads such as chart images. Entries are
// weighted by their length, so MaxBytes bounds memory rather than entry count.
type BlobCache struct {
	cache *ristretto.Cache[string, []byte]
	ttl   time.Duration
}

// NewBlobCache creates a cache holding roughly maxBytes of payloads for ttl each.
func NewBlobCache(maxBytes int64, ttl time.Duration) (*BlobCache, error) {
	if maxBytes < 1 {
		maxBytes = 1
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     maxBytes,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("create blob cache: %w", err)
	}
	return &BlobCache{cache: c, ttl: ttl}, nil
}

func (b *BlobCache) Get(key string) ([]byte, bool) {
	return b.cache.Get(key)
}

// Set stores data. Admission is asynchronous and may be refused by the policy;
// the returned bool reports whether the write was accepted into the buffer.
func (b *BlobCache) Set(key string, data []byte) bool {
	return b.cache.SetWithTTL(key, data, int64(len(data))+1, b.ttl)
}

func (b *BlobCache) Delete(key string) {
	b.cache.Del(key)
}

// Wait blocks until buffered writes are applied.
func (b *BlobCache) Wait() {
	b.cache.Wait()
}

func (b *BlobCache) Close() {
	b.cache.Close()
}
