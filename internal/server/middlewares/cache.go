package middleware

// Responses are kept in an in-process LRU; entries also expire after a TTL so
// a fresh day of data becomes visible without a restart.

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
)

// CacheStatusHeader reports HIT or MISS on cacheable routes.
const CacheStatusHeader = "X-Cache"

const noStoreKey = "cache.no_store"

type cachedResponse struct {
	contentType string
	body        []byte
	expires     time.Time
}

// Cache is an LRU of successful responses keyed by path and raw query.
type Cache struct {
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache holding at most size responses, each valid for
// ttl. A zero ttl never expires entries.
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, ttl: ttl, now: time.Now}, nil
}

// NoStore keeps the current response out of the cache even if it is a 200.
func NoStore(c *gin.Context) {
	c.Set(noStoreKey, true)
}

func (rc *Cache) Len() int { return rc.entries.Len() }

func (rc *Cache) Purge() { rc.entries.Purge() }

// Handler serves cached responses and stores 200 responses of the
// downstream handlers.
func (rc *Cache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := generateCacheKey(c.Request)

		if v, ok := rc.entries.Get(key); ok {
			cached := v.(*cachedResponse)
			if rc.ttl <= 0 || rc.now().Before(cached.expires) {
				c.Header(CacheStatusHeader, "HIT")
				c.Data(http.StatusOK, cached.contentType, cached.body)
				c.Abort()
				return
			}
			rc.entries.Remove(key)
		}

		c.Header(CacheStatusHeader, "MISS")
		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if w.Status() != http.StatusOK || c.GetBool(noStoreKey) {
			return
		}
		rc.entries.Add(key, &cachedResponse{
			contentType: w.Header().Get("Content-Type"),
			body:        w.body.Bytes(),
			expires:     rc.now().Add(rc.ttl),
		})
	}
}

// generateCacheKey identifies a response by path and query.
func generateCacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.RawQuery
}

type bodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
