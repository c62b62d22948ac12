package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newCachedRouter serves /status through the cache and counts handler calls.
func newCachedRouter(t *testing.T, cache *Cache, status int, noStore bool) (*gin.Engine, *int) {
	t.Helper()
	calls := 0
	r := gin.New()
	r.GET("/status", cache.Handler(), func(c *gin.Context) {
		calls++
		if noStore {
			NoStore(c)
		}
		c.Data(status, "application/json", []byte(`{"days":"`+c.Query("days")+`"}`))
	})
	return r, &calls
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestCacheHandler(t *testing.T) {
	cache, err := NewCache(2, time.Minute)
	require.NoError(t, err)
	r, calls := newCachedRouter(t, cache, http.StatusOK, false)

	// cache miss
	w := get(r, "/status?days=7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get(CacheStatusHeader))
	assert.Equal(t, `{"days":"7"}`, w.Body.String())

	// cache hit
	w = get(r, "/status?days=7")
	assert.Equal(t, "HIT", w.Header().Get(CacheStatusHeader))
	assert.Equal(t, `{"days":"7"}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, 1, *calls)

	// Different query - cache miss
	get(r, "/status?days=8")
	get(r, "/status?days=9")
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 2, cache.Len())

	// The first request should have been evicted due to cache size.
	w = get(r, "/status?days=7")
	assert.Equal(t, "MISS", w.Header().Get(CacheStatusHeader))
	assert.Equal(t, 4, *calls)
}

func TestCacheHandlerExpiry(t *testing.T) {
	cache, err := NewCache(10, time.Minute)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	r, calls := newCachedRouter(t, cache, http.StatusOK, false)

	get(r, "/status")
	now = now.Add(59 * time.Second)
	assert.Equal(t, "HIT", get(r, "/status").Header().Get(CacheStatusHeader))

	now = now.Add(time.Second)
	assert.Equal(t, "MISS", get(r, "/status").Header().Get(CacheStatusHeader))
	assert.Equal(t, 2, *calls)
}

func TestCacheHandlerSkipsUncacheable(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		noStore bool
	}{
		{name: "bad request", status: http.StatusBadRequest},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "no store", status: http.StatusOK, noStore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, err := NewCache(10, time.Minute)
			require.NoError(t, err)
			r, calls := newCachedRouter(t, cache, tt.status, tt.noStore)

			get(r, "/status?days=1")
			w := get(r, "/status?days=1")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "MISS", w.Header().Get(CacheStatusHeader))
			assert.Equal(t, 2, *calls)
			assert.Zero(t, cache.Len())
		})
	}
}

func TestNewCacheInvalidSize(t *testing.T) {
	_, err := NewCache(0, time.Minute)
	assert.Error(t, err)
}
