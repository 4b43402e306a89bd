package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaKey      = "response_meta"
	metaStartKey = "response_meta_start"
	cacheHitKey  = "cache_hit"
)

// ResponseMeta prepares per-request metadata that handlers may attach to the
// JSON envelope.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaStartKey, time.Now())
		c.Set(metaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the payload came from the cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta(c)[cacheHitKey] = hit
}

// Meta returns the collected metadata stamped with the elapsed time, or nil when
// nothing was recorded.
func Meta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	m := meta(c)
	if len(m) == 0 {
		return nil
	}
	if start, ok := c.Get(metaStartKey); ok {
		if t, ok := start.(time.Time); ok {
			m["processing_time_ms"] = time.Since(t).Milliseconds()
		}
	}
	return m
}

func meta(c *gin.Context) map[string]interface{} {
	if value, ok := c.Get(metaKey); ok {
		if typed, ok := value.(map[string]interface{}); ok {
			return typed
		}
	}
	m := make(map[string]interface{})
	c.Set(metaKey, m)
	return m
}
