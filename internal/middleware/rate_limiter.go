package middleware

import (
	"net/http"
	"sync"
	"time"

	"liquidacion/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per key within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// limiter is one independent set of counters; each RateLimiter call gets its own.
type limiter struct {
	name    string
	limit   int
	window  time.Duration
	entries map[string]*rateEntry
	mu      sync.Mutex
}

const purgeInterval = 5 * time.Minute

// RateLimiter returns a per-IP fixed-window limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter("api", limit, window).handler(func(c *gin.Context) string { return c.ClientIP() },
		"Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// RecalculoRateLimiter limits recalculation requests per user and carga, since
// each one re-prices a whole carga.
func RecalculoRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter("recalculo", limit, window).handler(func(c *gin.Context) string {
		user := c.ClientIP()
		if claims := GetClaims(c); claims != nil {
			user = claims.Username
		}
		return user + "|" + c.Param("id")
	}, "Demasiados recálculos para esta carga. Intente en un momento.")
}

func newLimiter(name string, limit int, window time.Duration) *limiter {
	l := &limiter{name: name, limit: limit, window: window, entries: make(map[string]*rateEntry)}
	go l.purgeExpiredEntries()
	return l
}

func (l *limiter) handler(key func(*gin.Context) string, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)

		l.mu.Lock()
		entry, exists := l.entries[k]
		if !exists {
			entry = &rateEntry{}
			l.entries[k] = entry
		}
		l.mu.Unlock()

		entry.mu.Lock()
		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(l.window)
		}
		entry.count++
		over, windowEnd := entry.count > l.limit, entry.windowEnd
		entry.mu.Unlock()

		if over {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// purgeExpiredEntries periodically removes expired keys so keys that never
// return do not accumulate.
func (l *limiter) purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		purged := 0
		for k, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, k)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entries)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Str("limiter", l.name).
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}
