package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/entity"
	"github.com/next-levels/go-cms/web/locale"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// RateLimitConfig configures rate limiting.
type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	KeyFunc   func(c *gin.Context) string
	SkipPaths []string
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{"/assets/", "/favicon.ico"},
	}
}

func (config RateLimitConfig) shouldSkip(path string) bool {
	for _, skipPath := range config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

type window struct {
	count int
	reset time.Time
}

// RateLimitMiddleware allows config.Requests per key and path within config.Window.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	counters := cache.New(config.Window, 2*config.Window)
	var mu sync.Mutex

	return func(c *gin.Context) {
		if config.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := config.KeyFunc(c) + ":" + c.FullPath()
		now := time.Now()

		mu.Lock()
		w := window{reset: now.Add(config.Window)}
		if v, ok := counters.Get(key); ok {
			w = v.(window)
		}
		w.count++
		counters.Set(key, w, w.reset.Sub(now))
		mu.Unlock()

		remaining := max(config.Requests-w.count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(w.reset.Unix(), 10))

		if w.count > config.Requests {
			logger.Warningf("Rate limit exceeded for %s on %s (count: %d)", key, c.Request.URL.Path, w.count)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.Msg{Msg: locale.I18n(c, "errors.rateLimited")})
			return
		}
		c.Next()
	}
}
