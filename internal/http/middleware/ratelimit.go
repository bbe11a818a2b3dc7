package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"lan_chess/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter - лимит запросов на ключ (IP клиента) за окно.
// С redis это фиксированное окно, общее для всех инстансов. Без redis
// на каждый ключ заводится token bucket из x/time/rate с тем же средним темпом.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter; limit <= 0 отключает ограничение
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		rdb:      rdb,
		limit:    limit,
		window:   window,
		now:      time.Now,
		limiters: make(map[string]*visitor),
	}
}

// Allow учитывает запрос и сообщает, укладывается ли ключ в лимит
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l.limit <= 0 {
		return true
	}
	if l.rdb != nil {
		ok, err := l.allowRedis(ctx, key)
		if err == nil {
			return ok
		}
		// redis недоступен - считаем локально
		logger.Warn("rate limiter: redis failed, using memory", "error", err)
	}
	return l.allowMemory(key)
}

func (l *RateLimiter) allowRedis(ctx context.Context, key string) (bool, error) {
	now := l.now()
	slot := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("lanchess:rl:%s:%d", key, slot)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *RateLimiter) allowMemory(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) > 1024 {
			l.pruneLocked(now)
		}
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.limit)), l.limit)}
		l.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// за окно простоя bucket полностью восполняется, такой ключ можно забыть
func (l *RateLimiter) pruneLocked(now time.Time) {
	for k, v := range l.limiters {
		if now.Sub(v.lastSeen) >= l.window {
			delete(l.limiters, k)
		}
	}
}

// Middleware отвечает 429, если клиент превысил лимит
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
