package security

import (
	"context"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/util"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	defaultAllowedHeaders = []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With"}
	defaultAllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
)

// CORS 仅允许白名单中的 Origin；请求头与方法可配置，未配置时用默认列表
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	originSet := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		originSet[o] = true
	}

	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultAllowedHeaders
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultAllowedMethods
	}
	allowHeaders := strings.Join(headers, ", ")
	allowMethods := strings.Join(methods, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && originSet[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		c.Writer.Header().Set("Access-Control-Allow-Methods", allowMethods)
		if cfg.MaxAgeSeconds > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAgeSeconds))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// visitor 单个客户端的令牌桶及最后活跃时间
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter 按客户端 IP 的令牌桶集合
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newIPLimiter(maxRequests int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
	}
}

// reserve 返回是否放行，拒绝时附带建议的重试间隔
func (l *ipLimiter) reserve(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep 删除超过 expiry 未活跃的条目
func (l *ipLimiter) sweep(now time.Time, expiry time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > expiry {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimiter 按 IP 限流，window 内最多 maxRequests 次。
// 过期条目由后台协程清理，ctx 结束时协程退出。
func RateLimiter(ctx context.Context, cfg config.RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	limiter := newIPLimiter(cfg.MaxRequests, window)

	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				limiter.sweep(now, expiry)
			}
		}
	}()

	return func(c *gin.Context) {
		allowed, retryAfter := limiter.reserve(c.ClientIP(), time.Now())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			util.Error(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
