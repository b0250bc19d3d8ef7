package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"lending-engine/internal/config"
)

// RateLimiterMiddleware throttles requests per client IP. With a Redis client
// it counts in a shared fixed window so the limit holds across instances;
// without one it falls back to per-process token buckets.
type RateLimiterMiddleware struct {
	redisClient *redis.Client
	limiters    sync.Map
	cfg         config.RateLimitConfig
	logger      *slog.Logger
	window      time.Duration
}

func NewRateLimiterMiddleware(cfg config.RateLimitConfig, redisClient *redis.Client, logger *slog.Logger) *RateLimiterMiddleware {
	if !cfg.Enabled {
		logger.Info("Rate limiting is disabled via configuration.")
	} else if redisClient == nil {
		logger.Info("Rate limiter using in-process token buckets", "rps", cfg.RPS, "burst", cfg.Burst)
	} else {
		logger.Info("Rate limiter using Redis fixed window", "rps", cfg.RPS)
	}

	rl := &RateLimiterMiddleware{
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
		window:      1 * time.Second,
	}

	if cfg.Enabled && redisClient == nil {
		go rl.cleanupLimiters()
	}

	return rl
}

func (rl *RateLimiterMiddleware) getLimiter(ip string) *rate.Limiter {
	limiter, exists := rl.limiters.Load(ip)
	if !exists {
		newLimiter := rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)
		rl.limiters.Store(ip, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

func (rl *RateLimiterMiddleware) cleanupLimiters() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.limiters.Range(func(key, value interface{}) bool {
			limiter := value.(*rate.Limiter)
			if limiter.AllowN(time.Now(), 0) {
				rl.limiters.Delete(key)
			}
			return true
		})
	}
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		ip := strings.TrimSpace(ips[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" && net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return ip
	}
	if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
		return parsed.String()
	}
	return "unknown"
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)

		var allowed bool
		if rl.redisClient != nil {
			allowed = rl.allowRedis(r, ip)
		} else {
			allowed = rl.getLimiter(ip).Allow()
		}

		if !allowed {
			rl.logger.Warn("Rate limit exceeded", "ip", ip, "limit", rl.cfg.RPS)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.window.Seconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"message": fmt.Sprintf("Rate limit exceeded. Limit is %.0f requests per %v.", rl.cfg.RPS, rl.window),
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowRedis counts the request in a per-IP fixed window. Redis failures fail
// open: throttling is protection, not correctness.
func (rl *RateLimiterMiddleware) allowRedis(r *http.Request, ip string) bool {
	ctx := r.Context()
	key := fmt.Sprintf("ratelimit:%s", ip)

	pipe := rl.redisClient.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		rl.logger.Error("Redis pipeline failed during rate limiting check", "error", err, "ip", ip)
		return true
	}

	currentCount, err := incrCmd.Result()
	if err != nil {
		rl.logger.Error("Failed to get INCR result after pipeline exec", "error", err, "ip", ip)
		return true
	}

	if ttl, err := ttlCmd.Result(); err == nil && (ttl == -1 || ttl == -2) {
		if err := rl.redisClient.Expire(ctx, key, rl.window).Err(); err != nil {
			rl.logger.Error("Failed to set Redis EXPIRE for rate limit key", "error", err, "ip", ip)
		}
	}

	return currentCount <= int64(rl.cfg.RPS)
}
