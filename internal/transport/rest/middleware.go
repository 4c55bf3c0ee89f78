package rest

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"devtracker/internal/domain"
	"devtracker/internal/metrics"
)

const (
	authorizationHeader = "Authorization"
	anonymousIDHeader   = "X-Anonymous-ID"
	requestIDHeader     = "X-Request-ID"

	identityCtx  = "identity"
	requestIDCtx = "request_id"
)

var anonymousIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func (h *Handler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDCtx, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTPRequest(route, c.Request.Method, status)

		logger := h.logger.With(
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("request_id", c.GetString(requestIDCtx)),
		)

		if status >= 500 {
			logger.Error("server error")
		} else if status >= 400 {
			logger.Warn("client error")
		} else {
			logger.Info("request processed")
		}
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, Origin, X-Anonymous-ID, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Anonymous-ID, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiters == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !h.limiters.get(ip).Allow() {
			h.logger.Warn("rate limit exceeded", zap.String("ip", ip))
			errorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded, try again later")
			return
		}

		c.Next()
	}
}

// identityMiddleware resolves the caller from a bearer token, then the
// X-Anonymous-ID header, and otherwise mints a new anonymous id that is
// echoed back so the client can reuse it.
func (h *Handler) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader(authorizationHeader); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				errorResponse(c, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			userID, err := h.tokens.Parse(parts[1])
			if err != nil {
				h.logger.Debug("token rejected", zap.Error(err))
				errorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			c.Set(identityCtx, domain.UserIdentity(userID))
			c.Next()
			return
		}

		token := strings.TrimPrefix(strings.TrimSpace(c.GetHeader(anonymousIDHeader)), domain.AnonymousPrefix)
		if token == "" {
			token = uuid.NewString()
		} else if !anonymousIDPattern.MatchString(token) {
			badRequestResponse(c, "Invalid anonymous id")
			return
		}

		c.Header(anonymousIDHeader, token)
		c.Set(identityCtx, domain.AnonymousIdentity(token))
		c.Next()
	}
}

func getIdentity(c *gin.Context) (domain.Identity, error) {
	value, exists := c.Get(identityCtx)
	if !exists {
		return domain.Identity{}, errors.New("identity not resolved")
	}

	identity, ok := value.(domain.Identity)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, errors.New("invalid identity")
	}

	return identity, nil
}

// limiterStore keeps one token bucket per client IP. Buckets idle for longer
// than limiterIdle are dropped on the next sweep.
type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdle = 10 * time.Minute

func newLimiterStore(requestsPerMinute, burst int) *limiterStore {
	if requestsPerMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiterStore{
		limiters:  make(map[string]*limiterEntry),
		limit:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) > limiterIdle {
		for key, entry := range s.limiters {
			if now.Sub(entry.lastSeen) > limiterIdle {
				delete(s.limiters, key)
			}
		}
		s.lastSweep = now
	}

	entry, exists := s.limiters[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}
