package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle key entry is eligible
	// for cleanup.
	maxIdleAge = 10 * time.Minute
)

type keyEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyRateLimiter throttles submissions per decoder key, pruning stale
// entries inline. Authenticated decoder names are the limiter keys, so a
// burst from one account cannot starve the rest.
type KeyRateLimiter struct {
	keys map[string]*keyEntry
	mu   sync.Mutex
	r    rate.Limit
	b    int
}

// NewKeyRateLimiter creates a new KeyRateLimiter allowing r events per
// second with burst b.
func NewKeyRateLimiter(r rate.Limit, b int) *KeyRateLimiter {
	return &KeyRateLimiter{
		keys: make(map[string]*keyEntry),
		r:    r,
		b:    b,
	}
}

// Allow reports whether the key may proceed.
func (l *KeyRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.keys) > cleanupThreshold {
		cutoff := time.Now().Add(-maxIdleAge)
		for k, e := range l.keys {
			if e.lastSeen.Before(cutoff) {
				delete(l.keys, k)
			}
		}
	}

	e, exists := l.keys[key]
	if !exists {
		e = &keyEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.keys[key] = e
	}
	e.lastSeen = time.Now()

	return e.limiter.Allow()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger returns a middleware that logs each request with slog.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.InfoContext(r.Context(), "HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
