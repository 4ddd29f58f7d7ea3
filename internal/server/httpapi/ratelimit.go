package httpapi

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP's limiter survives without traffic.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter gives every client IP its own token bucket refilling at
// perMinute/60 tokens per second with a burst of perMinute.
type ipRateLimiter struct {
	mu        sync.Mutex
	perMinute int
	entries   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

// newIPRateLimiter returns a limiter; perMinute <= 0 disables limiting.
func newIPRateLimiter(perMinute int) *ipRateLimiter {
	return &ipRateLimiter{
		perMinute: perMinute,
		entries:   make(map[string]*limiterEntry),
		now:       time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	if l.perMinute <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// clientIP returns the connection's remote host. With trustProxy it prefers
// the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
