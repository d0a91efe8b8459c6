package security

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// LoginLimiter throttles password attempts with a fixed window per client
// address
type LoginLimiter struct {
	mu        sync.Mutex
	windows   map[string]*attemptWindow
	limit     int
	window    time.Duration
	lastSweep time.Time
}

type attemptWindow struct {
	remaining int
	resetAt   time.Time
}

// NewLoginLimiter allows limit attempts per window for each client address
func NewLoginLimiter(limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		windows:   make(map[string]*attemptWindow),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

// Allow consumes one attempt for addr, reporting whether it may proceed
func (l *LoginLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	w, ok := l.windows[addr]
	if !ok || now.After(w.resetAt) {
		w = &attemptWindow{remaining: l.limit, resetAt: now.Add(l.window)}
		l.windows[addr] = w
	}

	if w.remaining == 0 {
		log.WithField("addr", addr).Warn("Login attempts throttled")
		return false
	}
	w.remaining--
	return true
}

// sweep drops expired windows. Called under the lock; runs at most once per
// window so steady traffic does not pay for it on every attempt.
func (l *LoginLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for addr, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, addr)
		}
	}
	l.lastSweep = now
}

// ClientAddr extracts the client address from the request, preferring proxy
// headers. Only the first X-Forwarded-For entry is the client; the rest are
// proxy hops.
func ClientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
