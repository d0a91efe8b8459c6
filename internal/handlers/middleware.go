package handlers

import (
	"net/http"
	"strings"
	"time"

	"hanguldrill/internal/security"

	log "github.com/sirupsen/logrus"
)

// Middleware holds dependencies for the request middleware chain
type Middleware struct {
	sessions    *security.SessionManager
	authEnabled bool
}

// NewMiddleware creates a new middleware instance. When authEnabled is false
// (no password hash configured) every request passes.
func NewMiddleware(sessions *security.SessionManager, authEnabled bool) *Middleware {
	return &Middleware{sessions: sessions, authEnabled: authEnabled}
}

// LogRequests logs method, path, status and duration for every request
func (m *Middleware) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Info("Request handled")
	})
}

// RequireAuth rejects requests without a valid session token, taken from the
// session cookie or an Authorization bearer header
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.authEnabled {
			next(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}

		if err := m.sessions.VerifyToken(token); err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r))
			respondWithError(w, http.StatusUnauthorized, "Session expired", err)
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
