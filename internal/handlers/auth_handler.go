package handlers

import (
	"net/http"
	"time"

	"hanguldrill/internal/security"

	log "github.com/sirupsen/logrus"
)

// AuthHandler handles the single-user login flow
type AuthHandler struct {
	sessions     *security.SessionManager
	passwordHash string
	limiter      *security.LoginLimiter
}

// NewAuthHandler creates a new auth handler. Login attempts are rate limited
// per client address.
func NewAuthHandler(sessions *security.SessionManager, passwordHash string, limiter *security.LoginLimiter) *AuthHandler {
	return &AuthHandler{sessions: sessions, passwordHash: passwordHash, limiter: limiter}
}

// Login checks the app password and issues a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	addr := security.ClientAddr(r)
	if !h.limiter.Allow(addr) {
		respondWithError(w, http.StatusTooManyRequests, "Too many login attempts", nil)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if !security.VerifyPassword(h.passwordHash, req.Password) {
		log.WithField("addr", addr).Warn("Failed login attempt")
		respondWithError(w, http.StatusUnauthorized, "Incorrect password", nil)
		return
	}

	token, err := h.sessions.IssueToken()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, token, time.Now().Add(h.sessions.Duration())))
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
