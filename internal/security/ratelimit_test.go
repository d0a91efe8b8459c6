package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginLimiterThrottlesPerAddress(t *testing.T) {
	limiter := NewLoginLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("203.0.113.7") {
			t.Fatalf("attempt %d refused, want allowed", i+1)
		}
	}
	if limiter.Allow("203.0.113.7") {
		t.Fatal("attempt over the limit allowed, want refused")
	}

	// Another address keeps its own budget.
	if !limiter.Allow("198.51.100.4") {
		t.Fatal("fresh address refused, want allowed")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 10*time.Millisecond)

	if !limiter.Allow("203.0.113.7") {
		t.Fatal("first attempt refused, want allowed")
	}
	if limiter.Allow("203.0.113.7") {
		t.Fatal("second attempt allowed, want refused")
	}

	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("203.0.113.7") {
		t.Fatal("attempt after window refused, want allowed")
	}
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:       "first forwarded entry wins",
			forwarded:  "203.0.113.7, 10.0.0.1, 10.0.0.2",
			remoteAddr: "10.0.0.2:443",
			want:       "203.0.113.7",
		},
		{
			name:       "real ip when no forwarded header",
			realIP:     "198.51.100.4",
			remoteAddr: "10.0.0.2:443",
			want:       "198.51.100.4",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.1:5555",
			want:       "192.0.2.1",
		},
		{
			name:       "remote addr passed through when not host:port",
			remoteAddr: "192.0.2.1",
			want:       "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/login", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientAddr(r); got != tt.want {
				t.Errorf("ClientAddr() = %q, want %q", got, tt.want)
			}
		})
	}
}
