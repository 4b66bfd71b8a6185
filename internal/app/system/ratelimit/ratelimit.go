// Package ratelimit guards the login surface against credential
// stuffing. Attempts are counted per client IP and per account email
// in fixed windows; the email window is tighter than the IP window so
// a single account cannot be hammered from many addresses, while a
// shared NAT is not locked out for long.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	ipAttempts    = 10
	ipWindow      = time.Minute
	emailAttempts = 5
	emailWindow   = 5 * time.Minute
)

// tally counts attempts for one key within the current window.
type tally struct {
	attempts int
	resetAt  time.Time
}

// keyedCounter tracks per-key attempt counts in fixed windows. Safe
// for concurrent use; expired entries are swept in the background.
type keyedCounter struct {
	mu     sync.Mutex
	byKey  map[string]*tally
	max    int
	window time.Duration
}

func newKeyedCounter(max int, window time.Duration) *keyedCounter {
	c := &keyedCounter{
		byKey:  make(map[string]*tally),
		max:    max,
		window: window,
	}
	go c.sweep()
	return c
}

// allow records an attempt for key and reports whether it is within
// the limit for the current window.
func (c *keyedCounter) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	t, ok := c.byKey[key]
	if !ok || now.After(t.resetAt) {
		c.byKey[key] = &tally{attempts: 1, resetAt: now.Add(c.window)}
		return true
	}
	if t.attempts >= c.max {
		return false
	}
	t.attempts++
	return true
}

func (c *keyedCounter) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byKey, key)
}

// sweep drops expired tallies so abandoned keys do not accumulate.
func (c *keyedCounter) sweep() {
	ticker := time.NewTicker(2 * c.window)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, t := range c.byKey {
			if now.After(t.resetAt) {
				delete(c.byKey, key)
			}
		}
		c.mu.Unlock()
	}
}

// LoginLimiter throttles login attempts on both axes an attacker can
// vary: source address and target account.
type LoginLimiter struct {
	byIP    *keyedCounter
	byEmail *keyedCounter
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		byIP:    newKeyedCounter(ipAttempts, ipWindow),
		byEmail: newKeyedCounter(emailAttempts, emailWindow),
	}
}

// Check records a login attempt and reports whether it may proceed.
// When blocked, reason is a user-facing explanation.
func (ll *LoginLimiter) Check(r *http.Request, email string) (allowed bool, reason string) {
	if !ll.byIP.allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if email != "" && !ll.byEmail.allow(emailKey(email)) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetEmail clears the account's tally after a successful login, so
// a user who finally remembers their password is not still throttled.
func (ll *LoginLimiter) ResetEmail(email string) {
	if email != "" {
		ll.byEmail.forget(emailKey(email))
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ClientIP extracts the client address from a request, trusting the
// reverse proxy's X-Forwarded-For / X-Real-IP headers before falling
// back to the socket address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
