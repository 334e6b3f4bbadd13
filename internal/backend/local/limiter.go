package local

import (
	"strings"
	"sync"
	"time"
)

// loginLimiter counts failed sign-ins per e-mail inside a sliding window.
type loginLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	failures map[string][]time.Time
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		max:      max,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

func (l *loginLimiter) key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *loginLimiter) prune(key string, now time.Time) []time.Time {
	kept := l.failures[key][:0]
	for _, t := range l.failures[key] {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.failures, key)
		return nil
	}
	l.failures[key] = kept
	return kept
}

// Allow reports whether another attempt may be made. A zero max disables it.
func (l *loginLimiter) Allow(email string, now time.Time) bool {
	if l.max <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(l.key(email), now)) < l.max
}

func (l *loginLimiter) Fail(email string, now time.Time) {
	if l.max <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := l.key(email)
	l.failures[key] = append(l.prune(key, now), now)
}

func (l *loginLimiter) Reset(email string) {
	l.mu.Lock()
	delete(l.failures, l.key(email))
	l.mu.Unlock()
}
