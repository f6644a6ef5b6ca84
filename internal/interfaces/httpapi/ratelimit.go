package httpapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterPruneThreshold = 500
	limiterMaxIdle        = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PrincipalRateLimiter hands out one token bucket per user ID and drops buckets
// idle for longer than limiterMaxIdle once the map grows past the threshold.
type PrincipalRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewPrincipalRateLimiter allows perMinute requests per user with a burst of the
// same size. It returns nil when perMinute is not positive.
func NewPrincipalRateLimiter(perMinute int) *PrincipalRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &PrincipalRateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
		now:     time.Now,
	}
}

func (l *PrincipalRateLimiter) Allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.entries) > limiterPruneThreshold {
		cutoff := now.Add(-limiterMaxIdle)
		for key, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, key)
			}
		}
	}

	e, ok := l.entries[userID]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[userID] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
