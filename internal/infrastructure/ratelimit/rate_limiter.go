package ratelimit

import (
	"sync"
	"time"
)

const (
	ActionVocationalChat = "vocational_chat"
	ActionAuth           = "auth"
)

// TokenBucket represents a token bucket for rate limiting
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int
	refillTime time.Duration
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
	now        func() time.Time
}

// Limit is the bucket shape for one action.
type Limit struct {
	Burst      int
	RefillTime time.Duration
}

// PerMinute spreads n tokens evenly over a minute.
func PerMinute(n int) Limit {
	if n <= 0 {
		n = 1
	}
	return Limit{Burst: n, RefillTime: time.Minute / time.Duration(n)}
}

// RateLimiter manages rate limiting for different users and actions
type RateLimiter struct {
	buckets  map[string]*TokenBucket
	limits   map[string]Limit
	fallback Limit
	mutex    sync.RWMutex
	now      func() time.Time
}

// NewRateLimiter creates a rate limiter. Actions without an entry in limits
// get 20 per minute.
func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	if limits == nil {
		limits = make(map[string]Limit)
	}
	return &RateLimiter{
		buckets:  make(map[string]*TokenBucket),
		limits:   limits,
		fallback: PerMinute(20),
		now:      time.Now,
	}
}

func newTokenBucket(limit Limit, now func() time.Time) *TokenBucket {
	t := now()
	return &TokenBucket{
		tokens:     limit.Burst,
		maxTokens:  limit.Burst,
		refillRate: 1,
		refillTime: limit.RefillTime,
		lastRefill: t,
		lastUsed:   t,
		now:        now,
	}
}

// Allow checks if an action is allowed and consumes a token if so
func (tb *TokenBucket) Allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := tb.now()
	tb.lastUsed = now

	elapsed := now.Sub(tb.lastRefill)
	intervals := int(elapsed / tb.refillTime)
	if intervals > 0 {
		tb.tokens += intervals * tb.refillRate
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(intervals) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

func (tb *TokenBucket) GetTokens() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.tokens
}

// Allow checks if a user action is allowed
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		// Double-check pattern
		if bucket, exists = rl.buckets[key]; !exists {
			limit, ok := rl.limits[action]
			if !ok {
				limit = rl.fallback
			}
			bucket = newTokenBucket(limit, rl.now)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	return bucket.Allow()
}

// GetStatus returns current rate limit status for a user action
func (rl *RateLimiter) GetStatus(userID, action string) (tokens int, maxTokens int) {
	key := userID + ":" + action

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		return 0, 0
	}

	return bucket.GetTokens(), bucket.maxTokens
}

// Cleanup removes buckets that haven't been used for an hour
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastUsed)
		bucket.mutex.Unlock()
		if idle > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every 30 minutes until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}
