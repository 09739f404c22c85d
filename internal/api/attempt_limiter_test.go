package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(2, time.Hour)
	key := "127.0.0.1|sam@example.com"
	now := time.Now().UTC()

	limiter.recordFailure(key, now.Add(-2*time.Hour))
	limiter.recordFailure(key, now.Add(-90*time.Minute))
	if limiter.blocked(key, now) {
		t.Fatal("expected old attempts to be pruned from active window")
	}

	limiter.recordFailure(key, now.Add(-30*time.Minute))
	limiter.recordFailure(key, now.Add(-10*time.Minute))
	if !limiter.blocked(key, now) {
		t.Fatal("expected two recent attempts to hit limit 2")
	}
	if limiter.blocked("127.0.0.1|other@example.com", now) {
		t.Fatal("expected other email to be unaffected")
	}

	limiter.reset(key)
	if limiter.blocked(key, now) {
		t.Fatal("expected no attempts after reset")
	}
}
