package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps a log of accepted call times per key in process memory.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	logs map[string][]time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		logs:   make(map[string][]time.Time),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.logs[key]
	i := 0
	for i < len(log) && !log[i].After(cutoff) {
		i++
	}
	log = log[i:]

	if len(log) >= l.limit {
		l.logs[key] = log
		return Decision{RetryAfter: log[0].Sub(cutoff)}, nil
	}

	l.logs[key] = append(log, now)
	return Decision{Allowed: true}, nil
}

// Prune drops keys whose calls have all left the window.
func (l *MemoryLimiter) Prune() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, log := range l.logs {
		if len(log) == 0 || !log[len(log)-1].After(cutoff) {
			delete(l.logs, key)
		}
	}
}

// Run prunes idle keys every interval until ctx is done.
func (l *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}
