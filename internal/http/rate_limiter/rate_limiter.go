package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const visitorTTL = 5 * time.Minute

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	limit rate.Limit = 1 // requests per second
	burst            = 3
)

// Configure sets the bucket used for visitors seen from now on.
func Configure(rps float64, b int) {
	mu.Lock()
	defer mu.Unlock()
	limit = rate.Limit(rps)
	burst = b
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Allow reports whether ip may perform one more request now.
func Allow(ip string) bool {
	return GetVisitor(ip).Allow()
}

func StartVisitorCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removeStaleVisitors(visitorTTL)
		}
	}
}

func removeStaleVisitors(ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > ttl {
			delete(visitors, ip)
		}
	}
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}
