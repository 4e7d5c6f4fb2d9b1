package rate_limiter

import (
	"testing"
	"time"
)

func TestAllow_Burst(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)
	Configure(1, 3)

	for i := 0; i < 3; i++ {
		if !Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if Allow("10.0.0.1") {
		t.Error("fourth request should be limited")
	}
	if !Allow("10.0.0.2") {
		t.Error("another visitor has its own bucket")
	}
}

func TestRemoveStaleVisitors(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)

	GetVisitor("10.0.0.3")
	mu.Lock()
	visitors["10.0.0.3"].lastSeen = time.Now().Add(-time.Hour)
	mu.Unlock()
	GetVisitor("10.0.0.4")

	removeStaleVisitors(visitorTTL)

	mu.Lock()
	defer mu.Unlock()
	if _, ok := visitors["10.0.0.3"]; ok {
		t.Error("expected stale visitor to be removed")
	}
	if _, ok := visitors["10.0.0.4"]; !ok {
		t.Error("expected recent visitor to be kept")
	}
}
