package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(config *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(config)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/api/profile", "GET")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Request %d: expected %d remaining, got %d", i+1, 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/api/profile", "GET")
	if allowed {
		t.Fatal("Expected 11th request to be denied")
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected a positive RetryAfter when denied")
	}
	if !info.ResetTime.After(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_Refill(t *testing.T) {
	// 60 per minute refills one token per second
	limiter, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/api/skills", "GET")
	}
	if allowed, _ := limiter.Allow("c", "/api/skills", "GET"); allowed {
		t.Fatal("Expected bucket to be empty")
	}

	clock.Advance(1100 * time.Millisecond)
	if allowed, _ := limiter.Allow("c", "/api/skills", "GET"); !allowed {
		t.Error("Expected request to be allowed after refill")
	}
	if allowed, _ := limiter.Allow("c", "/api/skills", "GET"); allowed {
		t.Error("Expected request to be denied after consuming refilled token")
	}
}

func TestLimiter_SeparateClientsAndEndpoints(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("a", "/api/profile", "GET"); !allowed {
		t.Fatal("first request for client a should pass")
	}
	if allowed, _ := limiter.Allow("a", "/api/profile", "GET"); allowed {
		t.Error("second request for client a should be limited")
	}
	if allowed, _ := limiter.Allow("b", "/api/profile", "GET"); !allowed {
		t.Error("client b has its own bucket")
	}
	if allowed, _ := limiter.Allow("a", "/api/resumes", "GET"); !allowed {
		t.Error("each endpoint has its own bucket")
	}
}

func TestLimiter_EndpointTiers(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(30),
	})
	defer limiter.Stop()

	// Generation allows a burst of 3
	for i := 0; i < 3; i++ {
		if allowed, _ := limiter.Allow("c", "/api/generate-resume-v2", "POST"); !allowed {
			t.Fatalf("burst request %d should pass", i+1)
		}
	}
	allowed, info := limiter.Allow("c", "/api/generate-resume-v2", "POST")
	if allowed {
		t.Fatal("fourth generation request should be limited")
	}
	if info.Limit != 30 {
		t.Errorf("expected generation limit 30, got %d", info.Limit)
	}
	// Two minutes per token at 30/hour
	if info.RetryAfter < time.Minute || info.RetryAfter > 2*time.Minute+time.Second {
		t.Errorf("unexpected RetryAfter %v", info.RetryAfter)
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("c", HealthPath, "GET")
		if !allowed || info.Limit != 0 {
			t.Fatalf("health request %d should be unlimited", i+1)
		}
	}
}

func TestLimiter_DisabledWhitelistBlacklist(t *testing.T) {
	disabled, _ := newTestLimiter(&Config{Enabled: false})
	defer disabled.Stop()
	if allowed, _ := disabled.Allow("c", "/api/profile", "GET"); !allowed {
		t.Error("disabled limiter should allow everything")
	}

	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", "/api/profile", "GET"); !allowed {
			t.Fatal("whitelisted client should never be limited")
		}
	}
	if allowed, _ := limiter.Allow("10.0.0.2", "/api/profile", "GET"); allowed {
		t.Error("blacklisted client should always be limited")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("c", "/api/resumes", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Refill over the test's lifetime is negligible at 50/hour
	if allowedCount != 50 {
		t.Errorf("expected 50 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/api/profile", "GET")
	}
	clock.Advance(2 * time.Hour)
	limiter.Allow("fresh", "/api/profile", "GET")

	limiter.cleanupBuckets()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if len(limiter.buckets) != 1 {
		t.Errorf("expected only the fresh bucket to survive, got %d", len(limiter.buckets))
	}
	if _, ok := limiter.buckets["fresh:/api/profile:GET"]; !ok {
		t.Error("fresh bucket was removed")
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(30)

	tests := []struct {
		name     string
		path     string
		method   string
		wantPath string
		wantNil  bool
	}{
		{"exact", "/api/generate-resume", "POST", "/api/generate-resume", false},
		{"exact beats prefix", "/api/education", "POST", "/api/education", false},
		{"prefix", "/api/education/5f0c", "DELETE", "/api/education/", false},
		{"method mismatch", "/api/generate-resume", "GET", "", true},
		{"unknown path", "/api/profile", "GET", "", true},
		{"health", HealthPath, "GET", HealthPath, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match")
			}
			if got.Path != tt.wantPath {
				t.Errorf("expected %s, got %s", tt.wantPath, got.Path)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")
	t.Setenv("RATE_LIMIT_GENERATE_PER_HOUR", "5")

	cfg := LoadConfig()
	if !cfg.Enabled || cfg.DefaultLimit != 42 || cfg.DefaultWindow != 30*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.Whitelist["1.1.1.1"] || !cfg.Whitelist["2.2.2.2"] || len(cfg.Whitelist) != 2 {
		t.Errorf("unexpected whitelist %v", cfg.Whitelist)
	}
	gen := MatchEndpoint("/api/generate-resume", "POST", cfg.EndpointConfigs)
	if gen == nil || gen.Limit != 5 {
		t.Errorf("expected generation limit 5, got %+v", gen)
	}

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if LoadConfig().Enabled {
		t.Error("expected rate limiting to be disabled")
	}
}
