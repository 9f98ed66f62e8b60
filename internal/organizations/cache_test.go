package organizations

import (
	"context"
	"testing"
	"time"

	"campaign_tracking_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type countingLister struct {
	orgs  []Organization
	calls int
}

func (c *countingLister) List(context.Context) ([]Organization, error) {
	c.calls++
	return c.orgs, nil
}

func newTestCache(t *testing.T) (*CachedLister, *countingLister, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingLister{orgs: []Organization{{ID: uuid.New(), Key: "acme", Name: "Acme"}}}
	cache := NewCachedLister(inner, client, time.Minute, logger.New("development"))
	return cache, inner, mr
}

func TestCachedListerServesFromCache(t *testing.T) {
	cache, inner, _ := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		orgs, err := cache.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(orgs) != 1 || orgs[0].Key != "acme" {
			t.Fatalf("unexpected orgs: %+v", orgs)
		}
	}

	if inner.calls != 1 {
		t.Errorf("database should be hit once, got %d", inner.calls)
	}
}

func TestCachedListerInvalidate(t *testing.T) {
	cache, inner, _ := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	cache.Invalidate(ctx)
	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("invalidate should force a reload, got %d calls", inner.calls)
	}
}

func TestCachedListerCorruptEntry(t *testing.T) {
	cache, inner, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set(cacheKey, "{not json")

	orgs, err := cache.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(orgs) != 1 {
		t.Fatalf("unexpected orgs: %+v", orgs)
	}
	if inner.calls != 1 {
		t.Errorf("corrupt entry should fall through to the database, got %d calls", inner.calls)
	}
}

func TestCachedListerExpiry(t *testing.T) {
	cache, inner, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("expired entry should reload, got %d calls", inner.calls)
	}
}

func TestCachedListerNilClient(t *testing.T) {
	inner := &countingLister{orgs: []Organization{{Key: "acme", Name: "Acme"}}}
	cache := NewCachedLister(inner, nil, time.Minute, logger.New("development"))

	for i := 0; i < 2; i++ {
		if _, err := cache.List(context.Background()); err != nil {
			t.Fatalf("List() error = %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("nil client must bypass caching, got %d calls", inner.calls)
	}
}
