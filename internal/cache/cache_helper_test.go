package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "course:"), mr
}

type cachedCourse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestCacheHelper_SetGetRoundTrip(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	want := cachedCourse{ID: 7, Name: "Python Basics"}
	if err := helper.Set(ctx, "id:7", want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "id:7", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	helper, _ := newTestCache(t)

	var got cachedCourse
	err := helper.Get(context.Background(), "id:404", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"teacher:1:list", "teacher:1:extra", "teacher:2:list"} {
		if err := helper.Set(ctx, key, cachedCourse{ID: 1}, time.Minute); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "teacher:1:*"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "teacher:1:list", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("teacher:1 keys should be gone, got %v", err)
	}
	if err := helper.Get(ctx, "teacher:2:list", &got); err != nil {
		t.Fatalf("teacher:2 keys should survive: %v", err)
	}
}

func TestCacheHelper_CacheOrExecuteFetchesOnce(t *testing.T) {
	helper, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedCourse{ID: 9, Name: "Fetched"}, nil
	}

	var got cachedCourse
	if err := helper.CacheOrExecute(ctx, "id:9", &got, time.Minute, fetch); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if calls != 1 || got.Name != "Fetched" {
		t.Fatalf("expected one fetch, got %d (%+v)", calls, got)
	}

	// The async set must land before the second read can hit the cache.
	deadline := time.Now().Add(time.Second)
	for mr.Exists("course:id:9") == false {
		if time.Now().After(deadline) {
			t.Fatal("cache entry never appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var second cachedCourse
	if err := helper.CacheOrExecute(ctx, "id:9", &second, time.Minute, fetch); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls != 1 {
		t.Fatalf("second call should hit the cache, fetches = %d", calls)
	}
}

func TestCacheManager_NilClientDegradesGracefully(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	if err := cm.Course.Set(ctx, "id:1", cachedCourse{ID: 1}, time.Minute); err != nil {
		t.Fatalf("set without redis must be a no-op, got %v", err)
	}

	var got cachedCourse
	if err := cm.Course.Get(ctx, "id:1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("expected ErrCacheNotAvailable, got %v", err)
	}

	if err := cm.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("expected ErrCacheNotAvailable from health check, got %v", err)
	}
}
