package cache

import (
	"context"
	"testing"
	"time"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	redisEnabled = false
	redisClient = nil

	if err := SetJSON(context.Background(), "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("set should be noop: %v", err)
	}
	var dest map[string]string
	hit, err := GetJSON(context.Background(), "k", &dest)
	if err != nil || hit {
		t.Fatalf("get should miss when disabled, hit=%v err=%v", hit, err)
	}
	if err := InvalidatePost(context.Background(), "hello-world"); err != nil {
		t.Fatalf("invalidate should be noop: %v", err)
	}
}

func TestPostDetailKeyNormalizesSlug(t *testing.T) {
	if got := PostDetailKey("  Hello-World "); got != "post:slug:hello-world" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "ink"
	if got := buildKey(TagCloudKey()); got != "ink:tags:cloud" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey("  "); got != "ink" {
		t.Fatalf("unexpected blank key: %s", got)
	}
}
