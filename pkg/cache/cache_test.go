package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "a", []byte("spread"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "spread" {
		t.Fatalf("Get(a) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry was returned")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry was not removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	left, _ := os.ReadDir(dir)
	if len(left) != 0 {
		t.Errorf("%d items left in cache dir", len(left))
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	var got []int
	if err := GetJSON(ctx, c, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("GetJSON on empty cache = %v, want ErrCacheMiss", err)
	}
	if err := SetJSON(ctx, c, "k", []int{0, 7}, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "k", &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != 7 {
		t.Errorf("GetJSON = %v", got)
	}

	_ = c.Set(ctx, "raw", []byte("nope"), time.Hour)
	if err := GetJSON(ctx, c, "raw", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("undecodable entry = %v, want ErrCacheMiss", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	j1, _ := HashJSON(map[string]int{"pages": 8})
	j2, _ := HashJSON(map[string]int{"pages": 9})
	if j1 == j2 {
		t.Error("HashJSON ignored its input")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("cfg", LayoutKeyOpts{Kind: "signature", Layout: "paper", Pages: 8})
	lk2 := k.LayoutKey("cfg", LayoutKeyOpts{Kind: "signature", Layout: "paper", Pages: 9})
	if lk1 == lk2 {
		t.Error("Different page counts should produce different layout keys")
	}
	if lk1 != k.LayoutKey("cfg", LayoutKeyOpts{Kind: "signature", Layout: "paper", Pages: 8}) {
		t.Error("LayoutKey is not deterministic")
	}

	ak1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different formats should produce different artifact keys")
	}

	if got := k.NetKey("abc", "svg"); got != "net:svg:abc" {
		t.Errorf("NetKey = %q", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")

	if got := scoped.NetKey("abc", "svg"); got != "user:123:net:svg:abc" {
		t.Errorf("ScopedKeyer NetKey = %q", got)
	}
	lk := scoped.LayoutKey("cfg", LayoutKeyOpts{})
	if len(lk) < 15 || lk[:9] != "user:123:" {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", lk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.NetKey("h", "dot"); got != "prefix:net:dot:h" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	c := newRedisCache(client, "impose:")
	defer c.Close()

	if got := c.key("layout:abc"); got != "impose:layout:abc" {
		t.Errorf("key = %q", got)
	}
}

func TestNewRedisCacheCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected an error from a canceled connect")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 500 * time.Millisecond })

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrCacheMiss
	})
	if err != ErrCacheMiss || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
