package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFileCacheSetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("layout data"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("Get reported a miss after Set")
	}
	if string(data) != "layout data" {
		t.Errorf("data = %q, want %q", data, "layout data")
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	_, hit, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("Get reported a hit for an absent key")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	// Already-expired entry: negative TTL produces an ExpiresAt in the past.
	if err := c.Set(ctx, "k", []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("Get reported a hit for an expired entry")
	}
}

func TestFileCacheNoTTL(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("forever"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("entry with ttl 0 expired")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), time.Hour)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get reported a hit after Delete")
	}
	// Deleting an absent key is not an error.
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("null cache reported a hit")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestDefaultKeyerDeterministic(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.LayoutKey("hash1", LayoutKeyOpts{Width: 800, Height: 600})
	b := k.LayoutKey("hash1", LayoutKeyOpts{Width: 800, Height: 600})
	if a != b {
		t.Errorf("same inputs produced different keys:\n%s\n%s", a, b)
	}
	if !strings.HasPrefix(a, "layout:") {
		t.Errorf("layout key %q missing prefix", a)
	}
}

func TestDefaultKeyerDistinguishesOpts(t *testing.T) {
	k := NewDefaultKeyer()

	base := k.LayoutKey("hash1", LayoutKeyOpts{Width: 800})
	cases := map[string]string{
		"different hash":  k.LayoutKey("hash2", LayoutKeyOpts{Width: 800}),
		"different width": k.LayoutKey("hash1", LayoutKeyOpts{Width: 640}),
	}
	for name, key := range cases {
		if key == base {
			t.Errorf("%s produced the same key", name)
		}
	}

	svg := k.ArtifactKey("lh", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("lh", ArtifactKeyOpts{Format: "png"})
	labeled := k.ArtifactKey("lh", ArtifactKeyOpts{Format: "svg", Labels: true})
	if svg == png || svg == labeled {
		t.Error("artifact keys do not distinguish render options")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "app:")

	got := scoped.LayoutKey("h", LayoutKeyOpts{})
	want := "app:" + inner.LayoutKey("h", LayoutKeyOpts{})
	if got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "p:")
	if key := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "json"}); !strings.HasPrefix(key, "p:artifact:") {
		t.Errorf("ArtifactKey = %q, want p:artifact: prefix", key)
	}
}

func TestHashStable(t *testing.T) {
	a := Hash([]byte("manifest"))
	b := Hash([]byte("manifest"))
	if a != b {
		t.Error("Hash is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("Hash length = %d, want 64", len(a))
	}
	if a == Hash([]byte("other")) {
		t.Error("distinct inputs produced the same hash")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}

	base := errors.New("connection refused")
	wrapped := Retryable(base)
	if !IsRetryable(wrapped) {
		t.Error("wrapped error not recognized as retryable")
	}
	if IsRetryable(base) {
		t.Error("bare error recognized as retryable")
	}
	if !errors.Is(wrapped, base) {
		t.Error("Unwrap chain broken")
	}
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatal("RetryWithBackoff swallowed the error")
	}
	if calls != 1 {
		t.Errorf("permanent error retried %d times", calls)
	}
}

func TestRetryWithBackoffSucceedsImmediately(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}
