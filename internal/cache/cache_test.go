package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestKey_StableAndPrefixed(t *testing.T) {
	k1 := Key("search:advanced:10:some query")
	k2 := Key("search:advanced:10:some query")
	k3 := Key("search:advanced:10:another query")

	if k1 != k2 {
		t.Errorf("expected identical keys for identical ids, got %s vs %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("expected different keys for different ids")
	}
	if !strings.HasPrefix(k1, "chasesource:v1:") {
		t.Errorf("expected versioned prefix, got %s", k1)
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("v")) {
		t.Errorf("expected hit with value 'v', got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set(Key("page"), []byte("body"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, found := c.Get(Key("page")); !found || string(val) != "body" {
		t.Errorf("expected hit, got %q found=%v", val, found)
	}

	// Expired entries are dropped on read
	if err := c.Set(Key("stale"), []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(Key("stale")); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.disk.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("disk Set failed: %v", err)
	}

	// First read comes from disk and promotes to memory
	if val, found := c.Get("k"); !found || string(val) != "v" {
		t.Fatalf("expected layered hit, got %q found=%v", val, found)
	}
	if val, found := c.memory.Get("k"); !found || string(val) != "v" {
		t.Errorf("expected promotion into memory, got %q found=%v", val, found)
	}
}
