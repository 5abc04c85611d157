package cache

import (
	"errors"
	"testing"
	"time"
)

func TestStoreGetSetDelete(t *testing.T) {
	store := New[int]("test", NoExpiration, 0)

	if _, ok := store.Get("a"); ok {
		t.Fatal("expected miss on empty store")
	}

	store.Set("a", 1)
	store.Set("b", 2)
	if v, ok := store.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}

	store.Delete("a")
	if _, ok := store.Get("a"); ok {
		t.Fatal("expected a to be deleted")
	}

	store.Flush()
	if store.Len() != 0 {
		t.Fatalf("Len after flush = %d", store.Len())
	}
}

func TestStoreExpiry(t *testing.T) {
	store := New[string]("test", 10*time.Millisecond, time.Hour)
	store.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	if _, ok := store.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestReadThrough(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	rt := NewReadThrough(New[string]("test", NoExpiration, 0), func(key string) (string, error) {
		calls++
		if key == "bad" {
			return "", boom
		}
		return "value:" + key, nil
	})

	v, cached, err := rt.Get("x")
	if err != nil || cached || v != "value:x" {
		t.Fatalf("first Get = %q, %v, %v", v, cached, err)
	}
	v, cached, err = rt.Get("x")
	if err != nil || !cached || v != "value:x" {
		t.Fatalf("second Get = %q, %v, %v", v, cached, err)
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}

	if _, _, err := rt.Get("bad"); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, _, err := rt.Get("bad"); !errors.Is(err, boom) {
		t.Fatalf("expected loader error on retry, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("errors should not be cached, loader called %d times", calls)
	}
}
