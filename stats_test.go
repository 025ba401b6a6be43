package fileconv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.Load(ctx, "nobody")
	if err != nil || got != (UsageStats{}) {
		t.Fatalf("Load unknown user = %+v, %v", got, err)
	}
	want := UsageStats{FilesProcessed: 3, ConversionsPerformed: 2, MessagesExchanged: 1}
	if err := s.Save(ctx, "ann", want); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Load(ctx, "ann"); got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr(), Prefix: "test:"})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	got, err := store.Load(ctx, "ann")
	if err != nil || got != (UsageStats{}) {
		t.Fatalf("Load empty = %+v, %v", got, err)
	}

	want := UsageStats{FilesProcessed: 4, ConversionsPerformed: 2, MessagesExchanged: 9}
	if err := store.Save(ctx, "ann", want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got, err := store.Load(ctx, "ann"); err != nil || got != want {
		t.Errorf("Load = %+v, %v; want %+v", got, err, want)
	}
	if v := mr.HGet("test:ann", "converts"); v != "2" {
		t.Errorf("converts field = %q, want 2", v)
	}

	mr.HSet("test:bad", "files", "many")
	if _, err := store.Load(ctx, "bad"); err == nil {
		t.Error("Load accepted a non-numeric counter")
	}
}

func TestRedisStoreWithSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	s := New(WithStatsStore(store)).NewSession(ctx, "zoe")
	if _, err := s.Submit(ctx, []byte("hi"), "a.txt", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Convert(ctx, "pdf"); err != nil {
		t.Fatal(err)
	}
	if v := mr.HGet("fileconv:stats:zoe", "files"); v != "1" {
		t.Errorf("files = %q, want 1", v)
	}
	if v := mr.HGet("fileconv:stats:zoe", "converts"); v != "1" {
		t.Errorf("converts = %q, want 1", v)
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr}); err == nil {
		t.Error("NewRedisStore succeeded against a closed server")
	}
}
