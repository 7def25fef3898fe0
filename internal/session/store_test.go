package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"hotable/internal/domain"
)

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	want := domain.ConversationContext{LastRestaurant: "Neon", TurnCount: 2}
	if err := store.Save(ctx, "s1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("state=%+v, want %+v", got, want)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err=%v, want ErrSessionNotFound after ttl", err)
	}
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("swept=%d, want 1", removed)
	}
	if store.Len() != 0 {
		t.Fatalf("len=%d, want 0", store.Len())
	}
}

func TestMemoryStoreSweeperDropsExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore(time.Minute)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return start }

	for i := 0; i < 50; i++ {
		_ = store.Save(ctx, NewID(), domain.ConversationContext{TurnCount: 1})
	}
	store.now = func() time.Time { return start.Add(2 * time.Minute) }
	_ = store.Save(ctx, "fresh", domain.ConversationContext{TurnCount: 1})

	done := make(chan struct{})
	go func() {
		store.RunSweeper(ctx, 5*time.Millisecond, nil)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("len=%d, want 1 after sweeping", store.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := store.Load(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session swept: %v", err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop after cancel")
	}
}

func TestSweepInterval(t *testing.T) {
	if got := SweepInterval(30 * time.Minute); got != 15*time.Minute {
		t.Fatalf("interval=%s, want 15m", got)
	}
	if got := SweepInterval(time.Second); got != time.Second {
		t.Fatalf("interval=%s, want 1s", got)
	}
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	_ = store.Save(ctx, "s1", domain.ConversationContext{TurnCount: 1})
	if err := store.Reset(ctx, "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err=%v, want ErrSessionNotFound", err)
	}
}

func TestLoadOrNew(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	id, state, err := LoadOrNew(ctx, store, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(id, "sess_") || len(id) != len("sess_")+32 {
		t.Fatalf("id=%q, want generated sess_ id", id)
	}
	if state != (domain.ConversationContext{}) {
		t.Fatalf("state=%+v, want empty", state)
	}

	_ = store.Save(ctx, "known", domain.ConversationContext{LastCuisine: "Polska", TurnCount: 4})
	id, state, err = LoadOrNew(ctx, store, " known ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "known" || state.LastCuisine != "Polska" || state.TurnCount != 4 {
		t.Fatalf("id=%s state=%+v", id, state)
	}

	id, state, err = LoadOrNew(ctx, store, "unknown")
	if err != nil || id != "unknown" || state.TurnCount != 0 {
		t.Fatalf("id=%s state=%+v err=%v, want fresh context", id, state, err)
	}
}

func TestRedisStoreDefaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	store := newRedisStore(client, RedisConfig{})
	if store.key("abc") != "hotable:session:abc" {
		t.Fatalf("key=%s", store.key("abc"))
	}
	if store.ttl != 30*time.Minute {
		t.Fatalf("ttl=%s, want 30m", store.ttl)
	}
}
