package session

import (
	"sync"
	"testing"
	"time"

	"github.com/proelectricos/charlie-bot/internal/models"
)

func TestGetUnknownCounterpartIsZero(t *testing.T) {
	store := NewInMemoryStore()
	sess := store.Get("573168641671@s.whatsapp.net")
	if sess.State != models.StateNone || !sess.Scratch.IsZero() {
		t.Errorf("expected zero session for unknown counterpart, got %+v", sess)
	}
}

func TestSetAndGet(t *testing.T) {
	store := NewInMemoryStore()
	id := "573168641671@s.whatsapp.net"

	store.Set(id, Session{State: models.StateAwaitingName, Scratch: models.Scratch{AttendeeName: "Ana"}})

	sess := store.Get(id)
	if sess.State != models.StateAwaitingName {
		t.Errorf("expected AWAITING_NAME, got %q", sess.State)
	}
	if sess.Scratch.AttendeeName != "Ana" {
		t.Errorf("expected scratch name retained, got %q", sess.Scratch.AttendeeName)
	}
	if sess.UpdatedAt.IsZero() {
		t.Error("expected Set to stamp UpdatedAt")
	}
}

func TestClear(t *testing.T) {
	store := NewInMemoryStore()
	id := "573168641671@s.whatsapp.net"
	store.Set(id, Session{State: models.StateMainMenu})

	store.Clear(id)

	if sess := store.Get(id); sess.State != models.StateNone {
		t.Errorf("expected cleared session, got %+v", sess)
	}
	if store.Len() != 1 {
		t.Errorf("expected entry kept for lock stability, Len = %d", store.Len())
	}
}

func TestLockSerializesSameCounterpart(t *testing.T) {
	store := NewInMemoryStore()
	id := "573168641671@s.whatsapp.net"

	var order []int
	var mu sync.Mutex
	record := func(n int) {
		mu.Lock()
		order = append(order, n)
		mu.Unlock()
	}

	unlock := store.Lock(id)
	done := make(chan struct{})
	go func() {
		u := store.Lock(id)
		record(2)
		u()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	record(1)
	unlock()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected serialized turn order [1 2], got %v", order)
	}
}

func TestLockDistinctCounterpartsDoNotContend(t *testing.T) {
	store := NewInMemoryStore()
	unlock := store.Lock("a@s.whatsapp.net")
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := store.Lock("b@s.whatsapp.net")
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a distinct counterpart blocked")
	}
}

func TestExpireIdle(t *testing.T) {
	store := NewInMemoryStore()
	store.Set("stale@s.whatsapp.net", Session{State: models.StateAwaitingDate})
	store.Set("fresh@s.whatsapp.net", Session{State: models.StateMainMenu})
	store.Set("idle-none@s.whatsapp.net", Session{State: models.StateNone})

	// Age the stale entry past the cutoff.
	store.mu.Lock()
	store.entries["stale@s.whatsapp.net"].sess.UpdatedAt = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	expired := store.ExpireIdle(time.Hour)

	if expired != 1 {
		t.Errorf("expected 1 expired session, got %d", expired)
	}
	if store.Get("stale@s.whatsapp.net").State != models.StateNone {
		t.Error("expected stale session reset to pre-menu")
	}
	if store.Get("fresh@s.whatsapp.net").State != models.StateMainMenu {
		t.Error("expected fresh session untouched")
	}
}
