package realtime

import (
	"testing"

	"github.com/mmynk/bakery/internal/models"
)

func TestHub_PublishReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()
	alice, cancelAlice := hub.Subscribe("alice")
	defer cancelAlice()
	bob, cancelBob := hub.Subscribe("bob")
	defer cancelBob()

	if n := hub.Publish(models.CartDocument{UserID: "alice", SyncedAt: 1}); n != 1 {
		t.Fatalf("delivered = %d, want 1", n)
	}

	select {
	case doc := <-alice:
		if doc.SyncedAt != 1 {
			t.Errorf("SyncedAt = %d, want 1", doc.SyncedAt)
		}
	default:
		t.Fatal("expected update for alice")
	}

	select {
	case doc := <-bob:
		t.Fatalf("bob received %+v", doc)
	default:
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("alice")
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
	if n := hub.Subscribers("alice"); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
	if n := hub.Publish(models.CartDocument{UserID: "alice"}); n != 0 {
		t.Errorf("delivered = %d after cancel", n)
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("alice")
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(models.CartDocument{UserID: "alice", SyncedAt: int64(i)})
	}
}
