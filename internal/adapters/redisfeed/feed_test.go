package redisfeed_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"hotel_directory/internal/adapters/redisfeed"
	"hotel_directory/internal/domain"
)

func TestFeed_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)

	feed := redisfeed.New(mr.Addr(), "", 0, "test.changes")
	t.Cleanup(func() { _ = feed.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan domain.ChangeEvent, 4)
	sub, err := feed.Subscribe(ctx, func(ev domain.ChangeEvent) { got <- ev })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	want := domain.ChangeEvent{Table: "etablissements", Kind: domain.ChangeUpdate, ID: 7}
	if err := feed.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case ev := <-got:
		if ev != want {
			t.Fatalf("event mismatch: got %+v want %+v", ev, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}

	// After Release no further events may be delivered.
	sub.Release()
	if err := feed.Publish(ctx, domain.ChangeEvent{Table: "etablissements", Kind: domain.ChangeDelete, ID: 8}); err != nil {
		t.Fatalf("publish after release: %v", err)
	}
	select {
	case ev := <-got:
		t.Fatalf("event delivered after Release: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFeed_ReleaseIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	feed := redisfeed.New(mr.Addr(), "", 0, "")
	t.Cleanup(func() { _ = feed.Close() })

	sub, err := feed.Subscribe(context.Background(), func(domain.ChangeEvent) {})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub.Release()
	sub.Release() // must not panic or deadlock
}
