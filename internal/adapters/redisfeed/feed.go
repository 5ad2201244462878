// Package redisfeed carries establishment change events over Redis
// Pub/Sub. Events are fan-out only; consumers refetch from the store of
// record, so a dropped message costs at most one stale interval.
package redisfeed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotel_directory/internal/domain"
)

const DefaultChannel = "etablissements.changes"

type Feed struct {
	c       *redis.Client
	channel string
}

func New(addr, pass string, db int, channel string) *Feed {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Feed{
		c:       redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		channel: channel,
	}
}

func (f *Feed) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.c.Publish(ctx, f.channel, b).Err()
}

// Subscribe opens the subscription and pumps events into fn from a
// dedicated goroutine. The returned Subscription's Release waits for that
// goroutine to drain, so no invocation of fn happens after it returns.
func (f *Feed) Subscribe(ctx context.Context, fn domain.ChangeHandler) (domain.Subscription, error) {
	ps := f.c.Subscribe(ctx, f.channel)
	// confirm the server accepted the subscription before returning
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ps.Channel() {
			var ev domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Str("payload", msg.Payload).Msg("bad change event payload")
				continue
			}
			fn(ev)
		}
	}()
	return &subscription{ps: ps, done: done}, nil
}

func (f *Feed) Close() error { return f.c.Close() }

type subscription struct {
	ps   *redis.PubSub
	done chan struct{}
	once sync.Once
}

func (s *subscription) Release() {
	s.once.Do(func() {
		_ = s.ps.Close()
		<-s.done
	})
}
