package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

// Store owns the in-memory snapshot of the establishment collection and
// keeps it in sync with the remote store: wholesale refresh on start and
// on every change event, incremental patching after local mutations.
// Readers only ever see copies; the slice itself is never shared.
type Store struct {
	gw   domain.Gateway
	feed domain.ChangeFeed
	note domain.Notifier
	log  zerolog.Logger

	mu       sync.RWMutex
	items    []domain.Establishment
	loading  int // refreshes in flight
	lastErr  string
	watchers []chan struct{}
	closed   bool
	sub      domain.Subscription
}

// NewStore wires a Store. feed and note may be nil (no change feed, no
// user-facing notifications); the gateway is required.
func NewStore(gw domain.Gateway, feed domain.ChangeFeed, note domain.Notifier, log zerolog.Logger) *Store {
	return &Store{gw: gw, feed: feed, note: note, log: log}
}

// Snapshot returns a copy of the current collection, sorted by name.
func (s *Store) Snapshot() []domain.Establishment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Establishment, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a full refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// Err returns the message of the last failed refresh, or "" after a
// successful one.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Watch registers an observer. The returned channel gets a non-blocking
// signal after every cache change; slow observers coalesce signals.
func (s *Store) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) broadcast() {
	s.mu.RLock()
	ws := s.watchers
	s.mu.RUnlock()
	for _, ch := range ws {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// RefreshAll replaces the whole snapshot with the remote truth. On failure
// the previous snapshot stays untouched and the error is kept for the UI;
// no retry is attempted.
func (s *Store) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	items, err := s.gw.ListEstablishments(ctx)

	s.mu.Lock()
	s.loading--
	if err != nil {
		s.lastErr = "failed to load establishments"
		s.mu.Unlock()
		observability.ObserveStore("refresh_err")
		s.log.Warn().Err(err).Msg("refresh failed, keeping previous snapshot")
		s.notify(domain.SeverityWarning, "failed to load establishments")
		return
	}
	s.items = items
	s.lastErr = ""
	s.mu.Unlock()

	observability.ObserveStore("refresh_ok")
	s.broadcast()
}

// FetchByID is a point lookup that bypasses the cache. It returns nil on
// any miss or failure; errors never reach the caller.
func (s *Store) FetchByID(ctx context.Context, id int64) *domain.Establishment {
	e, err := s.gw.GetEstablishment(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notify(domain.SeverityWarning, fmt.Sprintf("establishment %d not found", id))
		} else {
			s.log.Warn().Err(err).Int64("id", id).Msg("fetch establishment failed")
			s.notify(domain.SeverityWarning, "failed to fetch establishment")
		}
		return nil
	}
	return &e
}

// Run performs the initial refresh and opens the change-event
// subscription. Every event, whatever its kind or row, triggers a full
// refresh: re-deriving from the source of truth sidesteps event-ordering
// bugs a delta merge would invite.
func (s *Store) Run(ctx context.Context) error {
	s.RefreshAll(ctx)
	if s.feed == nil {
		return nil
	}
	sub, err := s.feed.Subscribe(ctx, func(ev domain.ChangeEvent) {
		s.mu.RLock()
		closed := s.closed
		s.mu.RUnlock()
		if closed {
			return
		}
		s.log.Debug().Str("kind", ev.Kind).Int64("id", ev.ID).Msg("change event, refetching collection")
		s.RefreshAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("subscribe to change feed: %w", err)
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

// Close releases the change subscription. Events observed afterwards are
// dropped even if a callback was already dispatched.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub != nil {
		sub.Release()
	}
}

func (s *Store) notify(sev domain.Severity, msg string) {
	if s.note == nil {
		return
	}
	s.note.Notify(sev, msg)
}

// insertSorted splices e into the snapshot at its name-sorted position, so
// the sort invariant holds without waiting for the next refresh.
func (s *Store) insertSorted(e domain.Establishment) {
	s.mu.Lock()
	// A change-event refresh may resolve between the remote insert and this
	// splice; if the row is already cached, swap it in place instead of
	// duplicating the id.
	for i := range s.items {
		if s.items[i].ID == e.ID {
			s.items[i] = e
			s.mu.Unlock()
			s.broadcast()
			return
		}
	}
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].Name >= e.Name })
	s.items = append(s.items, domain.Establishment{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = e
	s.mu.Unlock()
	s.broadcast()
}

// replaceByID swaps the cached entry with the same id. A miss is silently
// dropped: the row is simply not cached yet and the next refresh will
// bring it in.
func (s *Store) replaceByID(e domain.Establishment) bool {
	s.mu.Lock()
	replaced := false
	for i := range s.items {
		if s.items[i].ID == e.ID {
			s.items[i] = e
			replaced = true
			break
		}
	}
	s.mu.Unlock()
	if replaced {
		s.broadcast()
	}
	return replaced
}

func (s *Store) removeByID(id int64) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.broadcast()
}
