package httpserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	httpserver "hotel_directory/internal/adapters/http_server"
	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
)

// stubGateway serves one establishment and lets a test hold its room
// listing open to observe the reconcile route's timing.
type stubGateway struct {
	mu    sync.Mutex
	items []domain.Establishment

	roomsGate chan struct{}
	patched   chan domain.EstablishmentPatch
}

func (g *stubGateway) ListEstablishments(ctx context.Context) ([]domain.Establishment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Establishment, len(g.items))
	copy(out, g.items)
	return out, nil
}

func (g *stubGateway) GetEstablishment(ctx context.Context, id int64) (domain.Establishment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range g.items {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Establishment{}, domain.ErrNotFound
}

func (g *stubGateway) InsertEstablishment(ctx context.Context, e domain.Establishment) (domain.Establishment, error) {
	return e, nil
}

func (g *stubGateway) UpdateEstablishment(ctx context.Context, id int64, p domain.EstablishmentPatch) (domain.Establishment, error) {
	g.patched <- p
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.items[0], nil
}

func (g *stubGateway) DeleteEstablishment(ctx context.Context, id int64) error { return nil }

func (g *stubGateway) ListActiveReservations(ctx context.Context, hotelID int64) ([]domain.Reservation, error) {
	return nil, nil
}

func (g *stubGateway) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	<-g.roomsGate
	return []domain.Room{
		{ID: 1, HotelID: hotelID, Status: domain.RoomOccupied},
		{ID: 2, HotelID: hotelID, Status: "libre"},
	}, nil
}

func TestReconcileRoute_AcceptsBeforeRecountCompletes(t *testing.T) {
	gw := &stubGateway{
		items:     []domain.Establishment{{ID: 1, Name: "Aurore", Status: domain.StatusActive}},
		roomsGate: make(chan struct{}),
		patched:   make(chan domain.EstablishmentPatch, 1),
	}
	store := app.NewStore(gw, nil, nil, zerolog.Nop())
	store.RefreshAll(context.Background())

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Store: store})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/v1/etablissements/1/reconcile", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusAccepted)
	}

	// the room count is still held open, so no patch can have landed yet
	select {
	case p := <-gw.patched:
		t.Fatalf("recount finished before the rooms were read: %+v", p)
	default:
	}

	close(gw.roomsGate)
	select {
	case p := <-gw.patched:
		if p.TotalRooms == nil || *p.TotalRooms != 2 {
			t.Fatalf("unexpected patch after recount: %+v", p)
		}
		if p.OccupiedRooms == nil || *p.OccupiedRooms != 1 {
			t.Fatalf("unexpected occupied count: %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("recount never reached the gateway")
	}
}
