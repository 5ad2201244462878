package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
)

func TestReconcileStats_RecomputesOccupancy(t *testing.T) {
	gw := &fakeGateway{
		items:  []domain.Establishment{est(1, "Aurore")},
		nextID: 1,
		rooms: []domain.Room{
			{ID: 1, HotelID: 1, Status: domain.RoomOccupied},
			{ID: 2, HotelID: 1, Status: domain.RoomOccupied},
			{ID: 3, HotelID: 1, Status: domain.RoomOccupied},
			{ID: 4, HotelID: 1, Status: "libre"},
		},
	}
	s := app.NewStore(gw, nil, nil, zerolog.Nop())
	ctx := context.Background()
	s.RefreshAll(ctx)

	s.ReconcileStats(ctx, 1)

	p := gw.lastPatch
	if p == nil {
		t.Fatal("no update issued")
	}
	if p.TotalRooms == nil || *p.TotalRooms != 4 {
		t.Fatalf("total rooms: %+v", p.TotalRooms)
	}
	if p.OccupiedRooms == nil || *p.OccupiedRooms != 3 {
		t.Fatalf("occupied rooms: %+v", p.OccupiedRooms)
	}
	if p.OccupancyRate == nil || *p.OccupancyRate != 75.0 {
		t.Fatalf("occupancy rate: %+v", p.OccupancyRate)
	}
	// the patch must carry the occupancy triple and nothing else
	if p.Name != nil || p.Address != nil || p.City != nil || p.Status != nil ||
		p.Manager != nil || p.Capacity != nil || p.Categories != nil ||
		p.Services != nil || p.OpeningHours != nil {
		t.Fatalf("patch carries extra fields: %+v", p)
	}

	got := s.Snapshot()
	if got[0].TotalRooms != 4 || got[0].OccupiedRooms != 3 || got[0].OccupancyRate != 75.0 {
		t.Fatalf("cache not reconciled: %+v", got[0])
	}
}

func TestReconcileStats_NoRoomsMeansZeroRate(t *testing.T) {
	gw := &fakeGateway{items: []domain.Establishment{est(1, "Aurore")}, nextID: 1}
	s := app.NewStore(gw, nil, nil, zerolog.Nop())
	ctx := context.Background()
	s.RefreshAll(ctx)

	s.ReconcileStats(ctx, 1)

	p := gw.lastPatch
	if p == nil || *p.TotalRooms != 0 || *p.OccupiedRooms != 0 || *p.OccupancyRate != 0 {
		t.Fatalf("unexpected patch: %+v", p)
	}
}

func TestReconcileStats_ReadFailureIsSwallowed(t *testing.T) {
	gw := &fakeGateway{
		items:    []domain.Establishment{est(1, "Aurore")},
		nextID:   1,
		roomsErr: errors.New("timeout"),
	}
	note := &fakeNotifier{}
	s := app.NewStore(gw, nil, note, zerolog.Nop())
	ctx := context.Background()
	s.RefreshAll(ctx)

	s.ReconcileStats(ctx, 1)

	if gw.lastPatch != nil {
		t.Fatalf("no update must be issued on a failed read, got %+v", gw.lastPatch)
	}
	// best-effort: strictly silent, not even a notification
	if len(note.notes) != 0 {
		t.Fatalf("unexpected notifications: %+v", note.notes)
	}
}

func TestComputeOccupancyRate(t *testing.T) {
	cases := []struct {
		occupied, total int
		want            float64
	}{
		{0, 0, 0},
		{3, 4, 75},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := domain.ComputeOccupancyRate(tc.occupied, tc.total); got != tc.want {
			t.Fatalf("rate(%d/%d): got %v want %v", tc.occupied, tc.total, got, tc.want)
		}
	}
}
