package app

import (
	"context"

	"hotel_directory/internal/domain"
)

// ReconcileStats recounts the rooms of one establishment and persists the
// occupancy triple through Update. Best-effort: a failed room read is
// logged and swallowed, the caller never sees it.
func (s *Store) ReconcileStats(ctx context.Context, id int64) {
	rooms, err := s.gw.ListRooms(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("room lookup failed, skipping occupancy recompute")
		return
	}
	total := len(rooms)
	occupied := 0
	for _, r := range rooms {
		if r.Status == domain.RoomOccupied {
			occupied++
		}
	}
	rate := domain.ComputeOccupancyRate(occupied, total)
	s.Update(ctx, id, domain.EstablishmentPatch{
		TotalRooms:    &total,
		OccupiedRooms: &occupied,
		OccupancyRate: &rate,
	})
}
