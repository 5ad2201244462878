package app

import (
	"context"
	"fmt"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

// Create inserts a new establishment. Occupancy starts at zero whatever
// the form carries; the reconciler fills it in from the rooms table later.
// Returns the stored record with its assigned id, or nil on failure (the
// cache is left untouched).
func (s *Store) Create(ctx context.Context, form domain.EstablishmentForm) *domain.Establishment {
	created, err := s.gw.InsertEstablishment(ctx, form.Record())
	if err != nil {
		s.log.Warn().Err(err).Str("name", form.Name).Msg("create establishment failed")
		s.notify(domain.SeverityWarning, "failed to create establishment")
		return nil
	}
	observability.ObserveStore("create")
	s.insertSorted(created)
	s.notify(domain.SeveritySuccess, fmt.Sprintf("establishment %q created", created.Name))
	return &created
}

// Update applies a partial update remotely, then patches the cache entry
// in place. Returns the updated record, or nil on failure (the cache is
// left byte-for-byte as it was).
func (s *Store) Update(ctx context.Context, id int64, patch domain.EstablishmentPatch) *domain.Establishment {
	updated, err := s.gw.UpdateEstablishment(ctx, id, patch)
	if err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("update establishment failed")
		s.notify(domain.SeverityWarning, "failed to update establishment")
		return nil
	}
	observability.ObserveStore("update")
	if !s.replaceByID(updated) {
		observability.ObserveStore("patch_dropped")
		s.log.Debug().Int64("id", id).Msg("updated row not cached, patch dropped")
	}
	s.notify(domain.SeveritySuccess, fmt.Sprintf("establishment %q updated", updated.Name))
	return &updated
}

// Delete removes an establishment unless it still has reservations in
// CONFIRMED or IN_PROGRESS; in that case the remote delete is never
// attempted. Guard failures, guard refusals and delete failures all
// return false.
func (s *Store) Delete(ctx context.Context, id int64) bool {
	active, err := s.gw.ListActiveReservations(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("reservation guard query failed")
		s.notify(domain.SeverityWarning, "failed to check reservations before delete")
		return false
	}
	if len(active) > 0 {
		s.notify(domain.SeverityWarning,
			fmt.Sprintf("establishment %d still has %d active reservation(s)", id, len(active)))
		return false
	}
	if err := s.gw.DeleteEstablishment(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("delete establishment failed")
		s.notify(domain.SeverityWarning, "failed to delete establishment")
		return false
	}
	observability.ObserveStore("delete")
	s.removeByID(id)
	s.notify(domain.SeveritySuccess, fmt.Sprintf("establishment %d deleted", id))
	return true
}
