package app

import (
	"strings"

	"hotel_directory/internal/domain"
)

// Filter returns the entries whose name, city, address or manager contain
// query (case-insensitive; empty matches all) AND whose status equals
// status ("" and "all" match all). The input is never mutated.
func Filter(items []domain.Establishment, query, status string) []domain.Establishment {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Establishment, 0, len(items))
	for _, e := range items {
		if status != "" && status != "all" && e.Status != status {
			continue
		}
		if q != "" && !matches(e, q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches(e domain.Establishment, q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.City), q) ||
		strings.Contains(strings.ToLower(e.Address), q) {
		return true
	}
	return e.Manager != nil && strings.Contains(strings.ToLower(*e.Manager), q)
}

// Aggregate computes collection-wide statistics. Missing room counts and
// rates count as zero; an empty collection yields a zero mean.
func Aggregate(items []domain.Establishment) domain.Stats {
	st := domain.Stats{Total: len(items)}
	var rateSum float64
	for _, e := range items {
		switch e.Status {
		case domain.StatusActive:
			st.Active++
		case domain.StatusInactive:
			st.Inactive++
		}
		st.TotalRooms += e.TotalRooms
		rateSum += e.OccupancyRate
	}
	if len(items) > 0 {
		st.AvgOccupancyRate = domain.Round2(rateSum / float64(len(items)))
	}
	return st
}

// Search filters the current snapshot. Pure: repeated calls with an
// unchanged cache return equal results.
func (s *Store) Search(query, status string) []domain.Establishment {
	return Filter(s.Snapshot(), query, status)
}

// Stats aggregates the current snapshot.
func (s *Store) Stats() domain.Stats {
	return Aggregate(s.Snapshot())
}
