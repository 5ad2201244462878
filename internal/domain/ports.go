package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("establishment: not found")

// Gateway is the remote relational store. ListEstablishments returns rows
// ordered by name ascending; InsertEstablishment ignores the given ID and
// returns the stored row with its assigned one.
type Gateway interface {
	ListEstablishments(ctx context.Context) ([]Establishment, error)
	GetEstablishment(ctx context.Context, id int64) (Establishment, error)
	InsertEstablishment(ctx context.Context, e Establishment) (Establishment, error)
	UpdateEstablishment(ctx context.Context, id int64, p EstablishmentPatch) (Establishment, error)
	DeleteEstablishment(ctx context.Context, id int64) error

	// ListActiveReservations returns reservations in CONFIRMED or
	// IN_PROGRESS for one establishment (the delete guard).
	ListActiveReservations(ctx context.Context, hotelID int64) ([]Reservation, error)
	ListRooms(ctx context.Context, hotelID int64) ([]Room, error)
}

// ChangeEvent announces that a row of the establishments table changed.
// Payloads carry no row data: consumers refetch from the source of truth.
type ChangeEvent struct {
	Table string `json:"table"`
	Kind  string `json:"kind"` // INSERT | UPDATE | DELETE
	ID    int64  `json:"id"`
}

const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

type ChangeHandler func(ChangeEvent)

// Subscription is a live change-event stream. Release guarantees no
// handler invocation after it returns; a handler already running is
// allowed to finish.
type Subscription interface {
	Release()
}

type ChangeFeed interface {
	Subscribe(ctx context.Context, fn ChangeHandler) (Subscription, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// Severity levels for user-facing notifications.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Notifier delivers user-facing feedback. Implementations must not block.
type Notifier interface {
	Notify(sev Severity, msg string)
}
