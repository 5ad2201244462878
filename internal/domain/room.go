package domain

// RoomOccupied is the only room status this module reacts to.
const RoomOccupied = "occupee"

type Room struct {
	ID      int64  `json:"id"`
	HotelID int64  `json:"etablissement_id"`
	Status  string `json:"statut"`
}

// Reservation statuses that block an establishment delete.
const (
	ReservationConfirmed  = "CONFIRMED"
	ReservationInProgress = "IN_PROGRESS"
)

type Reservation struct {
	ID      int64  `json:"id"`
	HotelID int64  `json:"etablissement_id"`
	Status  string `json:"statut"`
}
