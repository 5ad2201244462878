package domain

import "math"

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Establishment struct {
	ID            int64    `json:"id"`
	Name          string   `json:"nom"`
	Address       string   `json:"adresse"`
	City          string   `json:"ville"`
	PostalCode    string   `json:"code_postal"`
	Phone         *string  `json:"telephone,omitempty"`
	Email         *string  `json:"email,omitempty"`
	Manager       *string  `json:"gerant,omitempty"`
	Status        string   `json:"statut"`
	SIRET         *string  `json:"siret,omitempty"`
	TVANumber     *string  `json:"numero_tva,omitempty"`
	DirectorName  *string  `json:"directeur_nom,omitempty"`
	DirectorPhone *string  `json:"directeur_telephone,omitempty"`
	DirectorEmail *string  `json:"directeur_email,omitempty"`
	Capacity      *int     `json:"capacite,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Services      []string `json:"services,omitempty"`
	OpeningHours  []byte   `json:"horaires,omitempty"` // opaque JSON, never inspected here
	TotalRooms    int      `json:"total_chambres"`
	OccupiedRooms int      `json:"chambres_occupees"`
	OccupancyRate float64  `json:"taux_occupation"`
}

// EstablishmentForm is the create payload. It has no ID and no occupancy
// fields: ids come from the remote store, occupancy from the reconciler.
type EstablishmentForm struct {
	Name          string   `json:"nom"`
	Address       string   `json:"adresse"`
	City          string   `json:"ville"`
	PostalCode    string   `json:"code_postal"`
	Phone         *string  `json:"telephone,omitempty"`
	Email         *string  `json:"email,omitempty"`
	Manager       *string  `json:"gerant,omitempty"`
	Status        string   `json:"statut"`
	SIRET         *string  `json:"siret,omitempty"`
	TVANumber     *string  `json:"numero_tva,omitempty"`
	DirectorName  *string  `json:"directeur_nom,omitempty"`
	DirectorPhone *string  `json:"directeur_telephone,omitempty"`
	DirectorEmail *string  `json:"directeur_email,omitempty"`
	Capacity      *int     `json:"capacite,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Services      []string `json:"services,omitempty"`
	OpeningHours  []byte   `json:"horaires,omitempty"`
}

// Record builds the row to insert. Occupancy always starts at zero.
func (f EstablishmentForm) Record() Establishment {
	return Establishment{
		Name:          f.Name,
		Address:       f.Address,
		City:          f.City,
		PostalCode:    f.PostalCode,
		Phone:         f.Phone,
		Email:         f.Email,
		Manager:       f.Manager,
		Status:        f.Status,
		SIRET:         f.SIRET,
		TVANumber:     f.TVANumber,
		DirectorName:  f.DirectorName,
		DirectorPhone: f.DirectorPhone,
		DirectorEmail: f.DirectorEmail,
		Capacity:      f.Capacity,
		Categories:    f.Categories,
		Services:      f.Services,
		OpeningHours:  f.OpeningHours,
	}
}

// EstablishmentPatch is a partial update; nil means "leave unchanged".
type EstablishmentPatch struct {
	Name          *string  `json:"nom,omitempty"`
	Address       *string  `json:"adresse,omitempty"`
	City          *string  `json:"ville,omitempty"`
	PostalCode    *string  `json:"code_postal,omitempty"`
	Phone         *string  `json:"telephone,omitempty"`
	Email         *string  `json:"email,omitempty"`
	Manager       *string  `json:"gerant,omitempty"`
	Status        *string  `json:"statut,omitempty"`
	SIRET         *string  `json:"siret,omitempty"`
	TVANumber     *string  `json:"numero_tva,omitempty"`
	DirectorName  *string  `json:"directeur_nom,omitempty"`
	DirectorPhone *string  `json:"directeur_telephone,omitempty"`
	DirectorEmail *string  `json:"directeur_email,omitempty"`
	Capacity      *int     `json:"capacite,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Services      []string `json:"services,omitempty"`
	OpeningHours  []byte   `json:"horaires,omitempty"`
	TotalRooms    *int     `json:"total_chambres,omitempty"`
	OccupiedRooms *int     `json:"chambres_occupees,omitempty"`
	OccupancyRate *float64 `json:"taux_occupation,omitempty"`
}

// Stats aggregates the whole collection.
type Stats struct {
	Total            int     `json:"total"`
	Active           int     `json:"actifs"`
	Inactive         int     `json:"inactifs"`
	TotalRooms       int     `json:"total_chambres"`
	AvgOccupancyRate float64 `json:"taux_occupation_moyen"`
}

// Round2 rounds to two decimals, the precision occupancy rates are kept at.
func Round2(f float64) float64 { return math.Round(f*100) / 100 }

// ComputeOccupancyRate returns round2(occupied/total*100), or 0 when there
// are no rooms.
func ComputeOccupancyRate(occupied, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(occupied) / float64(total) * 100)
}
