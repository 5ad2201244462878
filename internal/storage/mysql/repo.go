package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
func valList(l []string) any {
	if l == nil {
		return nil
	}
	b, _ := json.Marshal(l)
	return string(b)
}

// Repo implements domain.Gateway on MySQL. When events is non-nil, every
// successful write publishes a change event so other replicas refetch.
type Repo struct {
	db     *sql.DB
	events domain.Publisher
}

func New(db *sql.DB, events domain.Publisher) *Repo { return &Repo{db: db, events: events} }

func (r *Repo) publish(ctx context.Context, kind string, id int64) {
	if r.events == nil {
		return
	}
	// best-effort: a lost event only delays the next refetch
	_ = r.events.Publish(ctx, domain.ChangeEvent{Table: "etablissements", Kind: kind, ID: id})
}

func observe(op string, start time.Time, err error) {
	observability.ObserveGateway(op, err, time.Since(start))
}

func (r *Repo) ListEstablishments(ctx context.Context) (_ []domain.Establishment, err error) {
	start := time.Now()
	defer func() { observe("list", start, err) }()

	rows, err := r.db.QueryContext(ctx, listEstablishmentsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Establishment
	for rows.Next() {
		e, err := scanEstablishment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) GetEstablishment(ctx context.Context, id int64) (_ domain.Establishment, err error) {
	start := time.Now()
	defer func() { observe("get", start, err) }()
	return r.get(ctx, id)
}

func (r *Repo) get(ctx context.Context, id int64) (domain.Establishment, error) {
	row := r.db.QueryRowContext(ctx, getEstablishmentSQL, id)
	e, err := scanEstablishment(row)
	if err == sql.ErrNoRows {
		return domain.Establishment{}, domain.ErrNotFound
	}
	return e, err
}

func (r *Repo) InsertEstablishment(ctx context.Context, e domain.Establishment) (_ domain.Establishment, err error) {
	start := time.Now()
	defer func() { observe("insert", start, err) }()

	res, err := r.db.ExecContext(ctx, insertEstablishmentSQL,
		e.Name, e.Address, e.City, e.PostalCode,
		valStr(e.Phone), valStr(e.Email), valStr(e.Manager), e.Status,
		valStr(e.SIRET), valStr(e.TVANumber),
		valStr(e.DirectorName), valStr(e.DirectorPhone), valStr(e.DirectorEmail),
		valInt(e.Capacity), valList(e.Categories), valList(e.Services), valJSON(e.OpeningHours),
		e.TotalRooms, e.OccupiedRooms, e.OccupancyRate,
	)
	if err != nil {
		return domain.Establishment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Establishment{}, err
	}
	created, err := r.get(ctx, id)
	if err != nil {
		return domain.Establishment{}, err
	}
	r.publish(ctx, domain.ChangeInsert, id)
	return created, nil
}

func (r *Repo) UpdateEstablishment(ctx context.Context, id int64, p domain.EstablishmentPatch) (_ domain.Establishment, err error) {
	start := time.Now()
	defer func() { observe("update", start, err) }()

	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		set("nom", *p.Name)
	}
	if p.Address != nil {
		set("adresse", *p.Address)
	}
	if p.City != nil {
		set("ville", *p.City)
	}
	if p.PostalCode != nil {
		set("code_postal", *p.PostalCode)
	}
	if p.Phone != nil {
		set("telephone", *p.Phone)
	}
	if p.Email != nil {
		set("email", *p.Email)
	}
	if p.Manager != nil {
		set("gerant", *p.Manager)
	}
	if p.Status != nil {
		set("statut", *p.Status)
	}
	if p.SIRET != nil {
		set("siret", *p.SIRET)
	}
	if p.TVANumber != nil {
		set("numero_tva", *p.TVANumber)
	}
	if p.DirectorName != nil {
		set("directeur_nom", *p.DirectorName)
	}
	if p.DirectorPhone != nil {
		set("directeur_telephone", *p.DirectorPhone)
	}
	if p.DirectorEmail != nil {
		set("directeur_email", *p.DirectorEmail)
	}
	if p.Capacity != nil {
		set("capacite", *p.Capacity)
	}
	if p.Categories != nil {
		set("categories", valList(p.Categories))
	}
	if p.Services != nil {
		set("services", valList(p.Services))
	}
	if p.OpeningHours != nil {
		set("horaires", string(p.OpeningHours))
	}
	if p.TotalRooms != nil {
		set("total_chambres", *p.TotalRooms)
	}
	if p.OccupiedRooms != nil {
		set("chambres_occupees", *p.OccupiedRooms)
	}
	if p.OccupancyRate != nil {
		set("taux_occupation", *p.OccupancyRate)
	}
	if len(sets) == 0 {
		return r.get(ctx, id)
	}

	q := "UPDATE etablissements SET " + strings.Join(sets, ", ") +
		", updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return domain.Establishment{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish "no such row" from "row already had these values"
		if _, gerr := r.get(ctx, id); gerr != nil {
			return domain.Establishment{}, gerr
		}
	}
	updated, err := r.get(ctx, id)
	if err != nil {
		return domain.Establishment{}, err
	}
	r.publish(ctx, domain.ChangeUpdate, id)
	return updated, nil
}

func (r *Repo) DeleteEstablishment(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe("delete", start, err) }()

	res, err := r.db.ExecContext(ctx, deleteEstablishmentSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	r.publish(ctx, domain.ChangeDelete, id)
	return nil
}

func (r *Repo) ListActiveReservations(ctx context.Context, hotelID int64) (_ []domain.Reservation, err error) {
	start := time.Now()
	defer func() { observe("list_reservations", start, err) }()

	rows, err := r.db.QueryContext(ctx, listActiveReservationsSQL,
		hotelID, domain.ReservationConfirmed, domain.ReservationInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var rv domain.Reservation
		if err := rows.Scan(&rv.ID, &rv.HotelID, &rv.Status); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ListRooms(ctx context.Context, hotelID int64) (_ []domain.Room, err error) {
	start := time.Now()
	defer func() { observe("list_rooms", start, err) }()

	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Status); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanEstablishment(row scanner) (domain.Establishment, error) {
	var e domain.Establishment
	var (
		phone, email, manager           sql.NullString
		siret, tva                      sql.NullString
		dirName, dirPhone, dirEmail     sql.NullString
		capacity                        sql.NullInt64
		categoriesRaw, servicesRaw, hrs []byte
	)
	if err := row.Scan(
		&e.ID, &e.Name, &e.Address, &e.City, &e.PostalCode,
		&phone, &email, &manager, &e.Status,
		&siret, &tva, &dirName, &dirPhone, &dirEmail,
		&capacity, &categoriesRaw, &servicesRaw, &hrs,
		&e.TotalRooms, &e.OccupiedRooms, &e.OccupancyRate,
	); err != nil {
		return domain.Establishment{}, err
	}
	e.Phone = nullStr(phone)
	e.Email = nullStr(email)
	e.Manager = nullStr(manager)
	e.SIRET = nullStr(siret)
	e.TVANumber = nullStr(tva)
	e.DirectorName = nullStr(dirName)
	e.DirectorPhone = nullStr(dirPhone)
	e.DirectorEmail = nullStr(dirEmail)
	if capacity.Valid {
		c := int(capacity.Int64)
		e.Capacity = &c
	}
	_ = json.Unmarshal(categoriesRaw, &e.Categories)
	_ = json.Unmarshal(servicesRaw, &e.Services)
	if len(hrs) > 0 {
		e.OpeningHours = append([]byte(nil), hrs...)
	}
	return e, nil
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
