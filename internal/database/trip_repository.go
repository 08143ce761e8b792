package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// TripRepository handles database operations for the trips table.
// It is also the seat inventory ledger: claimSeats is the only statement in
// the codebase that adds labels to booked_seats, and it does so as a single
// conditional update so two overlapping claims can never both succeed.
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// claimSeatsQuery atomically appends seat labels and decrements the free
// counter, but only if none of the labels are already booked and enough
// seats remain. Zero rows affected means the claim lost.
const claimSeatsQuery = `
	UPDATE trips
	SET booked_seats = booked_seats || $2,
	    available_seats = available_seats - $3,
	    updated_at = NOW()
	WHERE id = $1
	  AND NOT (booked_seats && $2)
	  AND available_seats >= $3
`

const tripColumns = `id, bus_id, route_id, schedule_id, trip_date, price,
	   total_seats, booked_seats, available_seats, created_at, updated_at`

// execer is satisfied by both the pooled connection and a transaction
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// CreateIfAbsent inserts a trip unless one already exists for the same
// (bus, route, schedule, date) tuple. A lost race against a concurrent
// insert is treated as a successful no-op; callers re-read afterwards.
// Returns whether this call created the row.
func (r *TripRepository) CreateIfAbsent(trip *models.Trip) (bool, error) {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.BookedSeats == nil {
		trip.BookedSeats = models.StringArray{}
	}

	query := `
		INSERT INTO trips (
			id, bus_id, route_id, schedule_id, trip_date, price,
			total_seats, booked_seats, available_seats
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (bus_id, route_id, schedule_id, trip_date) DO NOTHING
	`

	result, err := r.db.Exec(
		query,
		trip.ID, trip.BusID, trip.RouteID, trip.ScheduleID, trip.TripDate, trip.Price,
		trip.TotalSeats, trip.BookedSeats, trip.AvailableSeats,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// GetByID retrieves a trip by ID. Returns (nil, nil) when no trip exists.
func (r *TripRepository) GetByID(tripID string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanTrip(r.db.QueryRow(query, tripID))
}

// GetByNaturalKey retrieves the trip for a (bus, route, schedule, date) tuple
func (r *TripRepository) GetByNaturalKey(busID, routeID, scheduleID string, date time.Time) (*models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE bus_id = $1 AND route_id = $2 AND schedule_id = $3 AND trip_date = $4
	`
	return r.scanTrip(r.db.QueryRow(query, busID, routeID, scheduleID, date))
}

// ListForRoutesOnDate retrieves every trip for the given routes on a date,
// regardless of bookability. Used by the materializer's first-write-wins
// authority check.
func (r *TripRepository) ListForRoutesOnDate(routeIDs []string, date time.Time) ([]models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE route_id = ANY($1) AND trip_date = $2
	`

	rows, err := r.db.Query(query, pq.Array(routeIDs), date)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// ListBookableViews retrieves display-ready trips for the given routes on a
// date, excluding trips whose bus or schedule is no longer active and trips
// with no free seats, ordered by scheduled departure time.
func (r *TripRepository) ListBookableViews(routeIDs []string, date time.Time) ([]models.TripView, error) {
	query := `
		SELECT t.id, t.bus_id, t.route_id, t.schedule_id, t.trip_date, t.price,
		       t.total_seats, t.booked_seats, t.available_seats, t.created_at, t.updated_at,
		       r.route_name, r.stops, b.bus_number, b.bus_type,
		       s.start_time AS departure_time, s.end_time AS arrival_time
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		JOIN buses b ON b.id = t.bus_id
		JOIN schedules s ON s.id = t.schedule_id
		WHERE t.route_id = ANY($1)
		  AND t.trip_date = $2
		  AND t.available_seats > 0
		  AND b.status = 'active'
		  AND s.status = 'active'
		ORDER BY s.start_time, t.created_at
	`

	rows, err := r.db.Query(query, pq.Array(routeIDs), date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookable trips: %w", err)
	}
	defer rows.Close()

	return r.scanTripViews(rows)
}

// ListRecentViews retrieves the most recently created trips across all
// routes, newest date first. Used by the unfiltered search listing.
func (r *TripRepository) ListRecentViews(limit, offset int) ([]models.TripView, error) {
	query := `
		SELECT t.id, t.bus_id, t.route_id, t.schedule_id, t.trip_date, t.price,
		       t.total_seats, t.booked_seats, t.available_seats, t.created_at, t.updated_at,
		       r.route_name, r.stops, b.bus_number, b.bus_type,
		       s.start_time AS departure_time, s.end_time AS arrival_time
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		JOIN buses b ON b.id = t.bus_id
		JOIN schedules s ON s.id = t.schedule_id
		ORDER BY t.trip_date DESC, t.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent trips: %w", err)
	}
	defer rows.Close()

	return r.scanTripViews(rows)
}

// CountTrips returns the total number of trips
func (r *TripRepository) CountTrips() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}

// ClaimSeats atomically books the given seat labels on a trip. Either all
// labels are added and the free-seat counter decremented, or nothing
// changes and a ConflictError names the contested seats.
func (r *TripRepository) ClaimSeats(tripID string, seats []string) error {
	return claimSeats(r.db, r.db, tripID, seats)
}

// claimSeats runs the conditional claim on any execer (pooled connection or
// transaction). On a lost claim it re-reads the trip through q to report
// exactly which seats were contested.
func claimSeats(e execer, q queryer, tripID string, seats []string) error {
	if len(seats) == 0 {
		return models.NewValidationError("no seats to claim")
	}

	result, err := e.Exec(claimSeatsQuery, tripID, pq.Array(seats), len(seats))
	if err != nil {
		return fmt.Errorf("failed to claim seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	return seatClaimFailure(q, tripID, seats)
}

// queryer is the read-side counterpart of execer
type queryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// seatClaimFailure determines why a claim affected zero rows
func seatClaimFailure(q queryer, tripID string, seats []string) error {
	var booked models.StringArray
	var available int

	err := q.QueryRow(`SELECT booked_seats, available_seats FROM trips WHERE id = $1`, tripID).
		Scan(&booked, &available)
	if err == sql.ErrNoRows {
		return models.NewNotFoundError("trip", tripID)
	}
	if err != nil {
		return fmt.Errorf("failed to inspect trip after claim: %w", err)
	}

	if taken := booked.Intersect(seats); len(taken) > 0 {
		return models.NewConflictError("seats already booked", taken)
	}
	if available < len(seats) {
		return models.NewConflictError(
			fmt.Sprintf("only %d seat(s) remaining", available), nil)
	}

	// The claim lost to a writer that has since been undone; report the
	// whole request as contested so the caller re-prompts.
	return models.NewConflictError("seats could not be reserved", seats)
}

// Delete removes a trip, refusing while any seat is booked
func (r *TripRepository) Delete(tripID string) error {
	result, err := r.db.Exec(
		`DELETE FROM trips WHERE id = $1 AND cardinality(booked_seats) = 0`, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`, tripID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check trip existence: %w", err)
	}
	if exists {
		return models.NewPolicyError("trip has booked seats and cannot be deleted")
	}
	return models.NewNotFoundError("trip", tripID)
}

// scanTrip scans a single trip, mapping no-rows to (nil, nil)
func (r *TripRepository) scanTrip(row scanner) (*models.Trip, error) {
	trip := &models.Trip{}
	err := row.Scan(
		&trip.ID, &trip.BusID, &trip.RouteID, &trip.ScheduleID, &trip.TripDate, &trip.Price,
		&trip.TotalSeats, &trip.BookedSeats, &trip.AvailableSeats, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// scanTrips scans multiple trips from rows
func (r *TripRepository) scanTrips(rows *sql.Rows) ([]models.Trip, error) {
	trips := []models.Trip{}

	for rows.Next() {
		var trip models.Trip
		err := rows.Scan(
			&trip.ID, &trip.BusID, &trip.RouteID, &trip.ScheduleID, &trip.TripDate, &trip.Price,
			&trip.TotalSeats, &trip.BookedSeats, &trip.AvailableSeats, &trip.CreatedAt, &trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// scanTripViews scans display-ready trips from rows
func (r *TripRepository) scanTripViews(rows *sql.Rows) ([]models.TripView, error) {
	views := []models.TripView{}

	for rows.Next() {
		var v models.TripView
		err := rows.Scan(
			&v.ID, &v.BusID, &v.RouteID, &v.ScheduleID, &v.TripDate, &v.Price,
			&v.TotalSeats, &v.BookedSeats, &v.AvailableSeats, &v.CreatedAt, &v.UpdatedAt,
			&v.RouteName, &v.Stops, &v.BusNumber, &v.BusTypeString,
			&v.DepartureTime, &v.ArrivalTime,
		)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, rows.Err()
}

// scanner interface for QueryRow and Rows
type scanner interface {
	Scan(dest ...interface{}) error
}
