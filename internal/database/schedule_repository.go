package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// ScheduleRepository handles database operations for the schedules table
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create creates a new schedule template
func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusActive
	}

	query := `
		INSERT INTO schedules (
			id, bus_id, route_id, operating_days, price,
			start_time, end_time, stop_timings, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		schedule.ID, schedule.BusID, schedule.RouteID, schedule.OperatingDays, schedule.Price,
		schedule.StartTime, schedule.EndTime, schedule.StopTimings, schedule.Status,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// GetByID retrieves a schedule by ID. Returns (nil, nil) when absent.
func (r *ScheduleRepository) GetByID(scheduleID string) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	query := `
		SELECT id, bus_id, route_id, operating_days, price,
		       start_time, end_time, stop_timings, status, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`

	err := r.db.QueryRow(query, scheduleID).Scan(
		&schedule.ID, &schedule.BusID, &schedule.RouteID, &schedule.OperatingDays, &schedule.Price,
		&schedule.StartTime, &schedule.EndTime, &schedule.StopTimings, &schedule.Status,
		&schedule.CreatedAt, &schedule.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// ListActiveForRoutesOnDay retrieves the active schedules for the given
// routes that operate on the given weekday and whose bus is active, joined
// with the bus capacity/display fields the materializer needs. Schedules
// referencing an inactive bus simply do not appear.
func (r *ScheduleRepository) ListActiveForRoutesOnDay(routeIDs []string, weekday string) ([]models.ScheduleWithBus, error) {
	query := `
		SELECT s.id, s.bus_id, s.route_id, s.operating_days, s.price,
		       s.start_time, s.end_time, s.stop_timings, s.status, s.created_at, s.updated_at,
		       b.bus_number, b.total_seats AS bus_seats, b.bus_type
		FROM schedules s
		JOIN buses b ON b.id = s.bus_id
		WHERE s.route_id = ANY($1)
		  AND s.status = 'active'
		  AND $2 = ANY(s.operating_days)
		  AND b.status = 'active'
		ORDER BY s.start_time
	`

	rows, err := r.db.Query(query, pq.Array(routeIDs), weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.ScheduleWithBus{}
	for rows.Next() {
		var s models.ScheduleWithBus
		err := rows.Scan(
			&s.ID, &s.BusID, &s.RouteID, &s.OperatingDays, &s.Price,
			&s.StartTime, &s.EndTime, &s.StopTimings, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&s.BusNumber, &s.BusSeats, &s.BusTypeString,
		)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

// ListByRoute retrieves all schedules for a route
func (r *ScheduleRepository) ListByRoute(routeID string) ([]models.Schedule, error) {
	query := `
		SELECT id, bus_id, route_id, operating_days, price,
		       start_time, end_time, stop_timings, status, created_at, updated_at
		FROM schedules
		WHERE route_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(query, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules for route: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		var s models.Schedule
		err := rows.Scan(
			&s.ID, &s.BusID, &s.RouteID, &s.OperatingDays, &s.Price,
			&s.StartTime, &s.EndTime, &s.StopTimings, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

// UpdateStatus updates the lifecycle status of a schedule
func (r *ScheduleRepository) UpdateStatus(scheduleID string, status models.ScheduleStatus) error {
	result, err := r.db.Exec(
		`UPDATE schedules SET status = $2, updated_at = NOW() WHERE id = $1`, scheduleID, status)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("schedule", scheduleID)
	}
	return nil
}
