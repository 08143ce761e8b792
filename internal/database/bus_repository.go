package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// BusRepository handles database operations for the buses table
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create registers a new bus
func (r *BusRepository) Create(bus *models.Bus) error {
	if bus.ID == "" {
		bus.ID = uuid.New().String()
	}
	if bus.Status == "" {
		bus.Status = models.BusStatusActive
	}

	query := `
		INSERT INTO buses (id, bus_number, bus_type, total_seats, has_ac, has_wifi, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		bus.ID, bus.BusNumber, bus.BusType, bus.TotalSeats, bus.HasAC, bus.HasWifi, bus.Status,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}
	return nil
}

// GetByID retrieves a bus by ID. Returns (nil, nil) when absent.
func (r *BusRepository) GetByID(busID string) (*models.Bus, error) {
	bus := &models.Bus{}
	query := `
		SELECT id, bus_number, bus_type, total_seats, has_ac, has_wifi, status, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	err := r.db.QueryRow(query, busID).Scan(
		&bus.ID, &bus.BusNumber, &bus.BusType, &bus.TotalSeats,
		&bus.HasAC, &bus.HasWifi, &bus.Status, &bus.CreatedAt, &bus.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bus, nil
}

// List retrieves all buses
func (r *BusRepository) List() ([]models.Bus, error) {
	query := `
		SELECT id, bus_number, bus_type, total_seats, has_ac, has_wifi, status, created_at, updated_at
		FROM buses
		ORDER BY bus_number
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	defer rows.Close()

	buses := []models.Bus{}
	for rows.Next() {
		var bus models.Bus
		err := rows.Scan(
			&bus.ID, &bus.BusNumber, &bus.BusType, &bus.TotalSeats,
			&bus.HasAC, &bus.HasWifi, &bus.Status, &bus.CreatedAt, &bus.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}

	return buses, rows.Err()
}

// UpdateStatus updates the operational status of a bus
func (r *BusRepository) UpdateStatus(busID string, status models.BusStatus) error {
	result, err := r.db.Exec(
		`UPDATE buses SET status = $2, updated_at = NOW() WHERE id = $1`, busID, status)
	if err != nil {
		return fmt.Errorf("failed to update bus status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("bus", busID)
	}
	return nil
}
