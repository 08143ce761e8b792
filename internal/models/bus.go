package models

import (
	"time"
)

// BusType represents the type/category of bus
type BusType string

const (
	BusTypeNormal     BusType = "normal"
	BusTypeSemiLuxury BusType = "semi_luxury"
	BusTypeLuxury     BusType = "luxury"
	BusTypeSleeper    BusType = "sleeper"
)

// BusStatus represents the current operational status of a bus
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusInactive    BusStatus = "inactive"
)

// Bus represents a vehicle with a fixed seating capacity. Seat labels on
// trips are numeric strings from "1" up to TotalSeats.
type Bus struct {
	ID         string    `json:"id" db:"id"`
	BusNumber  string    `json:"bus_number" db:"bus_number"`
	BusType    BusType   `json:"bus_type" db:"bus_type"`
	TotalSeats int       `json:"total_seats" db:"total_seats"`
	HasAC      bool      `json:"has_ac" db:"has_ac"`
	HasWifi    bool      `json:"has_wifi" db:"has_wifi"`
	Status     BusStatus `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the bus can be scheduled for trips
func (b *Bus) IsActive() bool {
	return b.Status == BusStatusActive
}

// CreateBusRequest represents the request to register a new bus
type CreateBusRequest struct {
	BusNumber  string  `json:"bus_number" binding:"required"`
	BusType    string  `json:"bus_type" binding:"required"`
	TotalSeats int     `json:"total_seats" binding:"required,gt=0"`
	HasAC      bool    `json:"has_ac"`
	HasWifi    bool    `json:"has_wifi"`
	Status     *string `json:"status,omitempty"`
}

// Validate validates the create bus request
func (r *CreateBusRequest) Validate() error {
	switch BusType(r.BusType) {
	case BusTypeNormal, BusTypeSemiLuxury, BusTypeLuxury, BusTypeSleeper:
	default:
		return NewValidationError("bus_type must be one of: normal, semi_luxury, luxury, sleeper")
	}

	if r.Status != nil {
		switch BusStatus(*r.Status) {
		case BusStatusActive, BusStatusMaintenance, BusStatusInactive:
		default:
			return NewValidationError("status must be one of: active, maintenance, inactive")
		}
	}

	return nil
}
