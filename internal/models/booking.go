package models

import (
	"database/sql/driver"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod represents how a booking was paid for
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"
)

// Gender is the passenger gender enum
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// PassengerDetail holds the details of one passenger, paired 1:1 with a
// seat label on the booking.
type PassengerDetail struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Phone  string `json:"phone"`
	Email  string `json:"email,omitempty"`
}

// PassengerList is the booking-owned passenger list stored as JSONB
type PassengerList []PassengerDetail

// Value implements the driver.Valuer interface
func (l PassengerList) Value() (driver.Value, error) {
	return jsonbValue([]PassengerDetail(l))
}

// Scan implements the sql.Scanner interface
func (l *PassengerList) Scan(src interface{}) error {
	return jsonbScan(src, (*[]PassengerDetail)(l))
}

// BoardingPoint identifies a stop on the trip's route by name and sequence
type BoardingPoint struct {
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
}

// Value implements the driver.Valuer interface
func (p BoardingPoint) Value() (driver.Value, error) {
	return jsonbValue(p)
}

// Scan implements the sql.Scanner interface
func (p *BoardingPoint) Scan(src interface{}) error {
	return jsonbScan(src, p)
}

// DeviceInfo is a snapshot of the booking client, stored as JSONB
type DeviceInfo map[string]string

// Value implements the driver.Valuer interface
func (d DeviceInfo) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return jsonbValue(map[string]string(d))
}

// Scan implements the sql.Scanner interface
func (d *DeviceInfo) Scan(src interface{}) error {
	return jsonbScan(src, (*map[string]string)(d))
}

// Booking represents a passenger's reservation of specific seats on a trip.
// It exclusively owns its passenger list and holds non-owning references to
// its trip and, optionally, a user or agent.
//
// Once confirmed, SeatNumbers is a subset of the owning trip's booked seats.
type Booking struct {
	ID               string        `json:"id" db:"id"`
	BookingReference string        `json:"booking_reference" db:"booking_reference"`
	TripID           string        `json:"trip_id" db:"trip_id"`
	UserID           *string       `json:"user_id,omitempty" db:"user_id"`
	AgentID          *string       `json:"agent_id,omitempty" db:"agent_id"`
	SeatNumbers      StringArray   `json:"seat_numbers" db:"seat_numbers"`
	Passengers       PassengerList `json:"passenger_details" db:"passenger_details"`
	TotalPrice       float64       `json:"total_price" db:"total_price"`
	Status           BookingStatus `json:"status" db:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod    PaymentMethod `json:"payment_method" db:"payment_method"`
	BoardingPoint    BoardingPoint `json:"boarding_point" db:"boarding_point"`
	DropoffPoint     BoardingPoint `json:"dropoff_point" db:"dropoff_point"`
	DeviceInfo       DeviceInfo    `json:"device_info,omitempty" db:"device_info"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelReason     *string       `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// CanBeCancelled reports whether the booking is in a cancellable state
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusConfirmed
}

// CreateBookingRequest represents the request to reserve seats on a trip
type CreateBookingRequest struct {
	TripID           string            `json:"trip_id" binding:"required"`
	SeatNumbers      []string          `json:"seat_numbers" binding:"required"`
	PassengerDetails []PassengerDetail `json:"passenger_details" binding:"required"`
	TotalPrice       float64           `json:"total_price" binding:"required"`
	BoardingPoint    BoardingPoint     `json:"boarding_point" binding:"required"`
	DropoffPoint     BoardingPoint     `json:"dropoff_point" binding:"required"`
}

// Validate checks the structural consistency of the request: at least one
// seat, and exactly one passenger per seat. Passenger field validation and
// everything that needs trip/route state happens in the booking service.
func (r *CreateBookingRequest) Validate() error {
	if len(r.SeatNumbers) == 0 {
		return NewValidationError("at least one seat must be selected")
	}
	if len(r.SeatNumbers) != len(r.PassengerDetails) {
		return NewValidationError("passenger details must match the number of seats")
	}
	seen := make(map[string]bool, len(r.SeatNumbers))
	for _, seat := range r.SeatNumbers {
		if seat == "" {
			return NewValidationError("seat labels cannot be empty")
		}
		if seen[seat] {
			return NewValidationError("duplicate seat label in request: " + seat)
		}
		seen[seat] = true
	}
	return nil
}

// CancelBookingRequest represents the request to cancel a booking
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// BookingResponse pairs the persisted booking with the updated trip view
type BookingResponse struct {
	Booking *Booking `json:"booking"`
	Trip    *Trip    `json:"trip"`
}
