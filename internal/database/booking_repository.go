package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// BookingRepository handles booking database operations. Booking creation
// and the seat claim commit together in one transaction, so a lost seat
// race leaves no orphaned booking behind.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, booking_reference, trip_id, user_id, agent_id,
	   seat_numbers, passenger_details, total_price, status, payment_status,
	   payment_method, boarding_point, dropoff_point, device_info,
	   cancelled_at, cancel_reason, created_at, updated_at`

// GenerateBookingReference generates a unique booking reference.
// Format: ST-YYYYMMDD-XXXXXX (6 char alphanumeric)
func (r *BookingRepository) GenerateBookingReference() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		randomStr := strings.ToUpper(hex.EncodeToString(randomBytes))

		newRef := fmt.Sprintf("ST-%s-%s", todayStr, randomStr)

		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE booking_reference = $1`, newRef)
		if err != nil {
			return "", fmt.Errorf("failed to check reference uniqueness: %w", err)
		}

		if count == 0 {
			return newRef, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique booking reference after 10 attempts")
}

// CreateWithClaim persists a booking and claims its seats on the trip in a
// single transaction. If the claim loses the race the transaction rolls
// back and the booking is never persisted; the returned ConflictError names
// the contested seats.
func (r *BookingRepository) CreateWithClaim(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.BookingReference == "" {
		ref, err := r.GenerateBookingReference()
		if err != nil {
			return err
		}
		booking.BookingReference = ref
	}

	query := `
		INSERT INTO bookings (
			id, booking_reference, trip_id, user_id, agent_id,
			seat_numbers, passenger_details, total_price, status,
			payment_status, payment_method, boarding_point, dropoff_point, device_info
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING created_at, updated_at
	`

	err = tx.QueryRowx(query,
		booking.ID, booking.BookingReference, booking.TripID, booking.UserID, booking.AgentID,
		booking.SeatNumbers, booking.Passengers, booking.TotalPrice, booking.Status,
		booking.PaymentStatus, booking.PaymentMethod, booking.BoardingPoint, booking.DropoffPoint,
		booking.DeviceInfo,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	// Claim the seats on the trip inside the same transaction; a lost
	// claim aborts the booking insert above.
	if err := claimSeats(tx, tx, booking.TripID, booking.SeatNumbers); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID. Returns (nil, nil) when absent.
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	err := r.db.Get(booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// GetByReference retrieves a booking by its human-readable reference
func (r *BookingRepository) GetByReference(reference string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_reference = $1`

	err := r.db.Get(booking, query, reference)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListByTrip retrieves all bookings for a trip, newest first
func (r *BookingRepository) ListByTrip(tripID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = $1 ORDER BY created_at DESC`

	if err := r.db.Select(&bookings, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list bookings for trip: %w", err)
	}
	return bookings, nil
}

// ListByUser retrieves all bookings made by a user, newest first
func (r *BookingRepository) ListByUser(userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings for user: %w", err)
	}
	return bookings, nil
}

// Cancel marks a confirmed booking cancelled. The status guard in the WHERE
// clause makes a repeated cancellation a no-op at this layer; the service
// reports it as a policy violation.
func (r *BookingRepository) Cancel(bookingID string, reason *string) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled',
		    cancelled_at = NOW(),
		    cancel_reason = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed'
	`

	result, err := r.db.Exec(query, bookingID, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewPolicyError("booking is not in a cancellable state")
	}
	return nil
}
