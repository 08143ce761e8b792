package services

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/config"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
	"github.com/prathameshmane019/suhani-travels-sub000/pkg/validator"
)

// BookingStore is the booking persistence surface the service depends on
type BookingStore interface {
	CreateWithClaim(booking *models.Booking) error
	GetByID(bookingID string) (*models.Booking, error)
	GetByReference(reference string) (*models.Booking, error)
	ListByTrip(tripID string) ([]models.Booking, error)
	ListByUser(userID string) ([]models.Booking, error)
	Cancel(bookingID string, reason *string) error
}

// BookingService runs the booking validation chain and the cancellation
// policy. The atomic seat claim itself lives in the store; this service is
// responsible for rejecting everything the claim must never see.
type BookingService struct {
	bookings   BookingStore
	trips      TripStore
	routes     RouteStore
	schedules  ScheduleStore
	passengers *validator.PassengerValidator
	policy     config.BookingConfig
	logger     *logrus.Logger
	now        func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings BookingStore,
	trips TripStore,
	routes RouteStore,
	schedules ScheduleStore,
	policy config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		trips:      trips,
		routes:     routes,
		schedules:  schedules,
		passengers: validator.NewPassengerValidator(),
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateBooking validates a booking request end to end and, only when every
// check passes, attempts the atomic seat claim. userID and agentID identify
// the booking channel: a self-service online booking carries a userID, a
// counter sale carries the agentID of the signed-in agent.
func (s *BookingService) CreateBooking(
	req *models.CreateBookingRequest,
	userID *string,
	agentID *string,
	method models.PaymentMethod,
	device models.DeviceInfo,
) (*models.BookingResponse, error) {
	// Structural checks first: seat count and passenger pairing
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.SeatNumbers) > s.policy.MaxSeatsPerBooking {
		return nil, models.NewValidationError(
			fmt.Sprintf("at most %d seats may be booked at once", s.policy.MaxSeatsPerBooking))
	}

	for i, p := range req.PassengerDetails {
		if err := s.passengers.Validate(p.Name, string(p.Gender), p.Phone, p.Email); err != nil {
			return nil, models.NewValidationError(
				fmt.Sprintf("passenger %d: %v", i+1, err))
		}
	}

	trip, err := s.trips.GetByID(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	if trip == nil {
		return nil, models.NewNotFoundError("trip", req.TripID)
	}

	boarding, dropoff, err := s.resolveJourney(trip.RouteID, req.BoardingPoint.Name, req.DropoffPoint.Name)
	if err != nil {
		return nil, err
	}

	// Trip dates are stored as UTC midnight; compare calendar days in UTC so
	// a server west of UTC does not reject today's trips as departed.
	if trip.TripDate.Before(models.DateOnly(s.now().UTC())) {
		return nil, models.NewPolicyError("cannot book a trip that has already departed")
	}

	// Pre-check against the last-read seat map. The claim re-checks
	// atomically; this pass exists to name contested seats cheaply before
	// paying for a write.
	if taken := trip.BookedSeats.Intersect(req.SeatNumbers); len(taken) > 0 {
		return nil, models.NewConflictError("seats already booked", taken)
	}

	if err := validateSeatLabels(req.SeatNumbers, trip.TotalSeats); err != nil {
		return nil, err
	}

	expected := trip.Price * float64(len(req.SeatNumbers))
	if math.Abs(req.TotalPrice-expected) > s.policy.PriceTolerance {
		return nil, models.NewValidationError(
			fmt.Sprintf("total price mismatch: expected %.2f, got %.2f", expected, req.TotalPrice))
	}

	booking := &models.Booking{
		TripID:        trip.ID,
		UserID:        userID,
		AgentID:       agentID,
		SeatNumbers:   models.StringArray(req.SeatNumbers),
		Passengers:    models.PassengerList(req.PassengerDetails),
		TotalPrice:    req.TotalPrice,
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
		PaymentMethod: method,
		BoardingPoint: models.BoardingPoint{Name: boarding.Name, Sequence: boarding.Sequence},
		DropoffPoint:  models.BoardingPoint{Name: dropoff.Name, Sequence: dropoff.Sequence},
		DeviceInfo:    device,
	}

	if err := s.bookings.CreateWithClaim(booking); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"trip_id": trip.ID,
			"seats":   req.SeatNumbers,
		}).Warn("Booking rejected")
		return nil, err
	}

	updated, err := s.trips.GetByID(trip.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload trip: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"trip_id":           trip.ID,
		"seats":             len(booking.SeatNumbers),
		"payment_method":    method,
	}).Info("Booking confirmed")

	return &models.BookingResponse{Booking: booking, Trip: updated}, nil
}

// resolveJourney resolves boarding and dropoff against the trip's route and
// enforces travel direction. Sequences come from the route, never the client.
func (s *BookingService) resolveJourney(routeID, boardingName, dropoffName string) (*models.Stop, *models.Stop, error) {
	route, err := s.routes.GetByID(routeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load route: %w", err)
	}
	if route == nil {
		return nil, nil, models.NewNotFoundError("route", routeID)
	}

	boarding := route.FindStop(boardingName)
	if boarding == nil {
		return nil, nil, models.NewValidationError(
			fmt.Sprintf("boarding point %q is not a stop on this route", boardingName))
	}
	dropoff := route.FindStop(dropoffName)
	if dropoff == nil {
		return nil, nil, models.NewValidationError(
			fmt.Sprintf("dropoff point %q is not a stop on this route", dropoffName))
	}
	if boarding.Sequence >= dropoff.Sequence {
		return nil, nil, models.NewValidationError(
			"boarding point must come before dropoff point in travel direction")
	}

	return boarding, dropoff, nil
}

// validateSeatLabels checks that every requested label names a seat that
// exists on the bus. Labels are numeric, 1 through the bus capacity.
func validateSeatLabels(seats []string, totalSeats int) error {
	for _, label := range seats {
		n, err := strconv.Atoi(label)
		if err != nil || n < 1 {
			return models.NewValidationError(fmt.Sprintf("invalid seat label %q", label))
		}
		if n > totalSeats {
			return models.NewValidationError(
				fmt.Sprintf("seat %s does not exist on this bus (capacity %d)", label, totalSeats))
		}
	}
	return nil
}

// CancelBooking cancels a confirmed booking. Cancellation does not release
// the booked seats back to the trip; the seats stay held against resale.
func (s *BookingService) CancelBooking(bookingID string, reason *string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, models.NewNotFoundError("booking", bookingID)
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, models.NewPolicyError("booking is already cancelled")
	}
	if !booking.CanBeCancelled() {
		return nil, models.NewPolicyError(
			fmt.Sprintf("booking in status %q cannot be cancelled", booking.Status))
	}

	departure, err := s.departureTime(booking.TripID)
	if err != nil {
		return nil, err
	}

	window := time.Duration(s.policy.CancellationWindowHours) * time.Hour
	if s.now().Add(window).After(departure) {
		return nil, models.NewPolicyError(fmt.Sprintf(
			"bookings can only be cancelled at least %d hours before departure",
			s.policy.CancellationWindowHours))
	}

	if err := s.bookings.Cancel(booking.ID, reason); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
	}).Info("Booking cancelled")

	return s.bookings.GetByID(booking.ID)
}

// departureTime resolves the trip's departure as trip date plus the
// schedule's start time.
func (s *BookingService) departureTime(tripID string) (time.Time, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load trip: %w", err)
	}
	if trip == nil {
		return time.Time{}, models.NewNotFoundError("trip", tripID)
	}

	departure := models.DateOnly(trip.TripDate)
	if sched, err := s.schedules.GetByID(trip.ScheduleID); err == nil && sched != nil {
		if t, err := time.Parse("15:04", sched.StartTime); err == nil {
			departure = departure.Add(
				time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return departure, nil
}

// GetBooking retrieves a booking with its trip by booking ID
func (s *BookingService) GetBooking(bookingID string) (*models.BookingResponse, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, models.NewNotFoundError("booking", bookingID)
	}

	trip, err := s.trips.GetByID(booking.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	return &models.BookingResponse{Booking: booking, Trip: trip}, nil
}

// GetBookingByReference retrieves a booking with its trip by public reference
func (s *BookingService) GetBookingByReference(reference string) (*models.BookingResponse, error) {
	booking, err := s.bookings.GetByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, models.NewNotFoundError("booking", reference)
	}

	trip, err := s.trips.GetByID(booking.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	return &models.BookingResponse{Booking: booking, Trip: trip}, nil
}

// ListUserBookings retrieves all bookings made by a user, newest first
func (s *BookingService) ListUserBookings(userID string) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListTripBookings retrieves all bookings against a trip, newest first
func (s *BookingService) ListTripBookings(tripID string) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByTrip(tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
