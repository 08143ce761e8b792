package services

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/config"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

func testBookingPolicy() config.BookingConfig {
	return config.BookingConfig{
		CancellationWindowHours: 24,
		PriceTolerance:          0.01,
		MaxSeatsPerBooking:      10,
	}
}

// bookingWorld extends the trip fixture with a booking store and a
// materialized Monday trip ready to book.
type bookingWorld struct {
	*tripWorld
	bookings *fakeBookingStore
	svc      *BookingService
	trip     *models.Trip
}

func newBookingWorld(t *testing.T) *bookingWorld {
	t.Helper()

	world := newTripWorld()
	_, err := world.tripService().MaterializeTrips([]string{"route-1"}, monday)
	require.NoError(t, err)

	trip, err := world.trips.GetByNaturalKey("bus-1", "route-1", "sched-1", monday)
	require.NoError(t, err)
	require.NotNil(t, trip)

	bookings := newFakeBookingStore(world.trips)
	svc := NewBookingService(
		bookings, world.trips, world.routes, world.schedules,
		testBookingPolicy(), testLogger(),
	)
	// Bookings are made well before the Monday departure
	svc.now = func() time.Time { return monday.AddDate(0, 0, -3) }

	return &bookingWorld{tripWorld: world, bookings: bookings, svc: svc, trip: trip}
}

func validBookingRequest(tripID string) *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		TripID:      tripID,
		SeatNumbers: []string{"5", "6"},
		PassengerDetails: []models.PassengerDetail{
			{Name: "Anita Perera", Gender: models.GenderFemale, Phone: "0771234567"},
			{Name: "Ruwan Perera", Gender: models.GenderMale, Phone: "0777654321"},
		},
		TotalPrice:    200,
		BoardingPoint: models.BoardingPoint{Name: "Colombo"},
		DropoffPoint:  models.BoardingPoint{Name: "Kandy"},
	}
}

func TestCreateBooking(t *testing.T) {
	userID := "user-1"

	t.Run("Confirms A Valid Booking", func(t *testing.T) {
		world := newBookingWorld(t)

		resp, err := world.svc.CreateBooking(
			validBookingRequest(world.trip.ID), &userID, nil,
			models.PaymentMethodOnline, models.DeviceInfo{"device_type": "mobile"})
		require.NoError(t, err)

		booking := resp.Booking
		assert.NotEmpty(t, booking.ID)
		assert.NotEmpty(t, booking.BookingReference)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		assert.Equal(t, models.PaymentStatusCompleted, booking.PaymentStatus)
		assert.Equal(t, models.PaymentMethodOnline, booking.PaymentMethod)

		// Sequences come from the route, not the request
		assert.Equal(t, 1, booking.BoardingPoint.Sequence)
		assert.Equal(t, 3, booking.DropoffPoint.Sequence)

		trip := resp.Trip
		require.NotNil(t, trip)
		assert.Equal(t, 38, trip.AvailableSeats)
		assert.True(t, trip.SeatsConsistent())
		for _, seat := range booking.SeatNumbers {
			assert.True(t, trip.BookedSeats.Contains(seat))
		}
	})

	t.Run("Agent Booking Carries The Agent", func(t *testing.T) {
		world := newBookingWorld(t)
		agentID := "agent-1"

		resp, err := world.svc.CreateBooking(
			validBookingRequest(world.trip.ID), nil, &agentID,
			models.PaymentMethodCash, nil)
		require.NoError(t, err)
		require.NotNil(t, resp.Booking.AgentID)
		assert.Equal(t, agentID, *resp.Booking.AgentID)
		assert.Nil(t, resp.Booking.UserID)
		assert.Equal(t, models.PaymentMethodCash, resp.Booking.PaymentMethod)
	})

	t.Run("Rejects Contested Seats By Name", func(t *testing.T) {
		world := newBookingWorld(t)

		_, err := world.svc.CreateBooking(
			validBookingRequest(world.trip.ID), &userID, nil,
			models.PaymentMethodOnline, nil)
		require.NoError(t, err)

		req := validBookingRequest(world.trip.ID)
		req.SeatNumbers = []string{"6", "7"}
		_, err = world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)

		conflictErr, ok := err.(*models.ConflictError)
		require.True(t, ok, "expected ConflictError, got %T", err)
		assert.Equal(t, []string{"6"}, conflictErr.ContestedSeats)
	})

	t.Run("Exactly One Of Two Racing Claims Wins", func(t *testing.T) {
		world := newBookingWorld(t)

		req := func() *models.CreateBookingRequest {
			r := validBookingRequest(world.trip.ID)
			r.SeatNumbers = []string{"1"}
			r.PassengerDetails = r.PassengerDetails[:1]
			r.TotalPrice = 100
			return r
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = world.svc.CreateBooking(
					req(), &userID, nil, models.PaymentMethodOnline, nil)
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				_, ok := err.(*models.ConflictError)
				assert.True(t, ok, "loser should get ConflictError, got %T", err)
			}
		}
		assert.Equal(t, 1, winners)

		trip, _ := world.trips.GetByID(world.trip.ID)
		assert.Equal(t, 39, trip.AvailableSeats)
		assert.True(t, trip.SeatsConsistent())
	})

	t.Run("Boarding Must Precede Dropoff", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.BoardingPoint = models.BoardingPoint{Name: "Kandy"}
		req.DropoffPoint = models.BoardingPoint{Name: "Colombo"}

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)
		_, ok := err.(*models.ValidationError)
		assert.True(t, ok, "expected ValidationError, got %T", err)
	})

	t.Run("Rejects Stops Not On The Route", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.BoardingPoint = models.BoardingPoint{Name: "Galle"}

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)
		_, ok := err.(*models.ValidationError)
		assert.True(t, ok)
	})

	t.Run("Rejects Departed Trips", func(t *testing.T) {
		world := newBookingWorld(t)
		world.svc.now = func() time.Time { return monday.AddDate(0, 0, 1) }

		_, err := world.svc.CreateBooking(
			validBookingRequest(world.trip.ID), &userID, nil,
			models.PaymentMethodOnline, nil)
		require.Error(t, err)
		_, ok := err.(*models.PolicyError)
		assert.True(t, ok, "expected PolicyError, got %T", err)
	})

	t.Run("Travel-Day Bookings Work West Of UTC", func(t *testing.T) {
		world := newBookingWorld(t)
		// Local Monday morning in a UTC-5 zone; the trip date is stored as
		// UTC midnight and must not read as departed.
		world.svc.now = func() time.Time {
			return time.Date(2026, 9, 7, 10, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))
		}

		_, err := world.svc.CreateBooking(
			validBookingRequest(world.trip.ID), &userID, nil,
			models.PaymentMethodOnline, nil)
		assert.NoError(t, err)
	})

	t.Run("Rejects Seat Labels Beyond Capacity", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.SeatNumbers = []string{"5", "41"}

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist on this bus")
	})

	t.Run("Rejects Malformed Seat Labels", func(t *testing.T) {
		world := newBookingWorld(t)

		for _, label := range []string{"0", "-1", "abc", ""} {
			req := validBookingRequest(world.trip.ID)
			req.SeatNumbers = []string{label, "6"}

			_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
			require.Error(t, err, "label %q should be rejected", label)
			_, ok := err.(*models.ValidationError)
			assert.True(t, ok)
		}
	})

	t.Run("Rejects Price Mismatch", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.TotalPrice = 150

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "total price mismatch")
	})

	t.Run("Tolerates Sub-Cent Price Drift", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.TotalPrice = 200.004

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		assert.NoError(t, err)
	})

	t.Run("Rejects Passenger Seat Count Mismatch", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.PassengerDetails = req.PassengerDetails[:1]

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)
		_, ok := err.(*models.ValidationError)
		assert.True(t, ok)
	})

	t.Run("Rejects Oversized Bookings", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.SeatNumbers = nil
		req.PassengerDetails = nil
		for i := 1; i <= 11; i++ {
			req.SeatNumbers = append(req.SeatNumbers, strconv.Itoa(i))
			req.PassengerDetails = append(req.PassengerDetails, models.PassengerDetail{
				Name: "Passenger", Gender: models.GenderOther, Phone: "0771234567",
			})
		}
		req.TotalPrice = 1100

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)
		_, ok := err.(*models.ValidationError)
		assert.True(t, ok)
	})

	t.Run("Rejects Invalid Passenger Details", func(t *testing.T) {
		world := newBookingWorld(t)

		req := validBookingRequest(world.trip.ID)
		req.PassengerDetails[0].Name = ""

		_, err := world.svc.CreateBooking(req, &userID, nil, models.PaymentMethodOnline, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "passenger 1")
	})

	t.Run("Unknown Trip", func(t *testing.T) {
		world := newBookingWorld(t)

		_, err := world.svc.CreateBooking(
			validBookingRequest("missing"), &userID, nil,
			models.PaymentMethodOnline, nil)
		require.Error(t, err)
		_, ok := err.(*models.NotFoundError)
		assert.True(t, ok)
	})
}

func TestCancelBooking(t *testing.T) {
	userID := "user-1"

	makeBooking := func(t *testing.T, world *bookingWorld) *models.Booking {
		t.Helper()
		resp, err := world.svc.CreateBooking(
			validBookingRequest(world.trip.ID), &userID, nil,
			models.PaymentMethodOnline, nil)
		require.NoError(t, err)
		return resp.Booking
	}

	t.Run("Cancels Outside The Window", func(t *testing.T) {
		world := newBookingWorld(t)
		booking := makeBooking(t, world)

		// Departure is Monday 08:00; 30 hours ahead clears the 24h window
		world.svc.now = func() time.Time {
			return monday.Add(8*time.Hour - 30*time.Hour)
		}

		reason := "change of plans"
		cancelled, err := world.svc.CancelBooking(booking.ID, &reason)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancelReason)
		assert.Equal(t, reason, *cancelled.CancelReason)
		assert.NotNil(t, cancelled.CancelledAt)
	})

	t.Run("Rejects Inside The Window", func(t *testing.T) {
		world := newBookingWorld(t)
		booking := makeBooking(t, world)

		// 10 hours before departure is inside the 24h window
		world.svc.now = func() time.Time {
			return monday.Add(8*time.Hour - 10*time.Hour)
		}

		_, err := world.svc.CancelBooking(booking.ID, nil)
		require.Error(t, err)
		_, ok := err.(*models.PolicyError)
		assert.True(t, ok, "expected PolicyError, got %T", err)
	})

	t.Run("Cancellation Does Not Release Seats", func(t *testing.T) {
		world := newBookingWorld(t)
		booking := makeBooking(t, world)

		before, _ := world.trips.GetByID(world.trip.ID)
		require.Equal(t, 38, before.AvailableSeats)

		_, err := world.svc.CancelBooking(booking.ID, nil)
		require.NoError(t, err)

		after, _ := world.trips.GetByID(world.trip.ID)
		assert.Equal(t, 38, after.AvailableSeats)
		assert.True(t, after.BookedSeats.Contains("5"))
		assert.True(t, after.BookedSeats.Contains("6"))
	})

	t.Run("Repeated Cancellation Is Rejected", func(t *testing.T) {
		world := newBookingWorld(t)
		booking := makeBooking(t, world)

		_, err := world.svc.CancelBooking(booking.ID, nil)
		require.NoError(t, err)

		_, err = world.svc.CancelBooking(booking.ID, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already cancelled")
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		world := newBookingWorld(t)

		_, err := world.svc.CancelBooking("missing", nil)
		require.Error(t, err)
		_, ok := err.(*models.NotFoundError)
		assert.True(t, ok)
	})
}

func TestBookingLookups(t *testing.T) {
	userID := "user-1"
	world := newBookingWorld(t)

	resp, err := world.svc.CreateBooking(
		validBookingRequest(world.trip.ID), &userID, nil,
		models.PaymentMethodOnline, nil)
	require.NoError(t, err)

	t.Run("By ID", func(t *testing.T) {
		got, err := world.svc.GetBooking(resp.Booking.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.Booking.ID, got.Booking.ID)
		require.NotNil(t, got.Trip)
		assert.Equal(t, world.trip.ID, got.Trip.ID)
	})

	t.Run("By Reference", func(t *testing.T) {
		got, err := world.svc.GetBookingByReference(resp.Booking.BookingReference)
		require.NoError(t, err)
		assert.Equal(t, resp.Booking.ID, got.Booking.ID)
	})

	t.Run("Unknown Reference", func(t *testing.T) {
		_, err := world.svc.GetBookingByReference("ST-20260907-FFFFFF")
		require.Error(t, err)
		_, ok := err.(*models.NotFoundError)
		assert.True(t, ok)
	})

	t.Run("By User", func(t *testing.T) {
		bookings, err := world.svc.ListUserBookings(userID)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("By Trip", func(t *testing.T) {
		bookings, err := world.svc.ListTripBookings(world.trip.ID)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})
}
