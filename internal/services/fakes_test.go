package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// fakeTripStore is an in-memory TripStore with the same claim semantics as
// the real repository: claims are checked and applied under one lock, so
// concurrent tests exercise the exactly-one-winner behavior.
type fakeTripStore struct {
	mu    sync.Mutex
	trips map[string]*models.Trip
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: map[string]*models.Trip{}}
}

func (f *fakeTripStore) CreateIfAbsent(trip *models.Trip) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.trips {
		if existing.BusID == trip.BusID && existing.RouteID == trip.RouteID &&
			existing.ScheduleID == trip.ScheduleID && existing.TripDate.Equal(trip.TripDate) {
			return false, nil
		}
	}

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.BookedSeats == nil {
		trip.BookedSeats = models.StringArray{}
	}
	stored := *trip
	f.trips[trip.ID] = &stored
	return true, nil
}

func (f *fakeTripStore) GetByID(tripID string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	trip, ok := f.trips[tripID]
	if !ok {
		return nil, nil
	}
	copied := *trip
	copied.BookedSeats = append(models.StringArray{}, trip.BookedSeats...)
	return &copied, nil
}

func (f *fakeTripStore) GetByNaturalKey(busID, routeID, scheduleID string, date time.Time) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, trip := range f.trips {
		if trip.BusID == busID && trip.RouteID == routeID &&
			trip.ScheduleID == scheduleID && trip.TripDate.Equal(date) {
			copied := *trip
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTripStore) ListForRoutesOnDate(routeIDs []string, date time.Time) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	routeSet := map[string]bool{}
	for _, id := range routeIDs {
		routeSet[id] = true
	}

	trips := []models.Trip{}
	for _, trip := range f.trips {
		if routeSet[trip.RouteID] && trip.TripDate.Equal(date) {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}

func (f *fakeTripStore) ListBookableViews(routeIDs []string, date time.Time) ([]models.TripView, error) {
	trips, err := f.ListForRoutesOnDate(routeIDs, date)
	if err != nil {
		return nil, err
	}

	views := []models.TripView{}
	for _, trip := range trips {
		if trip.AvailableSeats > 0 {
			views = append(views, models.TripView{Trip: trip})
		}
	}
	return views, nil
}

func (f *fakeTripStore) ListRecentViews(limit, offset int) ([]models.TripView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	views := []models.TripView{}
	for _, trip := range f.trips {
		views = append(views, models.TripView{Trip: *trip})
	}
	if offset > len(views) {
		offset = len(views)
	}
	end := offset + limit
	if end > len(views) {
		end = len(views)
	}
	return views[offset:end], nil
}

func (f *fakeTripStore) CountTrips() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.trips), nil
}

func (f *fakeTripStore) Delete(tripID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	trip, ok := f.trips[tripID]
	if !ok {
		return models.NewNotFoundError("trip", tripID)
	}
	if len(trip.BookedSeats) > 0 {
		return models.NewPolicyError("trip has booked seats and cannot be deleted")
	}
	delete(f.trips, tripID)
	return nil
}

// claimSeats mirrors the repository's conditional update: check and apply
// happen under the same lock.
func (f *fakeTripStore) claimSeats(tripID string, seats []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	trip, ok := f.trips[tripID]
	if !ok {
		return models.NewNotFoundError("trip", tripID)
	}
	if taken := trip.BookedSeats.Intersect(seats); len(taken) > 0 {
		return models.NewConflictError("seats already booked", taken)
	}
	if trip.AvailableSeats < len(seats) {
		return models.NewConflictError(
			fmt.Sprintf("only %d seat(s) remaining", trip.AvailableSeats), nil)
	}

	trip.BookedSeats = append(trip.BookedSeats, seats...)
	trip.AvailableSeats -= len(seats)
	return nil
}

type fakeRouteStore struct {
	routes []models.Route
}

func (f *fakeRouteStore) GetByID(routeID string) (*models.Route, error) {
	for i := range f.routes {
		if f.routes[i].ID == routeID {
			route := f.routes[i]
			return &route, nil
		}
	}
	return nil, nil
}

func (f *fakeRouteStore) ListActive() ([]models.Route, error) {
	active := []models.Route{}
	for _, route := range f.routes {
		if route.IsActive {
			active = append(active, route)
		}
	}
	return active, nil
}

type fakeScheduleStore struct {
	schedules []models.ScheduleWithBus
}

func (f *fakeScheduleStore) GetByID(scheduleID string) (*models.Schedule, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == scheduleID {
			sched := f.schedules[i].Schedule
			return &sched, nil
		}
	}
	return nil, nil
}

func (f *fakeScheduleStore) ListActiveForRoutesOnDay(routeIDs []string, weekday string) ([]models.ScheduleWithBus, error) {
	routeSet := map[string]bool{}
	for _, id := range routeIDs {
		routeSet[id] = true
	}

	matched := []models.ScheduleWithBus{}
	for _, sched := range f.schedules {
		if routeSet[sched.RouteID] && sched.IsActive() && sched.OperatesOn(weekday) {
			matched = append(matched, sched)
		}
	}
	return matched, nil
}

type fakeBusStore struct {
	buses []models.Bus
}

func (f *fakeBusStore) GetByID(busID string) (*models.Bus, error) {
	for i := range f.buses {
		if f.buses[i].ID == busID {
			bus := f.buses[i]
			return &bus, nil
		}
	}
	return nil, nil
}

// fakeBookingStore persists bookings in memory and claims seats against the
// shared fakeTripStore the way the real repository does inside its
// transaction.
type fakeBookingStore struct {
	mu       sync.Mutex
	trips    *fakeTripStore
	bookings map[string]*models.Booking
	refSeq   int
}

func newFakeBookingStore(trips *fakeTripStore) *fakeBookingStore {
	return &fakeBookingStore{trips: trips, bookings: map[string]*models.Booking{}}
}

func (f *fakeBookingStore) CreateWithClaim(booking *models.Booking) error {
	if err := f.trips.claimSeats(booking.TripID, booking.SeatNumbers); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	f.refSeq++
	if booking.BookingReference == "" {
		booking.BookingReference = fmt.Sprintf("ST-20260907-%06d", f.refSeq)
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookingStore) GetByID(bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingStore) GetByReference(reference string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, booking := range f.bookings {
		if booking.BookingReference == reference {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) ListByTrip(tripID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bookings := []models.Booking{}
	for _, booking := range f.bookings {
		if booking.TripID == tripID {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (f *fakeBookingStore) ListByUser(userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bookings := []models.Booking{}
	for _, booking := range f.bookings {
		if booking.UserID != nil && *booking.UserID == userID {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (f *fakeBookingStore) Cancel(bookingID string, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok || booking.Status != models.BookingStatusConfirmed {
		return models.NewPolicyError("booking is not in a cancellable state")
	}

	now := time.Now()
	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelReason = reason
	booking.UpdatedAt = now
	return nil
}
