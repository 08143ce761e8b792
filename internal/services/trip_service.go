package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/cache"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// TripStore is the trip persistence surface the service depends on
type TripStore interface {
	CreateIfAbsent(trip *models.Trip) (bool, error)
	GetByID(tripID string) (*models.Trip, error)
	GetByNaturalKey(busID, routeID, scheduleID string, date time.Time) (*models.Trip, error)
	ListForRoutesOnDate(routeIDs []string, date time.Time) ([]models.Trip, error)
	ListBookableViews(routeIDs []string, date time.Time) ([]models.TripView, error)
	ListRecentViews(limit, offset int) ([]models.TripView, error)
	CountTrips() (int, error)
	Delete(tripID string) error
}

// RouteStore is the route persistence surface the service depends on
type RouteStore interface {
	GetByID(routeID string) (*models.Route, error)
	ListActive() ([]models.Route, error)
}

// ScheduleStore is the schedule persistence surface the service depends on
type ScheduleStore interface {
	GetByID(scheduleID string) (*models.Schedule, error)
	ListActiveForRoutesOnDay(routeIDs []string, weekday string) ([]models.ScheduleWithBus, error)
}

// BusStore is the bus persistence surface the service depends on
type BusStore interface {
	GetByID(busID string) (*models.Bus, error)
}

// TripService materializes trips from schedules and serves trip search.
// Materialization is lazy: searching a date creates the missing trips for the
// matched routes on demand, so schedules never need a pre-generation pass.
type TripService struct {
	trips      TripStore
	routes     RouteStore
	schedules  ScheduleStore
	buses      BusStore
	matchCache *cache.RouteMatchCache
	logger     *logrus.Logger
	now        func() time.Time
}

// NewTripService creates a new trip service. matchCache may be nil.
func NewTripService(
	trips TripStore,
	routes RouteStore,
	schedules ScheduleStore,
	buses BusStore,
	matchCache *cache.RouteMatchCache,
	logger *logrus.Logger,
) *TripService {
	return &TripService{
		trips:      trips,
		routes:     routes,
		schedules:  schedules,
		buses:      buses,
		matchCache: matchCache,
		logger:     logger,
		now:        time.Now,
	}
}

// MaterializeTrips ensures trips exist for the active schedules that operate
// on the given date across the given routes. Any trip already materialized
// for the date is the authority for the whole batch: when one exists, no new
// trips are derived even if more schedules match now than did at creation
// time. Returns the number of trips created by this call.
func (s *TripService) MaterializeTrips(routeIDs []string, date time.Time) (int, error) {
	if len(routeIDs) == 0 {
		return 0, nil
	}

	existing, err := s.trips.ListForRoutesOnDate(routeIDs, date)
	if err != nil {
		return 0, fmt.Errorf("failed to load existing trips: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	weekday := models.WeekdayName(date)

	schedules, err := s.schedules.ListActiveForRoutesOnDay(routeIDs, weekday)
	if err != nil {
		return 0, fmt.Errorf("failed to load schedules for materialization: %w", err)
	}
	if len(schedules) == 0 {
		return 0, nil
	}

	created := 0
	for i := range schedules {
		sched := &schedules[i]

		trip := &models.Trip{
			BusID:          sched.BusID,
			RouteID:        sched.RouteID,
			ScheduleID:     sched.ID,
			TripDate:       date,
			Price:          sched.Price,
			TotalSeats:     sched.BusSeats,
			BookedSeats:    models.StringArray{},
			AvailableSeats: sched.BusSeats,
		}

		ok, err := s.trips.CreateIfAbsent(trip)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"schedule_id": sched.ID,
				"trip_date":   date.Format("2006-01-02"),
			}).Error("Failed to materialize trip")
			return created, fmt.Errorf("failed to materialize trip: %w", err)
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		s.logger.WithFields(logrus.Fields{
			"trip_date": date.Format("2006-01-02"),
			"created":   created,
		}).Info("Materialized trips")
	}

	return created, nil
}

// SearchTrips searches for bookable trips. With a from/to station filter it
// matches routes by stop name, materializes the date's trips for them, and
// returns the bookable ones; without a filter it lists recent trips.
func (s *TripService) SearchTrips(ctx context.Context, req *models.SearchTripsRequest) (*models.SearchTripsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	if !req.HasStopFilter() {
		return s.listRecentTrips(req)
	}

	date := req.SearchDate(s.now())

	routeIDs, err := s.matchRoutes(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}

	if len(routeIDs) == 0 {
		s.logger.WithFields(logrus.Fields{
			"from": req.From,
			"to":   req.To,
		}).Info("No routes match search")
		return &models.SearchTripsResponse{
			Trips:      []models.TripView{},
			Pagination: models.NewPagination(req.Page, req.Limit, 0),
		}, nil
	}

	if _, err := s.MaterializeTrips(routeIDs, date); err != nil {
		return nil, err
	}

	views, err := s.trips.ListBookableViews(routeIDs, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookable trips: %w", err)
	}

	total := len(views)
	start := (req.Page - 1) * req.Limit
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	s.logger.WithFields(logrus.Fields{
		"from":    req.From,
		"to":      req.To,
		"date":    date.Format("2006-01-02"),
		"results": total,
	}).Info("Search completed")

	return &models.SearchTripsResponse{
		Trips:      views[start:end],
		Pagination: models.NewPagination(req.Page, req.Limit, total),
	}, nil
}

// listRecentTrips serves the unfiltered listing, newest travel date first
func (s *TripService) listRecentTrips(req *models.SearchTripsRequest) (*models.SearchTripsResponse, error) {
	total, err := s.trips.CountTrips()
	if err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	views, err := s.trips.ListRecentViews(req.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return &models.SearchTripsResponse{
		Trips:      views,
		Pagination: models.NewPagination(req.Page, req.Limit, total),
	}, nil
}

// matchRoutes resolves the active routes serving a from/to journey, using the
// match cache when available.
func (s *TripService) matchRoutes(ctx context.Context, from, to string) ([]string, error) {
	key := cache.Key(from, to)
	if routeIDs, ok := s.matchCache.Get(ctx, key); ok {
		return routeIDs, nil
	}

	routes, err := s.routes.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	routeIDs := []string{}
	for i := range routes {
		if _, _, ok := routes[i].MatchStops(from, to); ok {
			routeIDs = append(routeIDs, routes[i].ID)
		}
	}

	s.matchCache.Set(ctx, key, routeIDs)
	return routeIDs, nil
}

// CreateTrip materializes a single trip from a schedule for a date. Returns
// the trip and whether this call created it; calling again for the same
// schedule and date returns the existing trip untouched.
func (s *TripService) CreateTrip(req *models.CreateTripRequest) (*models.Trip, bool, error) {
	date, err := req.ParseDate()
	if err != nil {
		return nil, false, err
	}

	sched, err := s.schedules.GetByID(req.ScheduleID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load schedule: %w", err)
	}
	if sched == nil {
		return nil, false, models.NewNotFoundError("schedule", req.ScheduleID)
	}
	if !sched.IsActive() {
		return nil, false, models.NewPolicyError("schedule is not active")
	}
	if !sched.OperatesOn(models.WeekdayName(date)) {
		return nil, false, models.NewPolicyError(
			fmt.Sprintf("schedule does not operate on %s", models.WeekdayName(date)))
	}

	bus, err := s.buses.GetByID(sched.BusID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load bus: %w", err)
	}
	if bus == nil {
		return nil, false, models.NewNotFoundError("bus", sched.BusID)
	}

	trip := &models.Trip{
		BusID:          sched.BusID,
		RouteID:        sched.RouteID,
		ScheduleID:     sched.ID,
		TripDate:       date,
		Price:          sched.Price,
		TotalSeats:     bus.TotalSeats,
		BookedSeats:    models.StringArray{},
		AvailableSeats: bus.TotalSeats,
	}

	created, err := s.trips.CreateIfAbsent(trip)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create trip: %w", err)
	}
	if created {
		s.logger.WithFields(logrus.Fields{
			"trip_id":     trip.ID,
			"schedule_id": sched.ID,
			"trip_date":   req.TripDate,
		}).Info("Trip created")
		return trip, true, nil
	}

	// Lost to an earlier writer; that trip is the authority
	existing, err := s.trips.GetByNaturalKey(sched.BusID, sched.RouteID, sched.ID, date)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing trip: %w", err)
	}
	if existing == nil {
		return nil, false, models.NewNotFoundError("trip", req.ScheduleID+"@"+req.TripDate)
	}
	return existing, false, nil
}

// GetTrip retrieves a trip by ID
func (s *TripService) GetTrip(tripID string) (*models.Trip, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	if trip == nil {
		return nil, models.NewNotFoundError("trip", tripID)
	}
	return trip, nil
}

// DeleteTrip removes a trip unless any of its seats are booked
func (s *TripService) DeleteTrip(tripID string) error {
	if err := s.trips.Delete(tripID); err != nil {
		return err
	}
	s.logger.WithField("trip_id", tripID).Info("Trip deleted")
	return nil
}
