package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/cache"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// CatalogRouteStore extends the read-side route surface with writes
type CatalogRouteStore interface {
	RouteStore
	Create(route *models.Route) error
}

// CatalogBusStore extends the read-side bus surface with writes
type CatalogBusStore interface {
	BusStore
	Create(bus *models.Bus) error
	List() ([]models.Bus, error)
	UpdateStatus(busID string, status models.BusStatus) error
}

// CatalogScheduleStore extends the read-side schedule surface with writes
type CatalogScheduleStore interface {
	ScheduleStore
	Create(schedule *models.Schedule) error
	ListByRoute(routeID string) ([]models.Schedule, error)
	UpdateStatus(scheduleID string, status models.ScheduleStatus) error
}

// CatalogService manages the static inventory the booking engine runs on:
// routes, buses, and schedules.
type CatalogService struct {
	routes     CatalogRouteStore
	buses      CatalogBusStore
	schedules  CatalogScheduleStore
	matchCache *cache.RouteMatchCache
	logger     *logrus.Logger
}

// NewCatalogService creates a new catalog service. matchCache may be nil.
func NewCatalogService(
	routes CatalogRouteStore,
	buses CatalogBusStore,
	schedules CatalogScheduleStore,
	matchCache *cache.RouteMatchCache,
	logger *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		routes:     routes,
		buses:      buses,
		schedules:  schedules,
		matchCache: matchCache,
		logger:     logger,
	}
}

// CreateRoute creates a route and invalidates cached stop matches, since a
// new route can change which routes serve a from/to pair.
func (s *CatalogService) CreateRoute(ctx context.Context, req *models.CreateRouteRequest) (*models.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	route := &models.Route{
		RouteName:  strings.TrimSpace(req.RouteName),
		Stops:      models.StopList(req.Stops),
		BasePrice:  req.BasePrice,
		DistanceKm: req.DistanceKm,
		IsActive:   true,
	}

	if err := s.routes.Create(route); err != nil {
		return nil, err
	}

	s.matchCache.Invalidate(ctx)
	s.logger.WithFields(logrus.Fields{
		"route_id":   route.ID,
		"route_name": route.RouteName,
	}).Info("Route created")

	return route, nil
}

// ListRoutes retrieves all active routes
func (s *CatalogService) ListRoutes() ([]models.Route, error) {
	routes, err := s.routes.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// GetRoute retrieves a route by ID
func (s *CatalogService) GetRoute(routeID string) (*models.Route, error) {
	route, err := s.routes.GetByID(routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load route: %w", err)
	}
	if route == nil {
		return nil, models.NewNotFoundError("route", routeID)
	}
	return route, nil
}

// CreateBus registers a new bus
func (s *CatalogService) CreateBus(req *models.CreateBusRequest) (*models.Bus, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bus := &models.Bus{
		BusNumber:  strings.TrimSpace(req.BusNumber),
		BusType:    models.BusType(req.BusType),
		TotalSeats: req.TotalSeats,
		HasAC:      req.HasAC,
		HasWifi:    req.HasWifi,
		Status:     models.BusStatusActive,
	}
	if req.Status != nil {
		bus.Status = models.BusStatus(*req.Status)
	}

	if err := s.buses.Create(bus); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id":     bus.ID,
		"bus_number": bus.BusNumber,
	}).Info("Bus created")

	return bus, nil
}

// ListBuses retrieves all buses
func (s *CatalogService) ListBuses() ([]models.Bus, error) {
	buses, err := s.buses.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	return buses, nil
}

// CreateSchedule creates a schedule template after checking that the bus and
// route it references exist.
func (s *CatalogService) CreateSchedule(req *models.CreateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bus, err := s.buses.GetByID(req.BusID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bus: %w", err)
	}
	if bus == nil {
		return nil, models.NewNotFoundError("bus", req.BusID)
	}

	route, err := s.routes.GetByID(req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load route: %w", err)
	}
	if route == nil {
		return nil, models.NewNotFoundError("route", req.RouteID)
	}

	days := make([]string, len(req.OperatingDays))
	for i, d := range req.OperatingDays {
		days[i] = strings.ToLower(d)
	}

	schedule := &models.Schedule{
		BusID:         req.BusID,
		RouteID:       req.RouteID,
		OperatingDays: models.StringArray(days),
		Price:         req.Price,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StopTimings:   models.StopTimingMap(req.StopTimings),
		Status:        models.ScheduleStatusActive,
	}
	if req.Status != nil {
		schedule.Status = models.ScheduleStatus(*req.Status)
	}

	if err := s.schedules.Create(schedule); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"bus_id":      schedule.BusID,
		"route_id":    schedule.RouteID,
	}).Info("Schedule created")

	return schedule, nil
}

// ListRouteSchedules retrieves all schedules for a route
func (s *CatalogService) ListRouteSchedules(routeID string) ([]models.Schedule, error) {
	schedules, err := s.schedules.ListByRoute(routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}
