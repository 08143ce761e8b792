package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// RouteRepository handles database operations for the routes table.
// Routes are supplied by the surrounding application and, once a trip
// references them, are read-only from the booking engine's point of view.
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create creates a new route
func (r *RouteRepository) Create(route *models.Route) error {
	if route.ID == "" {
		route.ID = uuid.New().String()
	}

	query := `
		INSERT INTO routes (id, route_name, stops, base_price, distance_km, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		route.ID, route.RouteName, route.Stops, route.BasePrice, route.DistanceKm, route.IsActive,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}

// GetByID retrieves a route by ID. Returns (nil, nil) when absent.
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `
		SELECT id, route_name, stops, base_price, distance_km, is_active, created_at, updated_at
		FROM routes
		WHERE id = $1
	`
	return r.scanRoute(r.db.QueryRow(query, routeID))
}

// ListActive retrieves all active routes with their stops
func (r *RouteRepository) ListActive() ([]models.Route, error) {
	query := `
		SELECT id, route_name, stops, base_price, distance_km, is_active, created_at, updated_at
		FROM routes
		WHERE is_active = true
		ORDER BY route_name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		var route models.Route
		err := rows.Scan(
			&route.ID, &route.RouteName, &route.Stops, &route.BasePrice,
			&route.DistanceKm, &route.IsActive, &route.CreatedAt, &route.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	return routes, rows.Err()
}

// scanRoute scans a single route, mapping no-rows to (nil, nil)
func (r *RouteRepository) scanRoute(row scanner) (*models.Route, error) {
	route := &models.Route{}
	err := row.Scan(
		&route.ID, &route.RouteName, &route.Stops, &route.BasePrice,
		&route.DistanceKm, &route.IsActive, &route.CreatedAt, &route.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return route, nil
}
