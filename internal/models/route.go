package models

import (
	"database/sql/driver"
	"strings"
	"time"
)

// Stop represents a named stop on a route. Sequence defines travel order
// and is unique within a route, starting at 1.
type Stop struct {
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
}

// StopList is an ordered list of stops stored as JSONB
type StopList []Stop

// Value implements the driver.Valuer interface
func (l StopList) Value() (driver.Value, error) {
	return jsonbValue([]Stop(l))
}

// Scan implements the sql.Scanner interface
func (l *StopList) Scan(src interface{}) error {
	return jsonbScan(src, (*[]Stop)(l))
}

// Route represents a named ordered sequence of stops a bus service follows.
// Routes are immutable from the booking engine's point of view.
type Route struct {
	ID         string    `json:"id" db:"id"`
	RouteName  string    `json:"route_name" db:"route_name"`
	Stops      StopList  `json:"stops" db:"stops"`
	BasePrice  float64   `json:"base_price" db:"base_price"`
	DistanceKm float64   `json:"distance_km" db:"distance_km"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FindStop resolves a stop by name (case-insensitive exact match)
func (r *Route) FindStop(name string) *Stop {
	for i := range r.Stops {
		if strings.EqualFold(r.Stops[i].Name, name) {
			return &r.Stops[i]
		}
	}
	return nil
}

// MatchStops checks whether the route serves a journey between two
// free-text station names. Matching is a case-insensitive substring match
// against stop names, and the route qualifies only when the matched origin
// stop comes before the matched destination stop in travel order.
func (r *Route) MatchStops(from, to string) (*Stop, *Stop, bool) {
	fromLower := strings.ToLower(strings.TrimSpace(from))
	toLower := strings.ToLower(strings.TrimSpace(to))
	if fromLower == "" || toLower == "" {
		return nil, nil, false
	}

	for i := range r.Stops {
		if !strings.Contains(strings.ToLower(r.Stops[i].Name), fromLower) {
			continue
		}
		for j := range r.Stops {
			if r.Stops[j].Sequence <= r.Stops[i].Sequence {
				continue
			}
			if strings.Contains(strings.ToLower(r.Stops[j].Name), toLower) {
				return &r.Stops[i], &r.Stops[j], true
			}
		}
	}

	return nil, nil, false
}

// CreateRouteRequest represents the request to create a new route
type CreateRouteRequest struct {
	RouteName  string  `json:"route_name" binding:"required"`
	Stops      []Stop  `json:"stops" binding:"required"`
	BasePrice  float64 `json:"base_price" binding:"required,gt=0"`
	DistanceKm float64 `json:"distance_km"`
}

// Validate validates the create route request
func (r *CreateRouteRequest) Validate() error {
	if len(r.Stops) < 2 {
		return NewValidationError("a route requires at least 2 stops")
	}

	seen := make(map[int]bool, len(r.Stops))
	for _, stop := range r.Stops {
		if strings.TrimSpace(stop.Name) == "" {
			return NewValidationError("stop name cannot be empty")
		}
		if stop.Sequence < 1 {
			return NewValidationError("stop sequence must be >= 1")
		}
		if seen[stop.Sequence] {
			return NewValidationError("stop sequences must be unique within a route")
		}
		seen[stop.Sequence] = true
	}

	return nil
}
