package models

import (
	"time"
)

// Trip represents a single calendar-date materialization of a schedule,
// holding the live seat inventory. At most one trip exists per
// (bus, route, schedule, date) tuple; the database enforces the uniqueness.
//
// Invariant: AvailableSeats == TotalSeats - len(BookedSeats) after every
// successful mutation.
type Trip struct {
	ID             string      `json:"id" db:"id"`
	BusID          string      `json:"bus_id" db:"bus_id"`
	RouteID        string      `json:"route_id" db:"route_id"`
	ScheduleID     string      `json:"schedule_id" db:"schedule_id"`
	TripDate       time.Time   `json:"trip_date" db:"trip_date"`
	Price          float64     `json:"price" db:"price"`
	TotalSeats     int         `json:"total_seats" db:"total_seats"`
	BookedSeats    StringArray `json:"booked_seats" db:"booked_seats"`
	AvailableSeats int         `json:"available_seats" db:"available_seats"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// SeatsConsistent reports whether the seat-ledger invariant holds
func (t *Trip) SeatsConsistent() bool {
	return t.AvailableSeats == t.TotalSeats-len(t.BookedSeats)
}

// TripView is a trip enriched with route/schedule/bus display data for
// search results and booking responses.
type TripView struct {
	Trip
	RouteName     string   `json:"route_name" db:"route_name"`
	Stops         StopList `json:"stops" db:"stops"`
	BusNumber     string   `json:"bus_number" db:"bus_number"`
	BusTypeString string   `json:"bus_type" db:"bus_type"`
	DepartureTime string   `json:"departure_time" db:"departure_time"`
	ArrivalTime   string   `json:"arrival_time" db:"arrival_time"`
}

// SearchTripsRequest represents the trip search input. From/To are free-text
// station names; with neither supplied the search lists recent trips instead.
type SearchTripsRequest struct {
	From  string `form:"from" json:"from"`
	To    string `form:"to" json:"to"`
	Date  string `form:"date" json:"date"` // YYYY-MM-DD
	Page  int    `form:"page" json:"page"`
	Limit int    `form:"limit" json:"limit"`
}

// Normalize applies pagination defaults and bounds
func (r *SearchTripsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 10
	}
	if r.Limit > 50 {
		r.Limit = 50
	}
}

// HasStopFilter reports whether a from/to station search was requested
func (r *SearchTripsRequest) HasStopFilter() bool {
	return r.From != "" || r.To != ""
}

// Validate validates the search request
func (r *SearchTripsRequest) Validate() error {
	if r.HasStopFilter() && (r.From == "" || r.To == "") {
		return NewValidationError("both from and to are required when searching by station")
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return NewValidationError("date must be in YYYY-MM-DD format")
		}
	}
	return nil
}

// SearchDate resolves the requested travel date, defaulting to today
func (r *SearchTripsRequest) SearchDate(now time.Time) time.Time {
	if r.Date != "" {
		if d, err := time.Parse("2006-01-02", r.Date); err == nil {
			return d
		}
	}
	return DateOnly(now)
}

// Pagination carries page metadata alongside search results
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalTrips  int  `json:"total_trips"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

// NewPagination computes page metadata for a total result count
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTrips:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1 && total > 0,
	}
}

// SearchTripsResponse is the paginated trip search result
type SearchTripsResponse struct {
	Trips      []TripView `json:"trips"`
	Pagination Pagination `json:"pagination"`
}

// CreateTripRequest represents the administrative request to materialize a
// single trip from a schedule for a date.
type CreateTripRequest struct {
	ScheduleID string `json:"schedule_id" binding:"required"`
	TripDate   string `json:"trip_date" binding:"required"` // YYYY-MM-DD
}

// ParseDate parses the requested trip date
func (r *CreateTripRequest) ParseDate() (time.Time, error) {
	d, err := time.Parse("2006-01-02", r.TripDate)
	if err != nil {
		return time.Time{}, NewValidationError("trip_date must be in YYYY-MM-DD format")
	}
	return d, nil
}
