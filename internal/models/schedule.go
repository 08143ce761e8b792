package models

import (
	"database/sql/driver"
	"strings"
	"time"
)

// ScheduleStatus represents the lifecycle status of a schedule template
type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusInactive  ScheduleStatus = "inactive"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// weekdays holds valid lowercase weekday names, Sunday first to match time.Weekday
var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName derives the lowercase weekday name for a date.
// Pure function so tests can pin arbitrary dates.
func WeekdayName(t time.Time) string {
	return weekdays[int(t.Weekday())]
}

// DateOnly truncates a timestamp to its calendar day boundary
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsValidWeekday reports whether name is a recognized lowercase weekday
func IsValidWeekday(name string) bool {
	for _, d := range weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// StopTiming holds the arrival/departure times (HH:MM) at one stop
type StopTiming struct {
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
}

// StopTimingMap maps stop names to their timings, stored as JSONB
type StopTimingMap map[string]StopTiming

// Value implements the driver.Valuer interface
func (m StopTimingMap) Value() (driver.Value, error) {
	if m == nil {
		return jsonbValue(map[string]StopTiming{})
	}
	return jsonbValue(map[string]StopTiming(m))
}

// Scan implements the sql.Scanner interface
func (m *StopTimingMap) Scan(src interface{}) error {
	return jsonbScan(src, (*map[string]StopTiming)(m))
}

// Schedule represents a recurring trip template binding a bus to a route on
// certain weekdays with a per-seat price and timetable. A schedule holds no
// seat state; trips materialized from it do.
type Schedule struct {
	ID            string         `json:"id" db:"id"`
	BusID         string         `json:"bus_id" db:"bus_id"`
	RouteID       string         `json:"route_id" db:"route_id"`
	OperatingDays StringArray    `json:"operating_days" db:"operating_days"`
	Price         float64        `json:"price" db:"price"`
	StartTime     string         `json:"start_time" db:"start_time"`
	EndTime       string         `json:"end_time" db:"end_time"`
	StopTimings   StopTimingMap  `json:"stop_timings" db:"stop_timings"`
	Status        ScheduleStatus `json:"status" db:"status"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// OperatesOn reports whether the schedule runs on the given weekday
func (s *Schedule) OperatesOn(day string) bool {
	return s.OperatingDays.Contains(strings.ToLower(day))
}

// IsActive reports whether trips may be materialized from this schedule
func (s *Schedule) IsActive() bool {
	return s.Status == ScheduleStatusActive
}

// ScheduleWithBus is a schedule joined with the display and capacity fields
// of its referenced bus, as returned by the active-schedule queries.
type ScheduleWithBus struct {
	Schedule
	BusNumber     string `json:"bus_number" db:"bus_number"`
	BusSeats      int    `json:"bus_seats" db:"bus_seats"`
	BusTypeString string `json:"bus_type" db:"bus_type"`
}

// CreateScheduleRequest represents the request to create a schedule template
type CreateScheduleRequest struct {
	BusID         string                `json:"bus_id" binding:"required"`
	RouteID       string                `json:"route_id" binding:"required"`
	OperatingDays []string              `json:"operating_days" binding:"required"`
	Price         float64               `json:"price" binding:"required,gt=0"`
	StartTime     string                `json:"start_time" binding:"required"`
	EndTime       string                `json:"end_time" binding:"required"`
	StopTimings   map[string]StopTiming `json:"stop_timings,omitempty"`
	Status        *string               `json:"status,omitempty"`
}

// Validate validates the create schedule request
func (r *CreateScheduleRequest) Validate() error {
	if len(r.OperatingDays) == 0 {
		return NewValidationError("operating_days cannot be empty")
	}
	for _, day := range r.OperatingDays {
		if !IsValidWeekday(strings.ToLower(day)) {
			return NewValidationError("operating_days must contain lowercase weekday names (sunday..saturday)")
		}
	}

	if _, err := time.Parse("15:04", r.StartTime); err != nil {
		return NewValidationError("start_time must be in HH:MM format")
	}
	if _, err := time.Parse("15:04", r.EndTime); err != nil {
		return NewValidationError("end_time must be in HH:MM format")
	}

	if r.Status != nil {
		switch ScheduleStatus(*r.Status) {
		case ScheduleStatusActive, ScheduleStatusInactive, ScheduleStatusCancelled:
		default:
			return NewValidationError("status must be one of: active, inactive, cancelled")
		}
	}

	return nil
}
