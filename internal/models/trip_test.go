package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeatsConsistent(t *testing.T) {
	trip := Trip{TotalSeats: 40, BookedSeats: StringArray{"1", "2"}, AvailableSeats: 38}
	assert.True(t, trip.SeatsConsistent())

	trip.AvailableSeats = 39
	assert.False(t, trip.SeatsConsistent())
}

func TestSearchTripsRequestNormalize(t *testing.T) {
	t.Run("Applies Defaults", func(t *testing.T) {
		req := SearchTripsRequest{}
		req.Normalize()
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, 10, req.Limit)
	})

	t.Run("Caps The Limit", func(t *testing.T) {
		req := SearchTripsRequest{Page: 2, Limit: 500}
		req.Normalize()
		assert.Equal(t, 2, req.Page)
		assert.Equal(t, 50, req.Limit)
	})

	t.Run("Rejects Negative Pages", func(t *testing.T) {
		req := SearchTripsRequest{Page: -3, Limit: -1}
		req.Normalize()
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, 10, req.Limit)
	})
}

func TestSearchTripsRequestValidate(t *testing.T) {
	assert.NoError(t, (&SearchTripsRequest{}).Validate())
	assert.NoError(t, (&SearchTripsRequest{From: "Colombo", To: "Kandy"}).Validate())
	assert.NoError(t, (&SearchTripsRequest{From: "Colombo", To: "Kandy", Date: "2026-09-07"}).Validate())

	assert.Error(t, (&SearchTripsRequest{From: "Colombo"}).Validate())
	assert.Error(t, (&SearchTripsRequest{To: "Kandy"}).Validate())
	assert.Error(t, (&SearchTripsRequest{From: "Colombo", To: "Kandy", Date: "07/09/2026"}).Validate())
}

func TestSearchDate(t *testing.T) {
	now := time.Date(2026, 9, 4, 16, 45, 0, 0, time.UTC)

	t.Run("Defaults To Today", func(t *testing.T) {
		req := SearchTripsRequest{}
		assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), req.SearchDate(now))
	})

	t.Run("Uses The Requested Date", func(t *testing.T) {
		req := SearchTripsRequest{Date: "2026-09-07"}
		assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), req.SearchDate(now))
	})
}

func TestNewPagination(t *testing.T) {
	t.Run("Middle Page", func(t *testing.T) {
		p := NewPagination(2, 10, 35)
		assert.Equal(t, 2, p.CurrentPage)
		assert.Equal(t, 4, p.TotalPages)
		assert.Equal(t, 35, p.TotalTrips)
		assert.True(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("Single Page", func(t *testing.T) {
		p := NewPagination(1, 10, 3)
		assert.Equal(t, 1, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})

	t.Run("No Results", func(t *testing.T) {
		p := NewPagination(1, 10, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})
}

func TestCreateTripRequestParseDate(t *testing.T) {
	d, err := (&CreateTripRequest{TripDate: "2026-09-07"}).ParseDate()
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), d)

	_, err = (&CreateTripRequest{TripDate: "07-09-2026"}).ParseDate()
	assert.Error(t, err)
}
