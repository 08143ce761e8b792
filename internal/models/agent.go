package models

import (
	"time"
)

// AgentStatus represents the account status of a booking agent
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "active"
	AgentStatusSuspended AgentStatus = "suspended"
)

// Agent represents a counter/booking agent who sells cash tickets.
// Agent bookings flow through the same allocator and seat ledger as
// self-service bookings; only the payment channel differs.
type Agent struct {
	ID           string      `json:"id" db:"id"`
	Username     string      `json:"username" db:"username"`
	PasswordHash string      `json:"-" db:"password_hash"`
	FullName     string      `json:"full_name" db:"full_name"`
	Status       AgentStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the agent may log in and sell tickets
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}

// AgentLoginRequest represents an agent login attempt
type AgentLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AgentLoginResponse carries the issued token and agent profile
type AgentLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Agent     *Agent    `json:"agent"`
}
