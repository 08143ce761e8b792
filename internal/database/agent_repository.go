package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// AgentRepository handles database operations for booking agents
type AgentRepository struct {
	db DB
}

// NewAgentRepository creates a new AgentRepository
func NewAgentRepository(db DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Create registers a new agent
func (r *AgentRepository) Create(agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	if agent.Status == "" {
		agent.Status = models.AgentStatusActive
	}

	query := `
		INSERT INTO agents (id, username, password_hash, full_name, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		agent.ID, agent.Username, agent.PasswordHash, agent.FullName, agent.Status,
	).Scan(&agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// GetByUsername retrieves an agent by username. Returns (nil, nil) when absent.
func (r *AgentRepository) GetByUsername(username string) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `
		SELECT id, username, password_hash, full_name, status, created_at, updated_at
		FROM agents
		WHERE username = $1
	`

	err := r.db.QueryRow(query, username).Scan(
		&agent.ID, &agent.Username, &agent.PasswordHash, &agent.FullName,
		&agent.Status, &agent.CreatedAt, &agent.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// GetByID retrieves an agent by ID. Returns (nil, nil) when absent.
func (r *AgentRepository) GetByID(agentID string) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `
		SELECT id, username, password_hash, full_name, status, created_at, updated_at
		FROM agents
		WHERE id = $1
	`

	err := r.db.QueryRow(query, agentID).Scan(
		&agent.ID, &agent.Username, &agent.PasswordHash, &agent.FullName,
		&agent.Status, &agent.CreatedAt, &agent.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return agent, nil
}
