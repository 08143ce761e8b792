package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
	"github.com/prathameshmane019/suhani-travels-sub000/pkg/jwt"
)

// AgentStore is the agent persistence surface the service depends on
type AgentStore interface {
	Create(agent *models.Agent) error
	GetByUsername(username string) (*models.Agent, error)
	GetByID(agentID string) (*models.Agent, error)
}

// AgentService handles agent authentication and registration
type AgentService struct {
	agents     AgentStore
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAgentService creates a new agent service
func NewAgentService(agents AgentStore, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AgentService {
	return &AgentService{
		agents:     agents,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Login authenticates an agent and issues a token.
// Failed lookups and bad passwords return the same error so the response
// does not reveal which usernames exist.
func (s *AgentService) Login(req *models.AgentLoginRequest) (*models.AgentLoginResponse, error) {
	agent, err := s.agents.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to load agent: %w", err)
	}
	if agent == nil {
		return nil, models.NewValidationError("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithField("username", req.Username).Warn("Agent login failed")
		return nil, models.NewValidationError("invalid username or password")
	}

	if !agent.IsActive() {
		return nil, models.NewPolicyError("agent account is suspended")
	}

	token, err := s.jwtService.GenerateToken(agent.ID, agent.Username, jwt.RoleAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	expiresAt, err := s.jwtService.GetTokenExpiry(token)
	if err != nil {
		return nil, fmt.Errorf("failed to read token expiry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"agent_id": agent.ID,
		"username": agent.Username,
	}).Info("Agent logged in")

	return &models.AgentLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Agent:     agent,
	}, nil
}

// CreateAgent registers a new agent with a hashed password
func (s *AgentService) CreateAgent(username, password, fullName string) (*models.Agent, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewValidationError("username cannot be empty")
	}
	if len(password) < 8 {
		return nil, models.NewValidationError("password must be at least 8 characters")
	}

	existing, err := s.agents.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, models.NewConflictError("username already taken", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	agent := &models.Agent{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Status:       models.AgentStatusActive,
	}

	if err := s.agents.Create(agent); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"agent_id": agent.ID,
		"username": agent.Username,
	}).Info("Agent created")

	return agent, nil
}

// GetAgent retrieves an agent by ID
func (s *AgentService) GetAgent(agentID string) (*models.Agent, error) {
	agent, err := s.agents.GetByID(agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent: %w", err)
	}
	if agent == nil {
		return nil, models.NewNotFoundError("agent", agentID)
	}
	return agent, nil
}
