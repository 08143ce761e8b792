package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
	"github.com/prathameshmane019/suhani-travels-sub000/pkg/jwt"
)

type fakeAgentStore struct {
	agents map[string]*models.Agent
}

func newFakeAgentStore() *fakeAgentStore {
	return &fakeAgentStore{agents: map[string]*models.Agent{}}
}

func (f *fakeAgentStore) Create(agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	agent.CreatedAt = time.Now()
	agent.UpdatedAt = agent.CreatedAt
	stored := *agent
	f.agents[agent.ID] = &stored
	return nil
}

func (f *fakeAgentStore) GetByUsername(username string) (*models.Agent, error) {
	for _, agent := range f.agents {
		if agent.Username == username {
			copied := *agent
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAgentStore) GetByID(agentID string) (*models.Agent, error) {
	agent, ok := f.agents[agentID]
	if !ok {
		return nil, nil
	}
	copied := *agent
	return &copied, nil
}

func newAgentService() (*AgentService, *fakeAgentStore) {
	store := newFakeAgentStore()
	jwtService := jwt.NewService("test-secret-key-for-agent-tests", time.Hour)
	// MinCost keeps the hashing fast in tests
	return NewAgentService(store, jwtService, 4, testLogger()), store
}

func TestCreateAgent(t *testing.T) {
	t.Run("Registers An Agent", func(t *testing.T) {
		svc, _ := newAgentService()

		agent, err := svc.CreateAgent("counter.colombo", "s3cret-pass", "Colombo Counter")
		require.NoError(t, err)
		assert.NotEmpty(t, agent.ID)
		assert.Equal(t, models.AgentStatusActive, agent.Status)
		assert.NotEqual(t, "s3cret-pass", agent.PasswordHash)
	})

	t.Run("Rejects Short Passwords", func(t *testing.T) {
		svc, _ := newAgentService()

		_, err := svc.CreateAgent("counter.colombo", "short", "Colombo Counter")
		require.Error(t, err)
		_, ok := err.(*models.ValidationError)
		assert.True(t, ok, "expected ValidationError, got %T", err)
	})

	t.Run("Rejects Duplicate Usernames", func(t *testing.T) {
		svc, _ := newAgentService()

		_, err := svc.CreateAgent("counter.colombo", "s3cret-pass", "Colombo Counter")
		require.NoError(t, err)

		_, err = svc.CreateAgent("counter.colombo", "other-pass-1", "Someone Else")
		require.Error(t, err)
		_, ok := err.(*models.ConflictError)
		assert.True(t, ok, "expected ConflictError, got %T", err)
	})
}

func TestAgentLogin(t *testing.T) {
	t.Run("Issues A Token For Valid Credentials", func(t *testing.T) {
		svc, _ := newAgentService()
		agent, err := svc.CreateAgent("counter.colombo", "s3cret-pass", "Colombo Counter")
		require.NoError(t, err)

		resp, err := svc.Login(&models.AgentLoginRequest{
			Username: "counter.colombo",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
		assert.Equal(t, agent.ID, resp.Agent.ID)
	})

	t.Run("Same Error For Unknown User And Bad Password", func(t *testing.T) {
		svc, _ := newAgentService()
		_, err := svc.CreateAgent("counter.colombo", "s3cret-pass", "Colombo Counter")
		require.NoError(t, err)

		_, unknownErr := svc.Login(&models.AgentLoginRequest{
			Username: "nobody", Password: "s3cret-pass",
		})
		_, badPassErr := svc.Login(&models.AgentLoginRequest{
			Username: "counter.colombo", Password: "wrong-pass",
		})
		require.Error(t, unknownErr)
		require.Error(t, badPassErr)
		assert.Equal(t, unknownErr.Error(), badPassErr.Error())
	})

	t.Run("Suspended Agents Cannot Log In", func(t *testing.T) {
		svc, store := newAgentService()
		agent, err := svc.CreateAgent("counter.colombo", "s3cret-pass", "Colombo Counter")
		require.NoError(t, err)
		store.agents[agent.ID].Status = models.AgentStatusSuspended

		_, err = svc.Login(&models.AgentLoginRequest{
			Username: "counter.colombo", Password: "s3cret-pass",
		})
		require.Error(t, err)
		_, ok := err.(*models.PolicyError)
		assert.True(t, ok, "expected PolicyError, got %T", err)
	})

	t.Run("Trims Username Whitespace", func(t *testing.T) {
		svc, _ := newAgentService()
		_, err := svc.CreateAgent("counter.colombo", "s3cret-pass", "Colombo Counter")
		require.NoError(t, err)

		resp, err := svc.Login(&models.AgentLoginRequest{
			Username: "  counter.colombo  ", Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})
}

func TestGetAgent(t *testing.T) {
	svc, _ := newAgentService()
	agent, err := svc.CreateAgent("counter.colombo", "s3cret-pass", "Colombo Counter")
	require.NoError(t, err)

	got, err := svc.GetAgent(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.Username, got.Username)

	_, err = svc.GetAgent("missing")
	require.Error(t, err)
	_, ok := err.(*models.NotFoundError)
	assert.True(t, ok)
}
