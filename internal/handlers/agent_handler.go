package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/middleware"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/services"
)

// AgentHandler handles HTTP requests for agent authentication
type AgentHandler struct {
	service *services.AgentService
	logger  *logrus.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(service *services.AgentService, logger *logrus.Logger) *AgentHandler {
	return &AgentHandler{
		service: service,
		logger:  logger,
	}
}

// Login handles POST /api/v1/agent/login
// @Summary Agent login
// @Tags Agent
// @Accept json
// @Produce json
// @Param credentials body models.AgentLoginRequest true "Agent credentials"
// @Success 200 {object} models.AgentLoginResponse
// @Failure 400 {object} map[string]interface{} "Invalid credentials"
// @Failure 422 {object} map[string]interface{} "Account suspended"
// @Router /api/v1/agent/login [post]
func (h *AgentHandler) Login(c *gin.Context) {
	var req models.AgentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.service.Login(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Profile handles GET /api/v1/agent/me
// @Summary Get the signed-in agent's profile
// @Tags Agent
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Agent token required"
// @Security Bearer
// @Router /api/v1/agent/me [get]
func (h *AgentHandler) Profile(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Agent authentication required",
		})
		return
	}

	agent, err := h.service.GetAgent(principal.SubjectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"agent":  agent,
	})
}
