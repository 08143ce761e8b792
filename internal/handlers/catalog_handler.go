package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/services"
)

// CatalogHandler handles HTTP requests for routes, buses, and schedules
type CatalogHandler struct {
	service *services.CatalogService
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *services.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// CreateRoute handles POST /api/v1/routes
// @Summary Create a route
// @Tags Catalog
// @Accept json
// @Produce json
// @Param route body models.CreateRouteRequest true "Route definition"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/routes [post]
func (h *CatalogHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	route, err := h.service.CreateRoute(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"route":  route,
	})
}

// ListRoutes handles GET /api/v1/routes
// @Summary List active routes
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/routes [get]
func (h *CatalogHandler) ListRoutes(c *gin.Context) {
	routes, err := h.service.ListRoutes()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"routes": routes,
		"count":  len(routes),
	})
}

// GetRoute handles GET /api/v1/routes/:id
// @Summary Get a route
// @Tags Catalog
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Route not found"
// @Router /api/v1/routes/{id} [get]
func (h *CatalogHandler) GetRoute(c *gin.Context) {
	route, err := h.service.GetRoute(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"route":  route,
	})
}

// ListRouteSchedules handles GET /api/v1/routes/:id/schedules
// @Summary List schedules on a route
// @Tags Catalog
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/routes/{id}/schedules [get]
func (h *CatalogHandler) ListRouteSchedules(c *gin.Context) {
	schedules, err := h.service.ListRouteSchedules(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// CreateBus handles POST /api/v1/buses
// @Summary Register a bus
// @Tags Catalog
// @Accept json
// @Produce json
// @Param bus body models.CreateBusRequest true "Bus details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/buses [post]
func (h *CatalogHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bus, err := h.service.CreateBus(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"bus":    bus,
	})
}

// ListBuses handles GET /api/v1/buses
// @Summary List buses
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/buses [get]
func (h *CatalogHandler) ListBuses(c *gin.Context) {
	buses, err := h.service.ListBuses()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"buses":  buses,
		"count":  len(buses),
	})
}

// CreateSchedule handles POST /api/v1/schedules
// @Summary Create a schedule template
// @Tags Catalog
// @Accept json
// @Produce json
// @Param schedule body models.CreateScheduleRequest true "Schedule definition"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Bus or route not found"
// @Router /api/v1/schedules [post]
func (h *CatalogHandler) CreateSchedule(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	schedule, err := h.service.CreateSchedule(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"schedule": schedule,
	})
}
