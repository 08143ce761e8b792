package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// respondError maps a service error onto the HTTP response. The four domain
// error kinds each have a fixed status; anything else is a 500 whose detail
// stays in the logs.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch e := err.(type) {
	case *models.ValidationError:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": e.Message,
		})
	case *models.NotFoundError:
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": e.Error(),
		})
	case *models.ConflictError:
		body := gin.H{
			"status":  "error",
			"message": e.Message,
		}
		if len(e.ContestedSeats) > 0 {
			body["contested_seats"] = e.ContestedSeats
		}
		c.JSON(http.StatusConflict, body)
	case *models.PolicyError:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": e.Message,
		})
	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Internal server error. Please try again later.",
		})
	}
}

// respondBindError handles gin binding failures uniformly
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Invalid request format",
		"error":   err.Error(),
	})
}
