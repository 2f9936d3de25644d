package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leliel12/ulrich/internal/app"
)

// ExperimentHandler serves experiments addressed by their public code.
type ExperimentHandler struct {
	experiments *app.ExperimentService
}

// NewExperimentHandler creates a new ExperimentHandler instance.
func NewExperimentHandler(experiments *app.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{experiments: experiments}
}

// Create handles POST /experiments.
func (h *ExperimentHandler) Create(c *gin.Context) {
	var req CreateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	experiment, err := h.experiments.Create(c.Request.Context(), req.Owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, experiment)
}

// GetByCode handles GET /experiments/:code.
func (h *ExperimentHandler) GetByCode(c *gin.Context) {
	experiment, err := h.experiments.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, experiment)
}

// ListByOwner handles GET /experiments?owner=....
func (h *ExperimentHandler) ListByOwner(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "owner query parameter is required"})
		return
	}

	experiments, err := h.experiments.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, experiments)
}
