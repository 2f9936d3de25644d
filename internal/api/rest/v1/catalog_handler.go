package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/leliel12/ulrich/internal/app"
	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
)

// CatalogHandler serves users and tags.
type CatalogHandler struct {
	users *app.UserService
	tags  *app.TagService
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(users *app.UserService, tags *app.TagService) *CatalogHandler {
	return &CatalogHandler{users: users, tags: tags}
}

// CreateUser handles POST /users.
func (h *CatalogHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers handles GET /users.
func (h *CatalogHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateTag handles POST /tags.
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	tag, err := h.tags.Create(c.Request.Context(), req.Tag)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// ListTags handles GET /tags.
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// respondError translates core errors into HTTP statuses without leaking
// internal identifiers.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, persistence.ErrConstraintViolation):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "resource conflicts with an existing record"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "resource not found"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
