package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/leliel12/ulrich/internal/app"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	users *app.UserService,
	tags *app.TagService,
	experiments *app.ExperimentService,
	captures *app.CaptureService) {

	v1 := r.Group(BasePath)

	// Users and tags
	catalogHandler := NewCatalogHandler(users, tags)
	v1.POST("/users", catalogHandler.CreateUser)
	v1.GET("/users", catalogHandler.ListUsers)
	v1.POST("/tags", catalogHandler.CreateTag)
	v1.GET("/tags", catalogHandler.ListTags)

	// Experiments
	experimentHandler := NewExperimentHandler(experiments)
	v1.POST("/experiments", experimentHandler.Create)
	v1.GET("/experiments", experimentHandler.ListByOwner)
	v1.GET("/experiments/:code", experimentHandler.GetByCode)

	// Acquisitions
	acquisitionHandler := NewAcquisitionHandler(captures)
	v1.POST("/experiments/:code/acquisitions", acquisitionHandler.Ingest)
	v1.GET("/experiments/:code/acquisitions", acquisitionHandler.List)
	v1.GET("/acquisitions/:id/:kind", acquisitionHandler.DownloadPayload)
}
