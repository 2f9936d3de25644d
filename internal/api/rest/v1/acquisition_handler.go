package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leliel12/ulrich/internal/app"
	"github.com/leliel12/ulrich/internal/domain/catalog"
	"github.com/leliel12/ulrich/internal/infrastructure/storage"
)

// AcquisitionHandler serves acquisition ingestion and payload download.
type AcquisitionHandler struct {
	captures *app.CaptureService
}

// NewAcquisitionHandler creates a new AcquisitionHandler instance.
func NewAcquisitionHandler(captures *app.CaptureService) *AcquisitionHandler {
	return &AcquisitionHandler{captures: captures}
}

// Ingest handles POST /experiments/:code/acquisitions. The multipart form
// may carry "metadata", "swir" and "vnir" files; absent parts leave the
// corresponding payload slot empty.
func (h *AcquisitionHandler) Ingest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	open := func(field string) (io.Reader, func(), error) {
		files := form.File[field]
		if len(files) == 0 {
			return nil, func() {}, nil
		}
		f, err := files[0].Open()
		if err != nil {
			return nil, func() {}, err
		}
		return f, func() { _ = f.Close() }, nil
	}

	var closers []func()
	defer func() {
		for _, cleanup := range closers {
			cleanup()
		}
	}()

	readers := make(map[string]io.Reader, 3)
	for _, field := range []string{"metadata", "swir", "vnir"} {
		r, cleanup, err := open(field)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable " + field + " part"})
			return
		}
		closers = append(closers, cleanup)
		readers[field] = r
	}

	acquisition, err := h.captures.IngestAcquisition(c.Request.Context(), c.Param("code"),
		readers["metadata"], readers["swir"], readers["vnir"])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acquisition)
}

// List handles GET /experiments/:code/acquisitions.
func (h *AcquisitionHandler) List(c *gin.Context) {
	acquisitions, err := h.captures.ListByExperiment(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acquisitions)
}

// DownloadPayload handles GET /acquisitions/:id/:kind, where kind is one of
// metadata, swir, vnir.
func (h *AcquisitionHandler) DownloadPayload(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid acquisition id"})
		return
	}

	kind := app.PayloadKind(c.Param("kind"))
	switch kind {
	case app.PayloadMetadata, app.PayloadSWIR, app.PayloadVNIR:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown payload kind"})
		return
	}

	payload, err := h.captures.ReadPayload(c.Request.Context(), id, kind)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrPayloadNotSet):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "payload not set on this acquisition"})
		case errors.Is(err, storage.ErrBlobNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "payload data is missing from storage"})
		default:
			respondError(c, err)
		}
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", payload)
}
